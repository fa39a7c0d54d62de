package compare

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"readmekit/internal/extract"
	"readmekit/internal/generate"
)

// Result holds before/after generated READMEs for one repository.
type Result struct {
	RepoName    string `json:"repo_name"`
	BaseModel   string `json:"base_model"`
	BaseOutput  string `json:"base_output"`
	TunedModel  string `json:"tuned_model,omitempty"`
	TunedOutput string `json:"tuned_output,omitempty"`
}

// Run generates a README with the base generator and, when given, the
// tuned generator, and writes one JSON and one markdown comparison
// artifact per repository.
func Run(ctx context.Context, doc extract.ContextDocument, base, tuned generate.Generator, outputDir string) (*Result, error) {
	fmt.Println("Generating README with base model...")
	baseOutput, err := base.Generate(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("base generation failed: %w", err)
	}
	fmt.Printf("  Base model output: %d chars\n", utf8.RuneCountInString(baseOutput))

	result := &Result{
		RepoName:   doc.RepoName,
		BaseModel:  base.Model(),
		BaseOutput: baseOutput,
	}

	if tuned != nil {
		fmt.Println("Generating README with tuned model...")
		tunedOutput, err := tuned.Generate(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("tuned generation failed: %w", err)
		}
		fmt.Printf("  Tuned model output: %d chars\n", utf8.RuneCountInString(tunedOutput))
		result.TunedModel = tuned.Model()
		result.TunedOutput = tunedOutput
	}

	if err := save(result, outputDir); err != nil {
		return nil, err
	}
	return result, nil
}

func save(result *Result, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}
	safeName := strings.ReplaceAll(result.RepoName, "/", "_")

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	jsonPath := filepath.Join(outputDir, safeName+"_comparison.json")
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		return err
	}

	mdPath := filepath.Join(outputDir, safeName+"_comparison.md")
	if err := os.WriteFile(mdPath, []byte(renderMarkdown(result)), 0644); err != nil {
		return err
	}

	fmt.Printf("\nComparison saved to: %s\n", mdPath)
	return nil
}

func renderMarkdown(result *Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# README Comparison: %s\n\n", result.RepoName)
	sb.WriteString("---\n\n")
	fmt.Fprintf(&sb, "## Before (Base Model: %s)\n\n", result.BaseModel)
	sb.WriteString(result.BaseOutput)
	sb.WriteString("\n\n---\n\n")
	if result.TunedOutput != "" {
		fmt.Fprintf(&sb, "## After (%s)\n\n", result.TunedModel)
		sb.WriteString(result.TunedOutput)
	}
	sb.WriteString("\n")
	return sb.String()
}
