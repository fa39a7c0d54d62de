package eval

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"readmekit/internal/dataset"
	"readmekit/internal/extract"
	"readmekit/internal/generate"
	"readmekit/internal/score"
)

// Test examples are the tail of the dataset, past this fraction.
const trainSplit = 0.9

// Options controls one evaluation run.
type Options struct {
	Label      string
	DataDir    string
	OutputDir  string
	NumSamples int
}

// ExampleResult is the per-example detail row persisted alongside the
// summary.
type ExampleResult struct {
	RepoName   string           `json:"repo_name"`
	Generated  string           `json:"generated"`
	Reference  string           `json:"reference"`
	Rouge1     float64          `json:"rouge1"`
	Rouge2     float64          `json:"rouge2"`
	RougeL     float64          `json:"rougeL"`
	Structural score.Structural `json:"structural"`
}

// Summary is the aggregate report for one run.
type Summary struct {
	Label               string                    `json:"label"`
	Model               string                    `json:"model"`
	NumSamples          int                       `json:"num_samples"`
	Rouge               score.Overlap             `json:"rouge"`
	Structural          score.StructuralAggregate `json:"structural"`
	ReferenceStructural score.StructuralAggregate `json:"reference_structural"`
}

// Runner scores a generator against the held-out slice of the dataset.
type Runner struct {
	gen generate.Generator
}

func NewRunner(gen generate.Generator) *Runner {
	return &Runner{gen: gen}
}

func (r *Runner) Run(ctx context.Context, opts Options) (*Summary, error) {
	examples, err := dataset.ReadAll(filepath.Join(opts.DataDir, dataset.FileName))
	if err != nil {
		return nil, err
	}

	splitIdx := int(float64(len(examples)) * trainSplit)
	test := examples[splitIdx:]
	if opts.NumSamples > 0 && len(test) > opts.NumSamples {
		test = test[:opts.NumSamples]
	}
	if len(test) == 0 {
		return nil, fmt.Errorf("no test examples in %s", opts.DataDir)
	}

	fmt.Printf("Evaluating %s model on %d examples...\n", opts.Label, len(test))

	var overlaps []score.Overlap
	var genScores []score.Structural
	results := make([]ExampleResult, 0, len(test))

	for i, ex := range test {
		doc := extract.ContextDocument{
			RepoName:     ex.RepoName,
			FileTree:     ex.FileTree,
			CodeSnippets: ex.CodeSnippets,
		}
		generated, err := r.gen.Generate(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("generation failed for %s: %w", ex.RepoName, err)
		}

		ov := score.ScoreOverlap(ex.ReadmeContent, generated)
		st := score.ScoreStructural(generated)
		overlaps = append(overlaps, ov)
		genScores = append(genScores, st)
		results = append(results, ExampleResult{
			RepoName:   ex.RepoName,
			Generated:  generated,
			Reference:  ex.ReadmeContent,
			Rouge1:     ov.Rouge1,
			Rouge2:     ov.Rouge2,
			RougeL:     ov.RougeL,
			Structural: st,
		})
		fmt.Printf("  [%d/%d] %s\n", i+1, len(test), ex.RepoName)
	}

	// Reference structural scores, for comparison against the generated
	// distribution.
	refScores := make([]score.Structural, 0, len(test))
	for _, ex := range test {
		refScores = append(refScores, score.ScoreStructural(ex.ReadmeContent))
	}

	summary := &Summary{
		Label:               opts.Label,
		Model:               r.gen.Model(),
		NumSamples:          len(test),
		Rouge:               score.AggregateOverlap(overlaps),
		Structural:          score.AggregateStructural(genScores),
		ReferenceStructural: score.AggregateStructural(refScores),
	}

	if err := writeJSON(filepath.Join(opts.OutputDir, fmt.Sprintf("eval_%s.json", opts.Label)), summary); err != nil {
		return nil, err
	}
	if err := writeJSON(filepath.Join(opts.OutputDir, fmt.Sprintf("eval_%s_details.json", opts.Label)), results); err != nil {
		return nil, err
	}

	printSummary(summary)
	return summary, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0644)
}

func printSummary(s *Summary) {
	fmt.Printf("\n==================================================\n")
	fmt.Printf("Evaluation Results (%s)\n", s.Label)
	fmt.Printf("==================================================\n")
	fmt.Printf("ROUGE-1: %.4f\n", s.Rouge.Rouge1)
	fmt.Printf("ROUGE-2: %.4f\n", s.Rouge.Rouge2)
	fmt.Printf("ROUGE-L: %.4f\n", s.Rouge.RougeL)
	fmt.Printf("\nStructural Metrics (generated):\n")
	printStructural(s.Structural)
	fmt.Printf("\nStructural Metrics (reference):\n")
	printStructural(s.ReferenceStructural)
}

func printStructural(a score.StructuralAggregate) {
	fmt.Printf("  avg_headings: %.2f\n", a.AvgHeadings)
	fmt.Printf("  avg_code_blocks: %.2f\n", a.AvgCodeBlocks)
	fmt.Printf("  pct_has_install: %.2f\n", a.PctHasInstall)
	fmt.Printf("  pct_has_usage: %.2f\n", a.PctHasUsage)
	fmt.Printf("  pct_has_description: %.2f\n", a.PctHasDescription)
	fmt.Printf("  avg_bullet_points: %.2f\n", a.AvgBulletPoints)
	fmt.Printf("  avg_length: %.2f\n", a.AvgLength)
	fmt.Printf("  avg_lines: %.2f\n", a.AvgLines)
}
