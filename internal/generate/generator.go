package generate

import (
	"context"
	"fmt"
	"strings"

	"readmekit/internal/extract"
)

// Generator produces README text from a repository context document.
// Model internals (sampling, decoding) are entirely behind this
// interface; the pipeline only consumes the returned text.
type Generator interface {
	Generate(ctx context.Context, doc extract.ContextDocument) (string, error)
	Model() string
}

// PromptBuilder constructs the standardized README-writing prompt.
type PromptBuilder struct{}

func (pb *PromptBuilder) BuildReadmePrompt(doc extract.ContextDocument) string {
	var sb strings.Builder
	sb.WriteString("You are a technical writer that generates comprehensive README.md files ")
	sb.WriteString("for code repositories. Given the repository structure and code contents, ")
	sb.WriteString("write a clear, well-structured README.\n\n")
	sb.WriteString("Generate a README.md for the following repository:\n\n")
	fmt.Fprintf(&sb, "Repository name: %s\n\n", doc.RepoName)
	fmt.Fprintf(&sb, "File structure:\n%s\n\n", doc.FileTree)
	fmt.Fprintf(&sb, "Key files:\n%s\n", doc.CodeSnippets)
	return sb.String()
}
