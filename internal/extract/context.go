package extract

import (
	"context"

	"readmekit/internal/source"
)

// ContextDocument is the bounded textual representation of a repository
// handed to a README generator: a capped file-tree listing plus
// prioritized, truncated file snippets. Immutable once built.
type ContextDocument struct {
	RepoName     string `json:"repo_name"`
	FileTree     string `json:"file_tree"`
	CodeSnippets string `json:"code_snippets"`
}

// Build runs selection and budgeting over a snapshot and assembles the
// context document. For an identical snapshot the output is
// byte-identical across calls.
func Build(ctx context.Context, src source.Source) ContextDocument {
	entries := src.Entries()
	return ContextDocument{
		RepoName:     src.Name(),
		FileTree:     source.FileTree(entries),
		CodeSnippets: BuildSnippets(ctx, src, SelectKeyFiles(entries)),
	}
}
