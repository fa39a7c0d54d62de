package source

import (
	"context"
	"strings"
)

// EntryKind distinguishes files from directories in a repository tree.
type EntryKind int

const (
	KindFile EntryKind = iota
	KindDir
)

// TreeEntry is a single path in a repository tree. Paths are
// slash-separated and relative to the repository root.
type TreeEntry struct {
	Path string
	Kind EntryKind
}

// Source is a snapshot of one repository: an ordered tree listing plus
// the ability to read individual file contents. A Source is built once
// per extraction call and discarded afterwards.
type Source interface {
	// Name returns the repository name (directory basename or owner/repo).
	Name() string
	// Entries returns the tree entries, sorted lexicographically by path.
	Entries() []TreeEntry
	// ReadFile returns the content of the file at the given tree path.
	ReadFile(ctx context.Context, path string) (string, error)
}

const (
	treeMaxEntries     = 80
	treeTruncationMark = "... (truncated)"
)

// FileTree renders the file-tree listing for a snapshot, one path per
// line. Listings longer than 80 entries keep the first 80 and end with a
// truncation marker line. The cap is independent of the snippet budget.
func FileTree(entries []TreeEntry) string {
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	if len(paths) > treeMaxEntries {
		paths = paths[:treeMaxEntries]
		paths = append(paths, treeTruncationMark)
	}
	return strings.Join(paths, "\n")
}
