package extract

import (
	"path"
	"strings"

	"readmekit/internal/source"
)

// Files that are typically informative for understanding a repository,
// matched by lower-cased basename anywhere in the tree.
var importantFiles = map[string]struct{}{
	"setup.py":           {},
	"setup.cfg":          {},
	"pyproject.toml":     {},
	"package.json":       {},
	"cargo.toml":         {},
	"go.mod":             {},
	"build.gradle":       {},
	"pom.xml":            {},
	"makefile":           {},
	"dockerfile":         {},
	"docker-compose.yml": {},
	"requirements.txt":   {},
	"gemfile":            {},
	".env.example":       {},
}

// Extensions treated as code during selection.
var codeExtensions = map[string]struct{}{
	".py": {}, ".js": {}, ".ts": {}, ".jsx": {}, ".tsx": {},
	".java": {}, ".go": {}, ".rs": {}, ".cpp": {}, ".c": {},
	".h": {}, ".rb": {}, ".php": {}, ".swift": {}, ".kt": {},
	".scala": {}, ".cs": {}, ".r": {}, ".jl": {}, ".lua": {},
	".sh": {}, ".bash": {}, ".zsh": {},
}

const (
	maxSelectedFiles = 10

	// Code files deeper than this are skipped, biasing selection toward
	// entry points and manifests over nested implementation detail.
	maxPathDepth = 2
)

// SelectKeyFiles picks the most informative files from a snapshot: first
// every important file in tree order, then top-level and near-top-level
// code files, deduplicated in first-seen order and capped at 10 paths.
func SelectKeyFiles(entries []source.TreeEntry) []string {
	var selected []string

	for _, e := range entries {
		if e.Kind != source.KindFile {
			continue
		}
		if _, ok := importantFiles[strings.ToLower(path.Base(e.Path))]; ok {
			selected = append(selected, e.Path)
		}
	}

	for _, e := range entries {
		if e.Kind != source.KindFile {
			continue
		}
		if _, ok := codeExtensions[strings.ToLower(path.Ext(e.Path))]; !ok {
			continue
		}
		if strings.Count(e.Path, "/") > maxPathDepth {
			continue
		}
		selected = append(selected, e.Path)
	}

	seen := make(map[string]struct{}, len(selected))
	deduped := make([]string, 0, len(selected))
	for _, p := range selected {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		deduped = append(deduped, p)
	}

	if len(deduped) > maxSelectedFiles {
		deduped = deduped[:maxSelectedFiles]
	}
	return deduped
}
