package source

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

// Directories that never contribute useful context. Pruned top-down, so
// descendants of an ignored directory are never visited.
var ignoreDirs = map[string]struct{}{
	".git":          {},
	"node_modules":  {},
	"__pycache__":   {},
	".venv":         {},
	"venv":          {},
	".eggs":         {},
	"*.egg-info":    {},
	"dist":          {},
	"build":         {},
	".tox":          {},
	".mypy_cache":   {},
	".pytest_cache": {},
	".next":         {},
	"target":        {},
	"vendor":        {},
}

// LocalSource adapts a repository checked out on the local filesystem.
type LocalSource struct {
	root    string
	name    string
	entries []TreeEntry
}

// NewLocalSource walks the directory at root and snapshots its file
// tree. Ignored directories and dot-directories are skipped entirely.
func NewLocalSource(root string) (*LocalSource, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var entries []TreeEntry
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == abs {
				return nil
			}
			if _, ignored := ignoreDirs[d.Name()]; ignored || strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(abs, path)
		if err != nil {
			return err
		}
		entries = append(entries, TreeEntry{Path: filepath.ToSlash(rel), Kind: KindFile})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	return &LocalSource{
		root:    abs,
		name:    filepath.Base(abs),
		entries: entries,
	}, nil
}

func (s *LocalSource) Name() string { return s.name }

func (s *LocalSource) Entries() []TreeEntry { return s.entries }

// ReadFile reads a file relative to the repository root. Decoding is
// lossy: invalid UTF-8 bytes are substituted instead of failing the read.
func (s *LocalSource) ReadFile(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(path)))
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(data), string(utf8.RuneError)), nil
}
