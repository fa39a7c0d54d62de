package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel string, content []byte) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, content, 0644))
}

func TestLocalSource_Walk(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", []byte("package main"))
	writeFile(t, root, "src/util.go", []byte("package src"))
	writeFile(t, root, "README.md", []byte("# readme"))
	writeFile(t, root, "node_modules/pkg/index.js", []byte("ignored"))
	writeFile(t, root, ".git/config", []byte("ignored"))
	writeFile(t, root, ".hidden/secret.go", []byte("ignored"))
	writeFile(t, root, "vendor/dep/dep.go", []byte("ignored"))

	src, err := NewLocalSource(root)
	require.NoError(t, err)

	t.Run("Name is directory basename", func(t *testing.T) {
		assert.Equal(t, filepath.Base(root), src.Name())
	})

	t.Run("Ignored directories are pruned", func(t *testing.T) {
		paths := make([]string, 0, len(src.Entries()))
		for _, e := range src.Entries() {
			paths = append(paths, e.Path)
		}
		assert.Equal(t, []string{"README.md", "main.go", "src/util.go"}, paths)
	})

	t.Run("Entries are files", func(t *testing.T) {
		for _, e := range src.Entries() {
			assert.Equal(t, KindFile, e.Kind)
		}
	})
}

func TestLocalSource_ReadFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "ok.txt", []byte("hello"))
	writeFile(t, root, "binary.dat", []byte{0xff, 0xfe, 'h', 'i'})

	src, err := NewLocalSource(root)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("Plain text", func(t *testing.T) {
		content, err := src.ReadFile(ctx, "ok.txt")
		require.NoError(t, err)
		assert.Equal(t, "hello", content)
	})

	t.Run("Invalid bytes are substituted, not fatal", func(t *testing.T) {
		content, err := src.ReadFile(ctx, "binary.dat")
		require.NoError(t, err)
		assert.True(t, utf8.ValidString(content))
		assert.Contains(t, content, "hi")
	})

	t.Run("Missing file returns an error", func(t *testing.T) {
		_, err := src.ReadFile(ctx, "nope.txt")
		assert.Error(t, err)
	})
}
