package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the canonical dataset file name inside a data directory.
const FileName = "readme_dataset.jsonl"

// CuratedExample is one repository-README pair in the training dataset.
// Persisted as one JSON object per line; never mutated after creation.
type CuratedExample struct {
	RepoName      string `json:"repo_name"`
	FileTree      string `json:"file_tree"`
	CodeSnippets  string `json:"code_snippets"`
	ReadmeContent string `json:"readme_content"`
	Stars         int    `json:"stars"`
	Language      string `json:"language"`
}

// Writer appends curated examples to a newline-delimited JSON file.
type Writer struct {
	file *os.File
	buf  *bufio.Writer
}

// NewWriter opens (or creates) the dataset file in append mode.
func NewWriter(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	return &Writer{file: f, buf: bufio.NewWriter(f)}, nil
}

// Append writes one example as a single JSON line.
func (w *Writer) Append(ex CuratedExample) error {
	data, err := json.Marshal(ex)
	if err != nil {
		return err
	}
	if _, err := w.buf.Write(data); err != nil {
		return err
	}
	return w.buf.WriteByte('\n')
}

func (w *Writer) Close() error {
	if err := w.buf.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// ReadAll loads every example from a dataset file. A line that fails to
// parse is malformed persisted state and fails the whole read; there is
// no partial recovery.
func ReadAll(path string) ([]CuratedExample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var examples []CuratedExample
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var ex CuratedExample
		if err := json.Unmarshal([]byte(line), &ex); err != nil {
			return nil, fmt.Errorf("dataset %s: line %d: %w", path, lineNo, err)
		}
		examples = append(examples, ex)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return examples, nil
}

// Stats summarizes a collected dataset.
type Stats struct {
	TotalExamples int            `json:"total_examples"`
	ByLanguage    map[string]int `json:"by_language"`
}

// BuildStats counts examples per language.
func BuildStats(examples []CuratedExample) Stats {
	s := Stats{
		TotalExamples: len(examples),
		ByLanguage:    make(map[string]int),
	}
	for _, ex := range examples {
		s.ByLanguage[ex.Language]++
	}
	return s
}

// Save writes the stats as indented JSON.
func (s Stats) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0644)
}
