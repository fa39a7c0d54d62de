package extract

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"readmekit/internal/source"
)

const (
	// MaxFileChars caps the contribution of a single file, in characters.
	MaxFileChars = 1500

	// MaxTotalChars is the aggregate snippet budget. The check runs
	// before each file is admitted and the admitted file's capped size is
	// added unconditionally, so the final total may exceed the budget by
	// up to one file's cap. That overshoot is part of the contract.
	MaxTotalChars = 6000
)

// BuildSnippets reads the selected files strictly in order and assembles
// the bounded snippet bundle. Once the running total reaches the budget,
// no further files are attempted. Files that fail to read are skipped
// silently and do not count against the budget.
func BuildSnippets(ctx context.Context, src source.Source, paths []string) string {
	var blocks []string
	total := 0

	for _, p := range paths {
		if total >= MaxTotalChars {
			break
		}
		content, err := src.ReadFile(ctx, p)
		if err != nil {
			continue
		}
		content = truncateChars(content, MaxFileChars)
		total += utf8.RuneCountInString(content)
		blocks = append(blocks, fmt.Sprintf("--- %s ---\n%s", p, content))
	}

	return strings.Join(blocks, "\n\n")
}

func truncateChars(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
