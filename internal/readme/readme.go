package readme

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"readmekit/internal/source"
)

var (
	// An image markdown span wrapped in a link markdown span, i.e. a
	// linked badge. Removed before bare images so the wrapper does not
	// survive the inner removal.
	linkedBadgeRe = regexp.MustCompile(`\[!\[.*?\]\(.*?\)\]\(.*?\)`)
	imageRe       = regexp.MustCompile(`!\[.*?\]\(.*?\)`)
	blankRunRe    = regexp.MustCompile(`\n{3,}`)
)

// Normalize strips badges and images and collapses runs of three or more
// newlines to exactly two, then trims surrounding whitespace.
func Normalize(text string) string {
	text = linkedBadgeRe.ReplaceAllString(text, "")
	text = imageRe.ReplaceAllString(text, "")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

const (
	minChars        = 200
	maxChars        = 4000
	minHeadingChars = 2
	minWords        = 50
)

// PassesQualityGate reports whether a normalized README is worth keeping
// as a training example. The heading check is a crude density proxy: it
// counts '#' characters, not parsed headings.
func PassesQualityGate(text string) bool {
	n := utf8.RuneCountInString(text)
	if n < minChars || n > maxChars {
		return false
	}
	if strings.Count(text, "#") < minHeadingChars {
		return false
	}
	if len(strings.Fields(text)) < minWords {
		return false
	}
	return true
}

// README file names, matched against the full lower-cased path so only
// root-level files qualify.
var readmeNames = []string{"readme.md", "readme.rst", "readme.txt", "readme"}

// Find returns the tree path of the repository README, if present.
func Find(entries []source.TreeEntry) (string, bool) {
	for _, e := range entries {
		if e.Kind != source.KindFile {
			continue
		}
		lower := strings.ToLower(e.Path)
		for _, name := range readmeNames {
			if lower == name {
				return e.Path, true
			}
		}
	}
	return "", false
}
