package score

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Structural holds surface-form quality metrics for one text. It is a
// pure function of the text: no reference, no external state.
type Structural struct {
	NumHeadings       int  `json:"num_headings"`
	NumCodeBlocks     int  `json:"num_code_blocks"`
	HasInstallSection bool `json:"has_install_section"`
	HasUsageSection   bool `json:"has_usage_section"`
	HasDescription    bool `json:"has_description"`
	NumBulletPoints   int  `json:"num_bullet_points"`
	TotalLength       int  `json:"total_length"`
	TotalLines        int  `json:"total_lines"`
}

// The "." wildcard stands in for flexible whitespace or punctuation
// between words ("getting started", "getting-started", ...). These are
// literal pattern contracts; changing them changes the metric.
var (
	installRe = regexp.MustCompile(`(?i)(install|setup|getting.started)`)
	usageRe   = regexp.MustCompile(`(?i)(usage|how.to.use|example|quick.start)`)
)

// ScoreStructural computes structural metrics for a generated README.
func ScoreStructural(text string) Structural {
	lines := strings.Split(text, "\n")

	s := Structural{
		TotalLength: utf8.RuneCountInString(text),
		TotalLines:  len(lines),
	}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			s.NumHeadings++
		}
		if strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "*") || strings.HasPrefix(trimmed, "•") {
			s.NumBulletPoints++
		}
	}
	s.NumCodeBlocks = strings.Count(text, "```") / 2
	s.HasInstallSection = installRe.MatchString(text)
	s.HasUsageSection = usageRe.MatchString(text)
	s.HasDescription = s.TotalLength > 100
	return s
}
