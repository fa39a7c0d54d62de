package score

import (
	"regexp"
	"strings"

	"github.com/kljensen/snowball"
)

// Overlap holds word-level reference-overlap F-measures in [0,1]:
// unigram, bigram, and longest-common-subsequence based.
type Overlap struct {
	Rouge1 float64 `json:"rouge1"`
	Rouge2 float64 `json:"rouge2"`
	RougeL float64 `json:"rougeL"`
}

var tokenRe = regexp.MustCompile(`[a-z0-9]+`)

// ScoreOverlap compares a generated text against a reference text.
func ScoreOverlap(reference, generated string) Overlap {
	ref := tokenize(reference)
	gen := tokenize(generated)
	return Overlap{
		Rouge1: ngramF(ref, gen, 1),
		Rouge2: ngramF(ref, gen, 2),
		RougeL: lcsF(ref, gen),
	}
}

// tokenize lowercases, keeps alphanumeric runs, and stems tokens longer
// than three characters so inflected forms of a word compare equal.
func tokenize(text string) []string {
	tokens := tokenRe.FindAllString(strings.ToLower(text), -1)
	for i, tok := range tokens {
		if len(tok) <= 3 {
			continue
		}
		if stemmed, err := snowball.Stem(tok, "english", true); err == nil {
			tokens[i] = stemmed
		}
	}
	return tokens
}

// ngramF is the clipped n-gram overlap F-measure: each generated n-gram
// matches at most as many times as it appears in the reference.
func ngramF(ref, gen []string, n int) float64 {
	refGrams := countNgrams(ref, n)
	genGrams := countNgrams(gen, n)
	if len(refGrams) == 0 || len(genGrams) == 0 {
		return 0
	}

	match, refTotal, genTotal := 0, 0, 0
	for gram, count := range genGrams {
		genTotal += count
		if refCount, ok := refGrams[gram]; ok {
			if count < refCount {
				match += count
			} else {
				match += refCount
			}
		}
	}
	for _, count := range refGrams {
		refTotal += count
	}
	return fMeasure(match, genTotal, refTotal)
}

func countNgrams(tokens []string, n int) map[string]int {
	grams := make(map[string]int)
	for i := 0; i+n <= len(tokens); i++ {
		grams[strings.Join(tokens[i:i+n], " ")]++
	}
	return grams
}

// lcsF computes the F-measure over the longest common subsequence of
// word tokens, using a two-row DP table.
func lcsF(ref, gen []string) float64 {
	if len(ref) == 0 || len(gen) == 0 {
		return 0
	}
	prev := make([]int, len(gen)+1)
	curr := make([]int, len(gen)+1)
	for i := 1; i <= len(ref); i++ {
		for j := 1; j <= len(gen); j++ {
			switch {
			case ref[i-1] == gen[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return fMeasure(prev[len(gen)], len(gen), len(ref))
}

func fMeasure(match, genTotal, refTotal int) float64 {
	if match == 0 {
		return 0
	}
	precision := float64(match) / float64(genTotal)
	recall := float64(match) / float64(refTotal)
	return 2 * precision * recall / (precision + recall)
}
