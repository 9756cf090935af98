// Package search filters and orders catalog entries for display.
package search

import (
	"strings"

	"github.com/agext/levenshtein"
)

// DefaultThreshold accepts a match when at most ~30% of the compared text differs.
const DefaultThreshold = 0.3

// Score returns how far query is from the closest part of value:
// 0 for a substring match, 1 when nothing is alike.
//
// The query is compared with every window of value whose length is within one
// rune of the query, so a typo costs 1/len(query) wherever the word sits.
func Score(query, value string) float64 {
	q := []rune(strings.ToLower(strings.TrimSpace(query)))
	v := []rune(strings.ToLower(value))
	if len(q) == 0 {
		return 0
	}
	if len(v) == 0 {
		return 1
	}
	if strings.Contains(string(v), string(q)) {
		return 0
	}

	best := 1.0
	qs := string(q)
	for size := len(q) - 1; size <= len(q)+1; size++ {
		if size < 1 {
			continue
		}
		if size > len(v) {
			size = len(v)
		}
		for start := 0; start+size <= len(v); start++ {
			w := v[start : start+size]
			d := levenshtein.Distance(qs, string(w), nil)
			if s := float64(d) / float64(max(len(q), len(w))); s < best {
				best = s
			}
		}
		if size == len(v) {
			break
		}
	}
	return best
}

// BestScore is the lowest Score of query over values. Empty values are skipped.
func BestScore(query string, values ...string) float64 {
	best := 1.0
	for _, v := range values {
		if v == "" {
			continue
		}
		if s := Score(query, v); s < best {
			best = s
		}
	}
	return best
}
