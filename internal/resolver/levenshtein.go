// file: internal/resolver/levenshtein.go
// version: 1.1.0
// guid: 3f8a1b2c-9d4e-4f6a-8b0c-5d7e9f1a3b5c

package resolver

import (
	"math"
	"sort"
	"strings"
)

// DistanceMatch pairs a candidate string with its edit distance from a target.
type DistanceMatch struct {
	Value    string `json:"value"`
	Distance int    `json:"distance"`
}

// Distance computes the Levenshtein edit distance between two strings.
// Both inputs are trimmed and lower-cased before comparison, so
// Distance("Sarah", "sarah") == 0.
func Distance(a, b string) int {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	// Single-row DP
	prev := make([]int, lb+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr := make([]int, lb+1)
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, min(prev[j]+1, prev[j-1]+cost))
		}
		prev = curr
	}
	return prev[lb]
}

// WithinThreshold reports whether the edit distance between a and b is at
// most maxDistance.
func WithinThreshold(a, b string, maxDistance int) bool {
	return Distance(a, b) <= maxDistance
}

// AdaptiveMaxDistance returns a length-scaled typo tolerance for a search
// term. Short names carry too little redundancy to tolerate edits without
// false positives ("Jo" vs "Jon" must not silently merge).
func AdaptiveMaxDistance(s string) int {
	n := len(strings.TrimSpace(s))
	switch {
	case n <= 3:
		return 0
	case n <= 5:
		return 1
	default:
		return 2
	}
}

// SimilarityPercent converts the edit distance between a and b into a 0-100
// similarity score relative to the longer string. Two empty strings are
// identical, so the score is 100.
func SimilarityPercent(a, b string) int {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	maxLen := max(len(a), len(b))
	if maxLen == 0 {
		return 100
	}
	dist := Distance(a, b)
	return int(math.Round(100 * float64(maxLen-dist) / float64(maxLen)))
}

// BestMatches computes the distance from target to every candidate and
// returns those within maxDistance, sorted ascending by distance. Ties keep
// their original candidate order.
func BestMatches(target string, candidates []string, maxDistance int) []DistanceMatch {
	var matches []DistanceMatch
	for _, c := range candidates {
		if d := Distance(target, c); d <= maxDistance {
			matches = append(matches, DistanceMatch{Value: c, Distance: d})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	return matches
}
