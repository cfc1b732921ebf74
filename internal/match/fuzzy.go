// Package match provides edit-distance similarity scoring for personality
// name lookup. All functions are pure; the package holds no state.
package match

import (
	"sort"
	"strings"
)

// Candidate is a scored match from FindBestMatches.
type Candidate struct {
	Name  string
	Score float64
}

// Similarity returns a normalized similarity score in [0,1] between two
// strings based on Levenshtein edit distance. Comparison is case-insensitive.
// Empty input on either side scores 0.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	la := strings.ToLower(a)
	lb := strings.ToLower(b)
	if la == lb {
		return 1
	}

	dist := levenshtein(la, lb)
	maxLen := len([]rune(la))
	if n := len([]rune(lb)); n > maxLen {
		maxLen = n
	}
	return 1 - float64(dist)/float64(maxLen)
}

// FindBestMatches scores query against every candidate, keeps those with
// score >= threshold, and returns them sorted by score descending. Ties keep
// the candidates' original order, so the result is deterministic for a fixed
// candidate list.
func FindBestMatches(query string, candidates []string, threshold float64) []Candidate {
	var matches []Candidate
	for _, c := range candidates {
		if score := Similarity(query, c); score >= threshold {
			matches = append(matches, Candidate{Name: c, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// levenshtein computes edit distance with a two-row DP over runes.
func levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
