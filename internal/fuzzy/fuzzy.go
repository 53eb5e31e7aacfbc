// Package fuzzy finds "did you mean" candidates for unrecognized arguments.
// Subsequence matches come from fuzzysearch; plain typos fall back to a
// bounded Levenshtein distance.
package fuzzy

import (
	"sort"
	"strings"

	fuzzysearch "github.com/lithammer/fuzzysearch/fuzzy"
)

// Matcher ranks candidate names against an input.
type Matcher struct {
	maxDistance int
	minLength   int
}

// NewMatcher creates a matcher accepting typos up to maxDistance edits.
func NewMatcher(maxDistance int) *Matcher {
	return &Matcher{
		maxDistance: maxDistance,
		minLength:   2, // Don't suggest for very short inputs
	}
}

// Match is one ranked candidate.
type Match struct {
	Value    string
	Distance int
	Score    float64 // 0.0 to 1.0, higher is better
}

// FindBest returns the best candidate, or "" when nothing is close enough.
func (m *Matcher) FindBest(input string, candidates []string) string {
	matches := m.FindMatches(input, candidates)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Value
}

// FindMatches returns every acceptable candidate, best first. Exact
// (case-insensitive) matches are skipped since they are not suggestions.
func (m *Matcher) FindMatches(input string, candidates []string) []Match {
	if len(input) < m.minLength || len(candidates) == 0 {
		return nil
	}
	lower := strings.ToLower(input)

	seen := make(map[string]bool, len(candidates))
	var matches []Match

	// Abbreviations: the input appears in order inside the candidate.
	for _, rank := range fuzzysearch.RankFindFold(input, candidates) {
		if strings.EqualFold(rank.Target, input) || rank.Distance > len(input) {
			continue
		}
		seen[rank.Target] = true
		matches = append(matches, Match{
			Value:    rank.Target,
			Distance: rank.Distance,
			Score:    m.score(lower, strings.ToLower(rank.Target), rank.Distance),
		})
	}

	// Typos: small edit distance regardless of character order.
	for _, candidate := range candidates {
		if seen[candidate] {
			continue
		}
		cl := strings.ToLower(candidate)
		if cl == lower {
			continue
		}
		if d := m.levenshteinDistance(lower, cl); d <= m.maxDistance {
			matches = append(matches, Match{Value: candidate, Distance: d, Score: m.score(lower, cl, d)})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score == matches[j].Score {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// score combines edit distance, shared prefix and length similarity.
func (m *Matcher) score(input, candidate string, distance int) float64 {
	maxLen := max(len(input), len(candidate))
	if maxLen == 0 {
		return 1.0
	}
	editScore := 1.0 - float64(distance)/float64(maxLen)
	if editScore < 0 {
		editScore = 0
	}

	prefixBonus := 0.0
	if p := commonPrefixLength(input, candidate); p > 0 {
		prefixBonus = float64(p) / float64(min(len(input), len(candidate))) * 0.3
	}

	lengthDiff := len(input) - len(candidate)
	if lengthDiff < 0 {
		lengthDiff = -lengthDiff
	}
	lengthBonus := (1.0 - float64(lengthDiff)/float64(maxLen)) * 0.2

	return min(editScore+prefixBonus+lengthBonus, 1.0)
}

// levenshteinDistance returns the edit distance between a and b, or
// maxDistance+1 as soon as it is known to exceed maxDistance.
func (m *Matcher) levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	if d := len(a) - len(b); d > m.maxDistance || -d > m.maxDistance {
		return m.maxDistance + 1
	}
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for i := range prev {
		prev[i] = i
	}

	for i := 1; i <= len(b); i++ {
		curr[0] = i
		rowMin := i
		for j := 1; j <= len(a); j++ {
			cost := 1
			if a[j-1] == b[i-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
			rowMin = min(rowMin, curr[j])
		}
		if rowMin > m.maxDistance {
			return m.maxDistance + 1
		}
		prev, curr = curr, prev
	}
	return prev[len(a)]
}

func commonPrefixLength(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// Suggest returns the closest candidate to input, or "".
func Suggest(input string, candidates []string, maxDistance int) string {
	return NewMatcher(maxDistance).FindBest(input, candidates)
}

// Suggestions returns up to limit candidates, best first.
func Suggestions(input string, candidates []string, maxDistance, limit int) []string {
	matches := NewMatcher(maxDistance).FindMatches(input, candidates)
	out := make([]string, 0, min(len(matches), limit))
	for _, match := range matches {
		if len(out) == limit {
			break
		}
		out = append(out, match.Value)
	}
	return out
}
