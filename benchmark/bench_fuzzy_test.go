package benchmark

import (
	"testing"

	"github.com/dzonerzy/go-pamargs/internal/fuzzy"
)

// Category: fuzzy

var fuzzyCandidates = []string{
	"DEBUG", "USER", "AUTHFILE", "NULLOK", "TRY_FIRST_PASS", "USE_FIRST_PASS",
	"NODELAY", "AUDIT", "PORT", "HOST", "TIMEOUT", "RETRY",
}

func BenchmarkMatcher_FindBest(b *testing.B) {
	matcher := fuzzy.NewMatcher(2)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		matcher.FindBest("DEBG", fuzzyCandidates)
	}
}

func BenchmarkMatcher_FindMatches(b *testing.B) {
	matcher := fuzzy.NewMatcher(2)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		matcher.FindMatches("USE", fuzzyCandidates)
	}
}

func BenchmarkSuggestions(b *testing.B) {
	b.Run("Suggest", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			fuzzy.Suggest("NULOK", fuzzyCandidates, 2)
		}
	})
	b.Run("Suggestions", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			fuzzy.Suggestions("PASS", fuzzyCandidates, 2, 3)
		}
	})
}
