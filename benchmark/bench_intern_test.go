package benchmark

import (
	"testing"

	"github.com/dzonerzy/go-pamargs/internal/intern"
)

// Category: intern

func newNameTable(caseSensitive bool) *intern.Table {
	t := intern.NewTable(caseSensitive, len(fuzzyCandidates))
	for _, n := range fuzzyCandidates {
		t.Add(n)
	}
	return t
}

func BenchmarkTable_LookupExact(b *testing.B) {
	t := newNameTable(true)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		t.Lookup(fuzzyCandidates[i%len(fuzzyCandidates)])
	}
}

func BenchmarkTable_LookupFolded(b *testing.B) {
	t := newNameTable(false)
	inputs := []string{"debug", "User", "AUTHFILE", "nullok"}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		t.Lookup(inputs[i%len(inputs)])
	}
}

func BenchmarkFold(b *testing.B) {
	b.Run("AlreadyLower", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			intern.Fold("try_first_pass", false)
		}
	})
	b.Run("Upper", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			intern.Fold("TRY_FIRST_PASS", false)
		}
	})
}
