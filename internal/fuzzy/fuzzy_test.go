package fuzzy

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSuggest(t *testing.T) {
	candidates := []string{"DEBUG", "USER", "ENV", "authfile"}
	tests := []struct {
		input string
		want  string
	}{
		{"DEBG", "DEBUG"},
		{"debg", "DEBUG"},
		{"USR", "USER"},
		{"USRE", "USER"},
		{"authfil", "authfile"},
		{"xyz", ""},
		{"DEBUG", ""},
		{"D", ""},
	}
	for _, tt := range tests {
		if got := Suggest(tt.input, candidates, 2); got != tt.want {
			t.Errorf("Suggest(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSuggestNoCandidates(t *testing.T) {
	if got := Suggest("DEBUG", nil, 2); got != "" {
		t.Fatalf("Suggest with no candidates = %q", got)
	}
}

func TestSuggestionsLimit(t *testing.T) {
	candidates := []string{"PORT", "PORTS", "SPORT"}
	got := Suggestions("PORTX", candidates, 2, 2)
	if len(got) != 2 {
		t.Fatalf("Suggestions = %v, want 2 entries", got)
	}
	if got[0] != "PORT" && got[0] != "PORTS" {
		t.Fatalf("best suggestion = %q", got[0])
	}
	if none := Suggestions("zzzz", candidates, 1, 3); len(none) != 0 {
		t.Fatalf("Suggestions(zzzz) = %v", none)
	}
}

func TestFindMatchesOrder(t *testing.T) {
	m := NewMatcher(2)
	matches := m.FindMatches("USR", []string{"USERS", "USER"})
	var got []string
	for _, match := range matches {
		got = append(got, match.Value)
	}
	if diff := cmp.Diff([]string{"USER", "USERS"}, got); diff != "" {
		t.Errorf("FindMatches mismatch (-want +got):\n%s", diff)
	}
	if matches[0].Score <= matches[1].Score {
		t.Errorf("scores not descending: %+v", matches)
	}
}

func TestLevenshteinDistance(t *testing.T) {
	m := NewMatcher(3)
	tests := []struct {
		a, b string
		want int
	}{
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"same", "same", 0},
		{"a", "abcdefgh", 4},
	}
	for _, tt := range tests {
		if got := m.levenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
