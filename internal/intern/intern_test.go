package intern

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTableCaseInsensitive(t *testing.T) {
	tbl := NewTable(false, 0)
	if tbl.CaseSensitive() {
		t.Fatal("CaseSensitive() = true")
	}

	if name, ok := tbl.Add("Debug"); !ok || name != "Debug" {
		t.Fatalf("Add(Debug) = %q, %v", name, ok)
	}
	if name, ok := tbl.Add("DEBUG"); ok || name != "Debug" {
		t.Fatalf("Add(DEBUG) = %q, %v; want existing Debug", name, ok)
	}
	tbl.Add("user")

	for _, in := range []string{"debug", "DEBUG", "dEbUg"} {
		if name, ok := tbl.Lookup(in); !ok || name != "Debug" {
			t.Errorf("Lookup(%q) = %q, %v", in, name, ok)
		}
	}
	if _, ok := tbl.Lookup("missing"); ok {
		t.Error("Lookup(missing) succeeded")
	}
	if diff := cmp.Diff([]string{"Debug", "user"}, tbl.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if tbl.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tbl.Len())
	}
}

func TestTableCaseSensitive(t *testing.T) {
	tbl := NewTable(true, 4)
	tbl.Add("Debug")
	if _, ok := tbl.Add("DEBUG"); !ok {
		t.Fatal("case-sensitive table rejected DEBUG")
	}
	if _, ok := tbl.Lookup("debug"); ok {
		t.Error("Lookup(debug) succeeded on a case-sensitive table")
	}
	if name, ok := tbl.Lookup("DEBUG"); !ok || name != "DEBUG" {
		t.Errorf("Lookup(DEBUG) = %q, %v", name, ok)
	}
}

func TestNamesIsACopy(t *testing.T) {
	tbl := NewTable(true, 0)
	tbl.Add("a")
	names := tbl.Names()
	names[0] = "changed"
	if got, _ := tbl.Lookup("a"); got != "a" {
		t.Fatalf("Names() aliased internal state: %q", got)
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		in            string
		caseSensitive bool
		want          string
	}{
		{"USER", false, "user"},
		{"user", false, "user"},
		{"ÄBC", false, "äbc"},
		{"USER", true, "USER"},
		{"", false, ""},
	}
	for _, tt := range tests {
		if got := Fold(tt.in, tt.caseSensitive); got != tt.want {
			t.Errorf("Fold(%q, %v) = %q, want %q", tt.in, tt.caseSensitive, got, tt.want)
		}
	}
}
