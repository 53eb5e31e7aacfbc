package pamargs

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStoreCaseInsensitive(t *testing.T) {
	s := NewStore(false)
	s.Add("User", "alice", true)
	s.Add("flag", "", false)
	s.Add("USER", "bob", true)

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	v, hasValue, ok := s.Get("user")
	if !ok || !hasValue || v != "bob" {
		t.Errorf("Get(user) = %q, %v, %v", v, hasValue, ok)
	}
	if diff := cmp.Diff([]string{"User", "flag"}, s.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if _, hasValue, ok := s.Get("FLAG"); !ok || hasValue {
		t.Errorf("Get(FLAG) hasValue=%v ok=%v", hasValue, ok)
	}
}

func TestStoreCaseSensitive(t *testing.T) {
	s := NewStore(true)
	s.Add("a", "1", true)
	s.Add("A", "2", true)
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if s.HasKey("b") {
		t.Error("HasKey(b) = true")
	}
}

func TestStoreRangeAndClear(t *testing.T) {
	s := NewStore(true)
	s.Add("a", "1", true)
	s.Add("b", "2", true)
	s.Add("c", "3", true)

	var seen []string
	s.Range(func(key, value string, _ bool) bool {
		seen = append(seen, key+"="+value)
		return key != "b"
	})
	if diff := cmp.Diff([]string{"a=1", "b=2"}, seen); diff != "" {
		t.Errorf("Range mismatch (-want +got):\n%s", diff)
	}

	s.Clear()
	if s.Len() != 0 || s.HasKey("a") {
		t.Error("Clear left entries behind")
	}
	s.Add("z", "26", true)
	if diff := cmp.Diff([]string{"z"}, s.Keys()); diff != "" {
		t.Errorf("Keys after Clear mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreValue(t *testing.T) {
	s := NewStore(true)
	s.Add("port", "8080", true)
	s.Add("bare", "", false)

	n, ok, err := StoreValue[int32](s, "port", Int32Converter{})
	if err != nil || !ok || n != 8080 {
		t.Errorf("StoreValue(port) = %d, %v, %v", n, ok, err)
	}
	if _, ok, err := StoreValue[int32](s, "bare", Int32Converter{}); ok || err != nil {
		t.Errorf("StoreValue(bare) ok=%v err=%v", ok, err)
	}
	if _, ok, _ := StoreValue[int32](s, "missing", Int32Converter{}); ok {
		t.Error("StoreValue(missing) reported a value")
	}
}
