package utils

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestIsValidWord(t *testing.T) {
	testCases := []struct {
		input       string
		expected    bool
		description string
	}{
		{"canción", true, "Accented word"},
		{"anti-héroe", true, "Hyphenated word"},
		{"", false, "Empty string"},
		{"1234", false, "Only numbers"},
		{"hola!", false, "Punctuation"},
		{"ñññ", false, "Repetitive runes"},
		{"ño", true, "Two runes are never repetitive"},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			if got := IsValidWord(tc.input); got != tc.expected {
				t.Errorf("IsValidWord(%q): expected %v, got %v", tc.input, tc.expected, got)
			}
		})
	}
}

func TestSuggestionFilter(t *testing.T) {
	f := NewSuggestionFilter("Alto")
	if f.ShouldInclude("alto") {
		t.Error("excluded word passed the filter")
	}
	if !f.ShouldInclude("canto") {
		t.Error("new word was rejected")
	}
	if f.ShouldInclude("CANTO") {
		t.Error("repeated word passed the filter")
	}
}

func TestCreateRankList(t *testing.T) {
	if got := CreateRankList(3); !reflect.DeepEqual(got, []uint16{1, 2, 3}) {
		t.Errorf("unexpected ranks %v", got)
	}
	if got := CreateRankList(0); len(got) != 0 {
		t.Errorf("expected no ranks, got %v", got)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.msgpack")
	if err := WriteFileAtomic(path, []byte("uno")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := WriteFileAtomic(path, []byte("dos")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "dos" {
		t.Errorf("expected overwritten content, got %q (%v)", data, err)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %d entries", len(entries))
	}
}

func TestExtractHelpers(t *testing.T) {
	data := map[string]any{"scheme": "ABBA", "slots": int64(4), "show": true}
	if v, ok := ExtractString(data, "scheme"); !ok || v != "ABBA" {
		t.Errorf("ExtractString: got %q, %v", v, ok)
	}
	if v, ok := ExtractInt64(data, "slots"); !ok || v != 4 {
		t.Errorf("ExtractInt64: got %d, %v", v, ok)
	}
	if v, ok := ExtractBool(data, "show"); !ok || !v {
		t.Errorf("ExtractBool: got %v, %v", v, ok)
	}
	if _, ok := ExtractString(data, "slots"); ok {
		t.Error("ExtractString accepted a non string value")
	}
}

func TestResolveDataFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "rimas.toml")
	if err := os.WriteFile(file, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}
	pr := &PathResolver{executableDir: dir, homeDir: dir, configDir: filepath.Join(dir, "cfg")}

	if got, err := pr.ResolveDataFile(file); err != nil || got != file {
		t.Errorf("absolute path: got %q, %v", got, err)
	}
	if got, err := pr.ResolveDataFile("rimas.toml"); err != nil || got != file {
		t.Errorf("relative to executable: got %q, %v", got, err)
	}
	if _, err := pr.ResolveDataFile("missing.toml"); err == nil {
		t.Error("expected an error for a missing file")
	}
	if got, err := pr.ResolveDataFile(""); err != nil || got != "" {
		t.Errorf("empty name: got %q, %v", got, err)
	}
}
