package decima

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/bastiangx/decimaserve/pkg/meter"
	"github.com/bastiangx/decimaserve/pkg/scheme"
)

func sampleVerses() []string {
	return []string{
		"quiero volar muy alto",
		"y en la noche cantar",
		"", "", "",
		"la luz de tu corazón",
		"", "", "", "",
	}
}

func TestCallSurface(t *testing.T) {
	if got := CountSyllables("casa"); got != 2 {
		t.Errorf("CountSyllables: expected 2, got %d", got)
	}
	if got := ClassifyEnding("amor"); got != "or" {
		t.Errorf("ClassifyEnding: expected \"or\", got %q", got)
	}
	want := []string{"dolor", "color", "valor", "honor", "favor"}
	if got := FindRhymingWords("amor", 5); !reflect.DeepEqual(got, want) {
		t.Errorf("FindRhymingWords: expected %v, got %v", want, got)
	}

	groups := SuggestedRhymesByGroup(sampleVerses(), "ABBAACCDDC")
	if len(groups['A']) == 0 || groups['A'][0] != "canto" {
		t.Errorf("expected A suggestions seeded by 'alto', got %v", groups['A'])
	}
	if _, ok := groups['D']; ok {
		t.Error("group D has no text and should have no entry")
	}

	if got := LastWordSuggestions(sampleVerses(), "abBAAcCdDC", 4); len(got) != 8 {
		t.Errorf("expected 8 closing words, got %v", got)
	}
	if got := LastWordSuggestions(sampleVerses(), "ABBAACCDDC", 4); len(got) != 0 {
		t.Errorf("expected no closing words without a lowercase reference, got %v", got)
	}
}

func TestNewForm(t *testing.T) {
	f, err := NewForm("abBAAcCdDC", 10, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Scheme != scheme.DecimaMarked {
		t.Errorf("unexpected scheme %q", f.Scheme)
	}

	if _, err := NewForm("ABBA", 10, 8); !errors.Is(err, scheme.ErrLength) {
		t.Errorf("expected ErrLength, got %v", err)
	}
	if _, err := NewForm("ABBAACCDDC", 10, 0); err == nil {
		t.Error("expected an error for a zero target")
	}
}

func TestFormFit(t *testing.T) {
	f := DefaultForm()
	if got := f.Fit([]string{"uno"}); len(got) != 10 || got[0] != "uno" {
		t.Errorf("expected padded verses, got %v", got)
	}
	long := make([]string, 12)
	long[11] = "extra"
	if got := f.Fit(long); len(got) != 10 {
		t.Errorf("expected truncated verses, got %d", len(got))
	}
}

func TestAnalyze(t *testing.T) {
	form, _ := NewForm("abBAAcCdDC", 10, 8)
	engine := New(form, nil)

	verses := sampleVerses()
	verses[3] = "quiero llegar hasta el canto"

	a := engine.Analyze(verses, 3)

	if len(a.Lines) != 10 {
		t.Fatalf("expected 10 lines, got %d", len(a.Lines))
	}
	if a.Lines[0].Syllables != 7 || a.Lines[0].Status != meter.Short {
		t.Errorf("unexpected first line %+v", a.Lines[0])
	}
	if a.Lines[3].Syllables != 8 || a.Lines[3].Status != meter.Exact {
		t.Errorf("unexpected fourth line %+v", a.Lines[3])
	}
	if a.Exact != 1 || a.Complete() {
		t.Errorf("expected one exact line, got %d", a.Exact)
	}
	if !a.Lines[0].Reference || a.Lines[3].Reference {
		t.Error("reference flags do not follow the scheme case")
	}

	// lowercase slots get no group list, uppercase ones share theirs
	if len(a.Lines[0].Rhymes) != 0 {
		t.Errorf("reference slot should have no group rhymes, got %v", a.Lines[0].Rhymes)
	}
	if !reflect.DeepEqual(a.Lines[3].Rhymes, a.Groups['A']) {
		t.Errorf("slot 3 should carry group A rhymes")
	}

	if a.Active != 3 || len(a.LastWord) == 0 || a.LastWord[0] != "canto" {
		t.Errorf("unexpected closing words %v for active %d", a.LastWord, a.Active)
	}
	if len(a.Links) != 8 {
		t.Errorf("expected 8 links, got %d", len(a.Links))
	}
}

func TestAnalyzeInactive(t *testing.T) {
	engine := New(DefaultForm(), nil)
	for _, active := range []int{-1, 10, 99} {
		a := engine.Analyze(sampleVerses(), active)
		if a.Active != -1 || len(a.LastWord) != 0 {
			t.Errorf("active %d: expected no closing words, got %v", active, a.LastWord)
		}
	}
}

func TestAnalyzeIsPure(t *testing.T) {
	engine := New(DefaultForm(), nil, WithCountCache(NewCountCache(4)))
	first := engine.Analyze(sampleVerses(), 2)
	second := engine.Analyze(sampleVerses(), 2)
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated analysis differs")
	}
}

func TestAnalyzeConcurrent(t *testing.T) {
	engine := New(DefaultForm(), nil, WithCountCache(NewCountCache(16)))
	want := engine.Analyze(sampleVerses(), 1)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				if got := engine.Analyze(sampleVerses(), 1); !reflect.DeepEqual(got, want) {
					t.Error("concurrent analysis differs")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestWithForm(t *testing.T) {
	cache := NewCountCache(8)
	base := New(DefaultForm(), nil, WithCountCache(cache))
	marked, _ := NewForm(string(scheme.DecimaMarked), scheme.Slots, TargetSyllables)

	e := base.WithForm(marked)
	if e.Form().Scheme != scheme.DecimaMarked || base.Form().Scheme != scheme.Decima {
		t.Error("WithForm changed the wrong engine")
	}
	if e.Suggester() != base.Suggester() {
		t.Error("WithForm should share the suggester")
	}
	e.Count("casa")
	if base.CountStats()["cachedVerses"] != 1 {
		t.Error("WithForm should share the count cache")
	}
	if New(DefaultForm(), nil).CountStats() != nil {
		t.Error("expected nil stats without a cache")
	}
}

func TestCountCache(t *testing.T) {
	cache := NewCountCache(2)

	if cache.Count("casa") != 2 || cache.Count("casa") != 2 {
		t.Fatal("unexpected count")
	}
	cache.Count("amor")
	cache.Count("la luna")

	stats := cache.Stats()
	if stats["cachedVerses"] != 2 {
		t.Errorf("expected eviction to keep 2 verses, got %d", stats["cachedVerses"])
	}
	if stats["cacheHits"] != 1 || stats["cacheMisses"] != 3 {
		t.Errorf("unexpected stats %v", stats)
	}
	// evicted entry is recomputed, not lost
	if cache.Count("casa") != 2 {
		t.Error("recount after eviction failed")
	}
	if cache.Count("") != 0 {
		t.Error("empty verse should count 0")
	}
}

func TestApplySuggestion(t *testing.T) {
	testCases := []struct {
		verse       string
		word        string
		expected    string
		description string
	}{
		{"quiero volar muy alto", "canto", "quiero volar muy canto", "Replace last word"},
		{"quiero volar ", "canto", "quiero volar canto", "Append after trailing space"},
		{"", "canto", "canto", "Empty verse"},
		{"alto", "canto", "canto", "Single word"},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			if got := ApplySuggestion(tc.verse, tc.word); got != tc.expected {
				t.Errorf("ApplySuggestion(%q, %q): expected %q, got %q", tc.verse, tc.word, tc.expected, got)
			}
		})
	}
}
