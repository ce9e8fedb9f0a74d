package decima

import (
	"strings"

	"github.com/bastiangx/decimaserve/pkg/meter"
	"github.com/bastiangx/decimaserve/pkg/rhyme"
	"github.com/bastiangx/decimaserve/pkg/scheme"
)

// Line is the analysis of one verse slot.
type Line struct {
	Index     int
	Text      string
	Letter    rune
	Syllables int
	Status    meter.Status
	Reference bool
	// Rhymes are the group suggestions recorded under this slot's letter.
	Rhymes []string
}

// Analysis is everything the editor shows for the current verses.
type Analysis struct {
	Lines  []Line
	Groups map[rune][]string
	// Active is the slot being edited, or -1.
	Active   int
	LastWord []string
	Links    []scheme.Link
	// Exact counts the lines that hit the target metre.
	Exact int
}

// Complete reports whether every line hits the target metre.
func (a Analysis) Complete() bool {
	return len(a.Lines) > 0 && a.Exact == len(a.Lines)
}

// Engine analyses compositions of one Form.
type Engine struct {
	form      Form
	suggester *rhyme.Suggester
	counts    *CountCache
}

// Option configures an Engine.
type Option func(*Engine)

// WithCountCache memoizes syllable counts by verse text.
func WithCountCache(cache *CountCache) Option {
	return func(e *Engine) {
		e.counts = cache
	}
}

// New returns an Engine for form. A nil suggester uses the built-in lexicon.
func New(form Form, suggester *rhyme.Suggester, opts ...Option) *Engine {
	if suggester == nil {
		suggester = rhyme.New(nil, rhyme.DefaultOptions())
	}
	e := &Engine{form: form, suggester: suggester}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Form returns the engine's form.
func (e *Engine) Form() Form {
	return e.form
}

// Suggester returns the rhyme suggester in use.
func (e *Engine) Suggester() *rhyme.Suggester {
	return e.suggester
}

// WithForm returns an engine for form sharing this engine's suggester and
// count cache.
func (e *Engine) WithForm(form Form) *Engine {
	return &Engine{form: form, suggester: e.suggester, counts: e.counts}
}

// CountStats reports count cache usage, or nil when no cache is set.
func (e *Engine) CountStats() map[string]int {
	if e.counts == nil {
		return nil
	}
	return e.counts.Stats()
}

// Count returns the syllable count of one verse.
func (e *Engine) Count(text string) int {
	if e.counts != nil {
		return e.counts.Count(text)
	}
	return meter.Count(text)
}

// Analyze scores every verse, proposes rhymes per group and, when active is a
// valid slot, the closing words for that slot. verses is fitted to the form.
func (e *Engine) Analyze(verses []string, active int) Analysis {
	verses = e.form.Fit(verses)
	sc := e.form.Scheme

	groups := e.suggester.SuggestedRhymesByGroup(verses, sc)

	a := Analysis{
		Lines:  make([]Line, len(verses)),
		Groups: groups,
		Active: -1,
		Links:  sc.Links(verses),
	}

	for i, text := range verses {
		n := e.Count(text)
		letter := sc.LetterAt(i)
		line := Line{
			Index:     i,
			Text:      text,
			Letter:    letter,
			Syllables: n,
			Status:    meter.Classify(n, e.form.TargetSyllables),
			Reference: sc.IsReference(i),
			Rhymes:    groups[letter],
		}
		if line.Rhymes == nil {
			line.Rhymes = []string{}
		}
		if line.Status == meter.Exact {
			a.Exact++
		}
		a.Lines[i] = line
	}

	a.LastWord = []string{}
	if active >= 0 && active < len(verses) {
		a.Active = active
		a.LastWord = e.suggester.LastWordSuggestions(verses, sc, active)
	}
	return a
}

// ApplySuggestion puts word at the end of verse: it replaces the last word,
// or is appended when the verse is empty or ends in a space.
func ApplySuggestion(verse, word string) string {
	words := strings.Split(verse, " ")
	// a trailing space leaves an empty last element, which becomes the new word
	words[len(words)-1] = strings.TrimSpace(word)
	return strings.Join(words, " ")
}
