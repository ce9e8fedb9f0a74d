/*
Package decima is the verse analysis and rhyme suggestion engine for décimas,
ten-line Spanish poems rhymed ABBAACCDDC with eight syllables per line.

The package-level functions are the plain call surface, bound to the built-in
lexicon and the classic form:

	decima.CountSyllables("quiero volar muy alto")         // 7
	decima.ClassifyEnding("amor")                          // "or"
	decima.FindRhymingWords("amor", 5)                     // [dolor color valor honor favor]
	decima.SuggestedRhymesByGroup(verses, "ABBAACCDDC")    // map['A':[canto llanto ...]]
	decima.LastWordSuggestions(verses, "abBAAcCdDC", 3)    // up to 8 words

An Engine bundles a Form with a rhyme.Suggester to analyse a whole
composition at once, the way an editor recomputes it on every keystroke.

	engine := decima.New(decima.DefaultForm(), nil)
	a := engine.Analyze(verses, active)

Nothing here fails: empty verses, unknown endings and out of range slots
produce zero counts and empty suggestion lists. All functions are safe for
concurrent use.
*/
package decima

import (
	"sync"

	"github.com/bastiangx/decimaserve/pkg/lexicon"
	"github.com/bastiangx/decimaserve/pkg/meter"
	"github.com/bastiangx/decimaserve/pkg/rhyme"
	"github.com/bastiangx/decimaserve/pkg/scheme"
)

var (
	defaultOnce      sync.Once
	defaultSuggester *rhyme.Suggester
)

func suggester() *rhyme.Suggester {
	defaultOnce.Do(func() {
		defaultSuggester = rhyme.New(lexicon.Default(), rhyme.DefaultOptions())
	})
	return defaultSuggester
}

// CountSyllables returns the metrical syllable count of a verse.
func CountSyllables(text string) int {
	return meter.Count(text)
}

// ClassifyEnding returns the rhyme ending key of word.
func ClassifyEnding(word string) string {
	return lexicon.Classify(word)
}

// FindRhymingWords returns up to limit built-in words rhyming with word.
func FindRhymingWords(word string, limit int) []string {
	return suggester().FindRhymingWords(word, limit)
}

// SuggestedRhymesByGroup maps each uppercase scheme letter to candidates
// derived from the first verse of its group that has text.
func SuggestedRhymesByGroup(verses []string, pattern string) map[rune][]string {
	return suggester().SuggestedRhymesByGroup(verses, scheme.Scheme(pattern))
}

// LastWordSuggestions returns at most eight words to close the verse at
// active, seeded by the lowercase reference verse of its group.
func LastWordSuggestions(verses []string, pattern string, active int) []string {
	return suggester().LastWordSuggestions(verses, scheme.Scheme(pattern), active)
}
