/*
Package rhyme proposes rhyming words for the verses of a composition.

A Suggester pairs a lexicon source with a rhyme scheme: the closing word of a
group's reference verse is classified by ending and the lexicon words sharing
that ending become the candidates for the rest of the group.

	s := rhyme.New(lexicon.Default(), rhyme.DefaultOptions())
	s.FindRhymingWords("amor", 5)                    // [dolor color valor honor favor]
	s.SuggestedRhymesByGroup(verses, scheme.Decima)  // map['A':[...] ...]
	s.LastWordSuggestions(verses, scheme.DecimaMarked, 3)

Every operation is a pure function of its inputs. Missing text, unknown
endings and out of range slots all produce empty results.
*/
package rhyme

import (
	"strings"
	"unicode/utf8"

	"github.com/bastiangx/decimaserve/pkg/lexicon"
	"github.com/bastiangx/decimaserve/pkg/scheme"
	"github.com/charmbracelet/log"
)

// MaxLastWord caps the number of closing-word suggestions.
const MaxLastWord = 8

// Options tunes a Suggester.
type Options struct {
	// GroupLimit is the number of candidates kept per rhyme group.
	GroupLimit int
	// LastWordLimit is the number of closing-word candidates, at most MaxLastWord.
	LastWordLimit int
	// MinAnchorLen is the rune length a reference word needs before
	// closing-word suggestions are attempted.
	MinAnchorLen int
}

// DefaultOptions returns the limits used by the editor.
func DefaultOptions() Options {
	return Options{
		GroupLimit:    5,
		LastWordLimit: MaxLastWord,
		MinAnchorLen:  3,
	}
}

// Suggester finds rhymes in a lexicon source.
type Suggester struct {
	source lexicon.Source
	opts   Options
}

// New returns a Suggester over source. A nil source falls back to the
// built-in table and unset limits take their defaults.
func New(source lexicon.Source, opts Options) *Suggester {
	if source == nil {
		source = lexicon.Default()
	}
	def := DefaultOptions()
	if opts.GroupLimit <= 0 {
		opts.GroupLimit = def.GroupLimit
	}
	if opts.LastWordLimit <= 0 || opts.LastWordLimit > MaxLastWord {
		opts.LastWordLimit = def.LastWordLimit
	}
	if opts.MinAnchorLen <= 0 {
		opts.MinAnchorLen = def.MinAnchorLen
	}
	return &Suggester{source: source, opts: opts}
}

// Options returns the effective options.
func (s *Suggester) Options() Options {
	return s.opts
}

// FindRhymingWords returns up to limit lexicon words sharing the ending of
// word, in lexicon order. The word itself is left out.
func (s *Suggester) FindRhymingWords(word string, limit int) []string {
	if word == "" || limit <= 0 {
		return []string{}
	}

	ending := lexicon.Classify(word)
	candidates := s.source.WordsForEnding(ending)

	rhymes := make([]string, 0, min(limit, len(candidates)))
	for _, w := range candidates {
		if w == word {
			continue
		}
		rhymes = append(rhymes, w)
		if len(rhymes) == limit {
			break
		}
	}

	log.Debug("rhymes", "word", word, "ending", ending, "found", len(rhymes))
	return rhymes
}

// SuggestedRhymesByGroup proposes candidates for every group that has both a
// verse with text and at least one uppercase slot. The first slot of the group
// holding text is the anchor for the whole group, later verses never replace
// it, and the result is keyed by the uppercase letter. Groups without
// candidates get no entry.
func (s *Suggester) SuggestedRhymesByGroup(verses []string, sc scheme.Scheme) map[rune][]string {
	result := make(map[rune][]string)
	groups := sc.Groups()

	for _, key := range sc.GroupOrder() {
		slots := groups[key]
		if !hasDependent(sc, slots) {
			continue
		}
		anchor := firstWithText(verses, slots)
		if anchor == scheme.None {
			continue
		}
		rhymes := s.FindRhymingWords(LastWord(verses[anchor]), s.opts.GroupLimit)
		if len(rhymes) > 0 {
			result[key] = rhymes
		}
	}
	return result
}

// LastWordSuggestions returns candidates to close the verse at slot, taken
// from the reference verse of its group. It is empty when the slot is its own
// reference, when the group has no lowercase reference, when the reference
// verse is blank or when its last word is shorter than MinAnchorLen runes.
func (s *Suggester) LastWordSuggestions(verses []string, sc scheme.Scheme, slot int) []string {
	letter := sc.LetterAt(slot)
	if letter == 0 {
		return []string{}
	}

	ref := sc.ReferenceIndex(letter)
	if ref == scheme.None || ref == slot {
		return []string{}
	}

	text := verseAt(verses, ref)
	if strings.TrimSpace(text) == "" {
		return []string{}
	}

	token := LastWord(text)
	if utf8.RuneCountInString(token) < s.opts.MinAnchorLen {
		return []string{}
	}
	return s.FindRhymingWords(token, s.opts.LastWordLimit)
}

// LastWord returns the last whitespace-delimited token of verse.
func LastWord(verse string) string {
	fields := strings.Fields(verse)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

func hasDependent(sc scheme.Scheme, slots []int) bool {
	for _, i := range slots {
		if sc.IsDependent(i) {
			return true
		}
	}
	return false
}

func firstWithText(verses []string, slots []int) int {
	for _, i := range slots {
		if strings.TrimSpace(verseAt(verses, i)) != "" {
			return i
		}
	}
	return scheme.None
}

func verseAt(verses []string, i int) string {
	if i < 0 || i >= len(verses) {
		return ""
	}
	return verses[i]
}
