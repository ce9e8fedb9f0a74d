// Package lexicon classifies Spanish words by rhyme ending and maps endings to known words.
package lexicon

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// ErrEmptyTable is returned when a lexicon table has no usable endings.
var ErrEmptyTable = errors.New("lexicon: table has no endings")

// Source looks up the words that share an ending key.
// Implementations return words in a stable order and an empty slice for unknown keys.
type Source interface {
	WordsForEnding(key string) []string
}

// suffixes are tested in this exact order; the first match wins.
var suffixes = []string{"ar", "er", "ir", "ado", "ido", "ante", "ente", "ón", "or", "ía"}

// Suffixes returns the priority-ordered suffix list used by Classify.
func Suffixes() []string {
	out := make([]string, len(suffixes))
	copy(out, suffixes)
	return out
}

// NormalizeWord lowercases and trims a word and puts it in NFC form.
func NormalizeWord(word string) string {
	return norm.NFC.String(strings.ToLower(strings.TrimSpace(word)))
}

// Classify returns the rhyme ending key of word.
// Words of three runes or fewer are their own key. Longer words take the first
// matching suffix from Suffixes, or their last two runes when none match.
func Classify(word string) string {
	word = NormalizeWord(word)
	if utf8.RuneCountInString(word) <= 3 {
		return word
	}
	for _, s := range suffixes {
		if strings.HasSuffix(word, s) {
			return s
		}
	}
	runes := []rune(word)
	return string(runes[len(runes)-2:])
}
