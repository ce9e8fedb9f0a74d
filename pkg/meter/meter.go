/*
Package meter counts metrical syllables in a line of Spanish verse.

The count is an approximation built on vowel groups: every run of vowels is one
syllable, and a vowel closing one word merges with a vowel opening the next one
(a simplified synalepha), so "mano al" scans as two syllables, not three.

	n := meter.Count("quiero volar muy alto") // 7

Diphthong and hiatus rules, stress placement on the final word and the other
corrections a trained reader applies are left out on purpose.
Count is pure and safe for concurrent use.
*/
package meter

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// stripped holds the punctuation removed before scanning.
const stripped = ".,/#!$%^&*;:{}=-_`~()"

var vowels = map[rune]bool{
	'a': true, 'e': true, 'i': true, 'o': true, 'u': true,
	'á': true, 'é': true, 'í': true, 'ó': true, 'ú': true,
	'ü': true,
}

// IsVowel reports whether r is one of the Spanish vowels the counter knows.
// It expects an already lowercased rune.
func IsVowel(r rune) bool {
	return vowels[r]
}

// Normalize lowercases text, drops the stripped punctuation set and
// collapses every whitespace run into a single space.
func Normalize(text string) string {
	text = strings.ToLower(norm.NFC.String(text))
	text = strings.Map(func(r rune) rune {
		if strings.ContainsRune(stripped, r) {
			return -1
		}
		return r
	}, text)
	return strings.Join(strings.Fields(text), " ")
}

// Count returns the metrical syllable count of text.
// Empty input, or input without vowels, counts as 0.
func Count(text string) int {
	if text == "" {
		return 0
	}

	count := 0
	inVowelGroup := false

	for _, r := range Normalize(text) {
		// spaces keep the vowel group open across word boundaries
		if r == ' ' {
			continue
		}
		if IsVowel(r) {
			if !inVowelGroup {
				count++
				inVowelGroup = true
			}
			continue
		}
		inVowelGroup = false
	}

	return count
}

// CountAll scores every verse in order.
func CountAll(verses []string) []int {
	counts := make([]int, len(verses))
	for i, v := range verses {
		counts[i] = Count(v)
	}
	return counts
}
