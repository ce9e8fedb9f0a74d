/*
Package scheme describes rhyme schemes as letter patterns.

A scheme assigns one letter to every verse slot. Slots sharing a letter,
ignoring case, form a rhyme group. Case carries meaning too: a lowercase
letter marks the reference occurrence of its group, whose closing word seeds
suggestions, and an uppercase letter marks a dependent occurrence expected to
rhyme with it.

	s, err := scheme.Parse("abBAAcCdDC", scheme.Slots)
	s.LetterAt(3)          // 'A'
	s.ReferenceIndex('a')  // 0
	s.Groups()['C']        // [5 6 9]

A scheme is free to leave a group without reference or without dependents;
lookups then come back empty instead of failing.
*/
package scheme

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Slots is the number of verses in a décima.
const Slots = 10

const (
	// Decima is the classic espinela pattern.
	Decima Scheme = "ABBAACCDDC"
	// DecimaMarked is the same pattern with the first occurrence of each group marked as reference.
	DecimaMarked Scheme = "abBAAcCdDC"
)

var (
	ErrLength = errors.New("scheme: wrong number of slots")
	ErrLetter = errors.New("scheme: slot tag is not a letter")
)

// Scheme is a rhyme pattern, one letter per slot.
type Scheme string

// None is returned by ReferenceIndex when a group has no reference slot.
const None = -1

// Parse validates pattern against the slot count of a form.
func Parse(pattern string, slots int) (Scheme, error) {
	if n := utf8.RuneCountInString(pattern); n != slots {
		return "", fmt.Errorf("%w: %q has %d, want %d", ErrLength, pattern, n, slots)
	}
	for i, r := range []rune(pattern) {
		if !unicode.IsLetter(r) {
			return "", fmt.Errorf("%w: %q at slot %d", ErrLetter, r, i)
		}
	}
	return Scheme(pattern), nil
}

// MustParse is Parse for package-level constants; it panics on error.
func MustParse(pattern string, slots int) Scheme {
	s, err := Parse(pattern, slots)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of slots.
func (s Scheme) Len() int {
	return utf8.RuneCountInString(string(s))
}

// LetterAt returns the tag of slot i as written, or 0 when i is out of range.
func (s Scheme) LetterAt(i int) rune {
	if i < 0 {
		return 0
	}
	for pos, r := range []rune(string(s)) {
		if pos == i {
			return r
		}
	}
	return 0
}

// GroupOf returns the case-folded group key of slot i, or 0 when out of range.
func (s Scheme) GroupOf(i int) rune {
	return unicode.ToUpper(s.LetterAt(i))
}

// Groups maps every uppercase group key to the slots carrying it, in slot order.
func (s Scheme) Groups() map[rune][]int {
	groups := make(map[rune][]int)
	for i, r := range []rune(string(s)) {
		key := unicode.ToUpper(r)
		groups[key] = append(groups[key], i)
	}
	return groups
}

// GroupOrder lists the group keys by first appearance.
func (s Scheme) GroupOrder() []rune {
	var order []rune
	seen := make(map[rune]bool)
	for _, r := range string(s) {
		key := unicode.ToUpper(r)
		if !seen[key] {
			seen[key] = true
			order = append(order, key)
		}
	}
	return order
}

// ReferenceIndex returns the first lowercase slot of letter's group, scanning
// left to right, or None. letter may be given in either case.
func (s Scheme) ReferenceIndex(letter rune) int {
	want := unicode.ToLower(letter)
	for i, r := range []rune(string(s)) {
		if r == want && unicode.IsLower(r) {
			return i
		}
	}
	return None
}

// IsReference reports whether slot i is written in lowercase.
func (s Scheme) IsReference(i int) bool {
	r := s.LetterAt(i)
	return r != 0 && unicode.IsLower(r)
}

// IsDependent reports whether slot i is written in uppercase.
func (s Scheme) IsDependent(i int) bool {
	r := s.LetterAt(i)
	return r != 0 && unicode.IsUpper(r)
}

func (s Scheme) String() string {
	return string(s)
}
