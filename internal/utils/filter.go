package utils

import (
	"unicode"
	"unicode/utf8"
)

// IsSeparator checks if a rune may join the parts of a compound word
func IsSeparator(r rune) bool {
	return r == '-' || r == '\''
}

// IsOnlyNumbers checks if a string consists entirely of numeric digits
func IsOnlyNumbers(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ContainsSpecialChars checks if a string has anything besides letters and separators
func ContainsSpecialChars(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !IsSeparator(r) {
			return true
		}
	}
	return false
}

// IsRepetitive reports strings made of one rune repeated 3+ times, like "aaa".
func IsRepetitive(s string) bool {
	if utf8.RuneCountInString(s) <= 2 {
		return false
	}
	first, _ := utf8.DecodeRuneInString(s)
	for _, r := range s {
		if r != first {
			return false
		}
	}
	return true
}

// IsValidWord checks if s can be a lexicon entry or a rhyme query.
// Numbers, symbols and repetitive junk are rejected.
func IsValidWord(s string) bool {
	if len(s) == 0 {
		return false
	}
	if IsOnlyNumbers(s) {
		return false
	}
	if ContainsSpecialChars(s) {
		return false
	}
	if IsRepetitive(s) {
		return false
	}
	return true
}
