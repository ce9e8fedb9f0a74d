package scheme

import (
	"errors"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		pattern     string
		err         error
		description string
	}{
		{"ABBAACCDDC", nil, "Classic décima"},
		{"abBAAcCdDC", nil, "Marked references"},
		{"ABBA", ErrLength, "Too short"},
		{"ABBAACCDDCA", ErrLength, "Too long"},
		{"ABBA ACCDD", ErrLetter, "Space is not a tag"},
		{"ABBA1CCDDC", ErrLetter, "Digit is not a tag"},
		{"ñBBAACCDDC", nil, "Non-ASCII letter"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			s, err := Parse(tc.pattern, Slots)
			if !errors.Is(err, tc.err) {
				t.Fatalf("Parse(%q): expected error %v, got %v", tc.pattern, tc.err, err)
			}
			if err == nil && string(s) != tc.pattern {
				t.Errorf("expected %q, got %q", tc.pattern, s)
			}
		})
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on invalid scheme")
		}
	}()
	MustParse("AB", Slots)
}

func TestLetterAt(t *testing.T) {
	s := DecimaMarked
	testCases := []struct {
		index    int
		expected rune
	}{
		{0, 'a'},
		{2, 'B'},
		{9, 'C'},
		{10, 0},
		{-1, 0},
	}
	for _, tc := range testCases {
		if got := s.LetterAt(tc.index); got != tc.expected {
			t.Errorf("LetterAt(%d): expected %q, got %q", tc.index, tc.expected, got)
		}
	}
	if s.GroupOf(0) != 'A' {
		t.Errorf("GroupOf(0): expected 'A', got %q", s.GroupOf(0))
	}
}

func TestGroups(t *testing.T) {
	want := map[rune][]int{
		'A': {0, 3, 4},
		'B': {1, 2},
		'C': {5, 6, 9},
		'D': {7, 8},
	}
	for _, s := range []Scheme{Decima, DecimaMarked} {
		if got := s.Groups(); !reflect.DeepEqual(got, want) {
			t.Errorf("%s: expected %v, got %v", s, want, got)
		}
	}

	if got := Decima.GroupOrder(); !reflect.DeepEqual(got, []rune{'A', 'B', 'C', 'D'}) {
		t.Errorf("unexpected group order %q", got)
	}
}

func TestReferenceIndex(t *testing.T) {
	testCases := []struct {
		scheme   Scheme
		letter   rune
		expected int
	}{
		{DecimaMarked, 'a', 0},
		{DecimaMarked, 'A', 0},
		{DecimaMarked, 'c', 5},
		{DecimaMarked, 'D', 7},
		{Decima, 'A', None},
		{"AbBAbCCDDC", 'b', 1},
		{DecimaMarked, 'z', None},
	}
	for _, tc := range testCases {
		if got := tc.scheme.ReferenceIndex(tc.letter); got != tc.expected {
			t.Errorf("%s.ReferenceIndex(%q): expected %d, got %d", tc.scheme, tc.letter, tc.expected, got)
		}
	}
}

func TestReferenceAndDependent(t *testing.T) {
	s := DecimaMarked
	if !s.IsReference(0) || s.IsDependent(0) {
		t.Error("slot 0 should be a reference")
	}
	if s.IsReference(2) || !s.IsDependent(2) {
		t.Error("slot 2 should be a dependent")
	}
	if s.IsReference(42) || s.IsDependent(42) {
		t.Error("out of range slot is neither")
	}
}

func TestLinks(t *testing.T) {
	verses := make([]string, Slots)
	verses[1] = "la luna"

	links := Decima.Links(verses)
	// A: 3 pairs, B: 1, C: 3, D: 1
	if len(links) != 8 {
		t.Fatalf("expected 8 links, got %d", len(links))
	}
	if links[0] != (Link{Group: 'A', From: 0, To: 3}) {
		t.Errorf("unexpected first link %+v", links[0])
	}
	for _, l := range links {
		if l.Group == 'B' && !l.Active {
			t.Error("B link should be active")
		}
		if l.Group != 'B' && l.Active {
			t.Errorf("link %+v should be inactive", l)
		}
	}
}
