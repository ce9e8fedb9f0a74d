package decima

import (
	"fmt"

	"github.com/bastiangx/decimaserve/pkg/scheme"
)

// TargetSyllables is the metre of a décima line.
const TargetSyllables = 8

// Form is a fixed poem shape: how many slots it has, which rhyme scheme ties
// them together and how long every line should be.
type Form struct {
	Scheme          scheme.Scheme
	Slots           int
	TargetSyllables int
}

// DefaultForm returns the classic décima.
func DefaultForm() Form {
	return Form{
		Scheme:          scheme.Decima,
		Slots:           scheme.Slots,
		TargetSyllables: TargetSyllables,
	}
}

// NewForm validates pattern against slots and builds a Form.
func NewForm(pattern string, slots, target int) (Form, error) {
	if target <= 0 {
		return Form{}, fmt.Errorf("target syllables must be positive, got %d", target)
	}
	s, err := scheme.Parse(pattern, slots)
	if err != nil {
		return Form{}, err
	}
	return Form{Scheme: s, Slots: slots, TargetSyllables: target}, nil
}

// Fit returns verses resized to the form's slot count, padding with empty
// verses or dropping the extra ones. The input is not modified.
func (f Form) Fit(verses []string) []string {
	out := make([]string, f.Slots)
	copy(out, verses)
	return out
}
