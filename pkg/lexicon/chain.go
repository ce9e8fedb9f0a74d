package lexicon

import "github.com/bastiangx/decimaserve/internal/utils"

// Chain asks each source in order and joins their answers, keeping the first
// occurrence of every word.
type Chain []Source

// WordsForEnding implements Source.
func (c Chain) WordsForEnding(key string) []string {
	filter := utils.NewSuggestionFilter()
	words := []string{}
	for _, src := range c {
		if src == nil {
			continue
		}
		for _, w := range src.WordsForEnding(key) {
			if filter.ShouldInclude(w) {
				words = append(words, w)
			}
		}
	}
	return words
}
