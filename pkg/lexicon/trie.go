package lexicon

import (
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Trie indexes a word list by reversed spelling, so every word ending in a key
// lives in the subtree rooted at that key reversed. Words come back in the
// order they were added.
type Trie struct {
	trie  *patricia.Trie
	count int
	mu    sync.RWMutex
}

type trieItem struct {
	word string
	seq  int
}

// NewTrie returns an empty dictionary-backed source.
func NewTrie() *Trie {
	return &Trie{trie: patricia.NewTrie()}
}

// Add inserts word and reports whether it was new.
func (t *Trie) Add(word string) bool {
	word = NormalizeWord(word)
	if word == "" {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.trie.Insert(reversed(word), trieItem{word: word, seq: t.count}) {
		return false
	}
	t.count++
	return true
}

// WordsForEnding returns every word that ends in key, in insertion order.
func (t *Trie) WordsForEnding(key string) []string {
	key = NormalizeWord(key)
	if key == "" {
		return []string{}
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	var items []trieItem
	err := t.trie.VisitSubtree(reversed(key), func(_ patricia.Prefix, item patricia.Item) error {
		if it, ok := item.(trieItem); ok {
			items = append(items, it)
		}
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting ending subtree for %q: %v", key, err)
		return []string{}
	}

	sort.Slice(items, func(i, j int) bool { return items[i].seq < items[j].seq })

	words := make([]string, len(items))
	for i, it := range items {
		words[i] = it.word
	}
	return words
}

// Len returns the number of distinct words.
func (t *Trie) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.count
}

func reversed(word string) patricia.Prefix {
	runes := []rune(word)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return patricia.Prefix(string(runes))
}
