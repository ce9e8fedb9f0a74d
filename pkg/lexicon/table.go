package lexicon

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

//go:embed data/default.toml
var defaultTableData string

// Entry is one ending key with its sample words, in table order.
type Entry struct {
	Key   string   `toml:"key"`
	Words []string `toml:"words"`
}

type tableFile struct {
	Endings []Entry `toml:"ending"`
}

// Table is a static, read-only ending table.
type Table struct {
	entries []Entry
	index   map[string]int
}

// NewTable builds a table from entries. Keys and words are normalized;
// repeated keys are merged in order and repeated words within a key dropped.
func NewTable(entries []Entry) (*Table, error) {
	t := &Table{index: make(map[string]int, len(entries))}

	for _, e := range entries {
		key := NormalizeWord(e.Key)
		if key == "" {
			continue
		}
		pos, ok := t.index[key]
		if !ok {
			pos = len(t.entries)
			t.index[key] = pos
			t.entries = append(t.entries, Entry{Key: key})
		}
		for _, w := range e.Words {
			w = NormalizeWord(w)
			if w == "" || containsWord(t.entries[pos].Words, w) {
				continue
			}
			t.entries[pos].Words = append(t.entries[pos].Words, w)
		}
	}

	if len(t.entries) == 0 {
		return nil, ErrEmptyTable
	}
	return t, nil
}

// DecodeTable parses a TOML table made of [[ending]] sections.
func DecodeTable(data string) (*Table, error) {
	var f tableFile
	if _, err := toml.Decode(data, &f); err != nil {
		return nil, fmt.Errorf("decode lexicon table: %w", err)
	}
	return NewTable(f.Endings)
}

// LoadTable reads a TOML table from path.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon table: %w", err)
	}
	t, err := DecodeTable(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debugf("Loaded lexicon table from %s: %d endings", path, t.Len())
	return t, nil
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the built-in table. It is decoded once and shared by every caller.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := DecodeTable(defaultTableData)
		if err != nil {
			// the embedded file is part of the build
			panic(err)
		}
		defaultTable = t
	})
	return defaultTable
}

// WordsForEnding returns a copy of the words listed under key, or an empty slice.
func (t *Table) WordsForEnding(key string) []string {
	pos, ok := t.index[NormalizeWord(key)]
	if !ok {
		return []string{}
	}
	words := t.entries[pos].Words
	out := make([]string, len(words))
	copy(out, words)
	return out
}

// Keys returns the ending keys in table order.
func (t *Table) Keys() []string {
	keys := make([]string, len(t.entries))
	for i, e := range t.entries {
		keys[i] = e.Key
	}
	return keys
}

// Len returns the number of endings.
func (t *Table) Len() int {
	return len(t.entries)
}

func containsWord(words []string, w string) bool {
	for _, existing := range words {
		if existing == w {
			return true
		}
	}
	return false
}
