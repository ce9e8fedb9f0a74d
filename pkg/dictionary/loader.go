/*
Package dictionary loads plain text word lists into a lexicon.Trie, so any
word ending can be looked up, not just the keys of the ending table.

A word list has one entry per line, optionally followed by a frequency:

	# comment
	canción 120
	corazón 300
	amanecer

Blank lines and lines starting with '#' are skipped. Entries that are not
words (numbers, symbols, repeated letters) are dropped. More frequent words
are inserted first; entries without a frequency keep their file order after
the ranked ones.
*/
package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/bastiangx/decimaserve/internal/utils"
	"github.com/bastiangx/decimaserve/pkg/lexicon"
	"github.com/charmbracelet/log"
)

// LoaderStats provides statistics about one load
type LoaderStats struct {
	Lines      int
	Loaded     int
	Skipped    int
	Duplicates int
}

type entry struct {
	word string
	freq int
}

// Loader reads word lists, keeping at most maxWords entries (0 for all).
type Loader struct {
	maxWords int
	stats    LoaderStats
}

// NewLoader creates a word list loader.
func NewLoader(maxWords int) *Loader {
	if maxWords < 0 {
		maxWords = 0
	}
	return &Loader{maxWords: maxWords}
}

// Load parses r and returns a trie holding its words.
func (l *Loader) Load(r io.Reader) (*lexicon.Trie, error) {
	l.stats = LoaderStats{}

	var entries []entry
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		l.stats.Lines++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		e, ok := parseLine(line)
		if !ok {
			l.stats.Skipped++
			log.Debugf("Skipping word list line %d: %q", l.stats.Lines, line)
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].freq > entries[j].freq
	})

	trie := lexicon.NewTrie()
	for _, e := range entries {
		if l.maxWords > 0 && trie.Len() >= l.maxWords {
			break
		}
		if trie.Add(e.word) {
			l.stats.Loaded++
		} else {
			l.stats.Duplicates++
		}
	}
	log.Debugf("Word list loaded: %d words, %d skipped, %d duplicates",
		l.stats.Loaded, l.stats.Skipped, l.stats.Duplicates)
	return trie, nil
}

// LoadFile opens path and loads it.
func (l *Loader) LoadFile(path string) (*lexicon.Trie, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word list %s: %w", path, err)
	}
	defer file.Close()

	trie, err := l.Load(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return trie, nil
}

// Stats returns the statistics of the last load.
func (l *Loader) Stats() LoaderStats {
	return l.stats
}

// LoadWordList loads every word of the list at path.
func LoadWordList(path string) (*lexicon.Trie, error) {
	return NewLoader(0).LoadFile(path)
}

func parseLine(line string) (entry, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 || len(fields) > 2 {
		return entry{}, false
	}
	word := lexicon.NormalizeWord(fields[0])
	if !utils.IsValidWord(word) {
		return entry{}, false
	}
	e := entry{word: word}
	if len(fields) == 2 {
		freq, err := strconv.Atoi(fields[1])
		if err != nil || freq < 0 {
			return entry{}, false
		}
		e.freq = freq
	}
	return e, true
}
