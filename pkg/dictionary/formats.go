package dictionary

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bastiangx/decimaserve/pkg/lexicon"
)

// FileFormat represents the lexicon file formats understood by LoadSource
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatTable              // TOML ending table
	FormatText               // Plain text word list
)

func (f FileFormat) String() string {
	switch f {
	case FormatTable:
		return "ending table"
	case FormatText:
		return "word list"
	default:
		return "unknown"
	}
}

// DetectFileFormat picks a format from the file extension.
func DetectFileFormat(filename string) FileFormat {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		return FormatTable
	case ".txt", ".dic", ".lst":
		return FormatText
	default:
		return FormatUnknown
	}
}

// LoadSource loads path as an ending table or a word list, by extension.
func LoadSource(path string) (lexicon.Source, error) {
	switch DetectFileFormat(path) {
	case FormatTable:
		table, err := lexicon.LoadTable(path)
		if err != nil {
			return nil, err
		}
		return table, nil
	case FormatText:
		trie, err := LoadWordList(path)
		if err != nil {
			return nil, err
		}
		return trie, nil
	default:
		return nil, fmt.Errorf("unable to detect format for file %s", path)
	}
}
