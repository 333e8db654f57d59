// Package wordlist loads the seed corpus of words and hints, either from a
// configured JSON file or from the copy embedded in the binary.
package wordlist

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/wfunc/hangman-game/internal/models"
)

//go:embed seed.json
var embeddedSeed []byte

type entry struct {
	Word  string `json:"word"`
	Hint1 string `json:"hint1"`
	Hint2 string `json:"hint2"`
}

// Default returns the embedded seed list.
func Default() ([]*models.Word, error) {
	return Parse(embeddedSeed)
}

// Load reads the list from path, or the embedded list when path is empty.
func Load(path string) ([]*models.Word, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a JSON array of {word, hint1, hint2}. Entries must be 3-20
// letters A-Z with both hints present; duplicates are dropped.
func Parse(raw []byte) ([]*models.Word, error) {
	var entries []entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode word list: %w", err)
	}

	seen := make(map[string]struct{}, len(entries))
	words := make([]*models.Word, 0, len(entries))
	for i, e := range entries {
		w := strings.ToUpper(strings.TrimSpace(e.Word))
		if !valid(w) {
			return nil, fmt.Errorf("word list entry %d: %q is not 3-20 letters", i, e.Word)
		}
		if strings.TrimSpace(e.Hint1) == "" || strings.TrimSpace(e.Hint2) == "" {
			return nil, fmt.Errorf("word list entry %d: %s needs two hints", i, w)
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, &models.Word{Word: w, Hint1: e.Hint1, Hint2: e.Hint2})
	}
	return words, nil
}

func valid(w string) bool {
	if len(w) < models.MinWordLength || len(w) > models.MaxWordLength {
		return false
	}
	for i := 0; i < len(w); i++ {
		if w[i] < 'A' || w[i] > 'Z' {
			return false
		}
	}
	return true
}
