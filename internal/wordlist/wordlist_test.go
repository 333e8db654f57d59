package wordlist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	words, err := Default()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(words), 20)
	for _, w := range words {
		assert.NotEmpty(t, w.Hint1, w.Word)
		assert.NotEmpty(t, w.Hint2, w.Word)
	}
}

func TestParse(t *testing.T) {
	words, err := Parse([]byte(`[
		{"word": " cat ", "hint1": "pet", "hint2": "meows"},
		{"word": "CAT", "hint1": "again", "hint2": "dup"}
	]`))
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, "CAT", words[0].Word)
	assert.Equal(t, "pet", words[0].Hint1)

	_, err = Parse([]byte(`[{"word": "ox", "hint1": "a", "hint2": "b"}]`))
	assert.Error(t, err)

	_, err = Parse([]byte(`[{"word": "cat", "hint1": "a", "hint2": " "}]`))
	assert.Error(t, err)

	_, err = Parse([]byte(`{`))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"word": "emu", "hint1": "bird", "hint2": "Australia"}]`), 0o644))

	words, err := Load(path)
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, "EMU", words[0].Word)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
