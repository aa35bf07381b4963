package vocab

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalyzer map[string]string

func (f fakeAnalyzer) Reading(text string) (string, bool) {
	r, ok := f[text]
	return r, ok
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDir_BuiltinOnly(t *testing.T) {
	src, err := LoadDir("")
	require.NoError(t, err)

	decks, err := src.ListDecks(context.Background())
	require.NoError(t, err)
	require.Len(t, decks, 1)
	assert.Equal(t, "starter", decks[0].ID)
	assert.Equal(t, "builtin", decks[0].Origin)
	assert.Equal(t, 30, decks[0].WordCount)

	words, err := src.ListWords(context.Background(), "starter")
	require.NoError(t, err)
	assert.Equal(t, "neko", words[0].ID)
	assert.Equal(t, "ねこ", words[0].Reading)
	assert.Equal(t, "starter", words[0].DeckID)
}

func TestLoadDir_MissingDirectory(t *testing.T) {
	src, err := LoadDir(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)

	decks, err := src.ListDecks(context.Background())
	require.NoError(t, err)
	assert.Len(t, decks, 1)
}

func TestLoadDir_YAMLAndCSV(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "animals.yaml", `
name: Animals
words:
  - text: 鳥
    reading: とり
    meaning: bird
  - text: 魚
    meaning: fish
  - text: うさぎ
    meaning: rabbit
  - text: 象
    meaning: elephant
`)
	writeFile(t, dir, "food.csv", "text,reading,meaning,id\n寿司,すし,sushi,sushi\nパン,,bread,pan\n,,,\n")
	writeFile(t, dir, "notes.txt", "ignored")

	src, err := LoadDir(dir, WithAnalyzer(fakeAnalyzer{"魚": "さかな"}))
	require.NoError(t, err)

	decks, err := src.ListDecks(context.Background())
	require.NoError(t, err)
	ids := make([]string, len(decks))
	for i, d := range decks {
		ids[i] = d.ID
	}
	assert.Equal(t, []string{"animals", "food", "starter"}, ids)

	animals, err := src.ListWords(context.Background(), "animals")
	require.NoError(t, err)
	// 象 has no reading and the analyzer does not know it.
	require.Len(t, animals, 3)
	assert.Equal(t, "鳥", animals[0].ID)
	assert.Equal(t, "さかな", animals[1].Reading)
	assert.Equal(t, "うさぎ", animals[2].Reading)

	food, err := src.ListWords(context.Background(), "food")
	require.NoError(t, err)
	require.Len(t, food, 2)
	assert.Equal(t, "sushi", food[0].ID)
	assert.Equal(t, "すし", food[0].Reading)
	assert.Equal(t, "パン", food[1].Reading)
}

func TestLoadDir_UserDeckReplacesBuiltin(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mine.yml", "id: starter\nname: Mine\nwords:\n  - {text: 猫, reading: ねこ}\n")

	src, err := LoadDir(dir)
	require.NoError(t, err)

	words, err := src.ListWords(context.Background(), "starter")
	require.NoError(t, err)
	assert.Len(t, words, 1)
}

func TestLoadDir_DuplicateWordIDs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "dup.yaml", "words:\n  - {id: a, text: 猫, reading: ねこ}\n  - {id: a, text: 犬, reading: いぬ}\n")

	src, err := LoadDir(dir)
	require.NoError(t, err)

	words, err := src.ListWords(context.Background(), "dup")
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, "猫", words[0].Text)
}

func TestLoadDir_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.yaml", "words: [\n")

	_, err := LoadDir(dir)
	assert.Error(t, err)
}

func TestLoadDir_DeckIDWithColon(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.yaml", "id: jlpt:n5\nwords: []\n")

	_, err := LoadDir(dir)
	assert.Error(t, err)
	assert.Equal(t, "jlpt-n5", deckIDFromName("jlpt:n5.csv"))
}

func TestListWords_UnknownDeck(t *testing.T) {
	src, err := LoadDir("")
	require.NoError(t, err)

	_, err = src.ListWords(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrDeckNotFound))
}

func TestListWords_ReturnsCopy(t *testing.T) {
	src, err := LoadDir("")
	require.NoError(t, err)

	words, err := src.ListWords(context.Background(), "starter")
	require.NoError(t, err)
	words[0].Reading = "changed"

	again, err := src.ListWords(context.Background(), "starter")
	require.NoError(t, err)
	assert.Equal(t, "ねこ", again[0].Reading)
}
