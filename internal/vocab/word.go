// Package vocab loads the read-only vocabulary decks that drills draw
// words from.
package vocab

import (
	"context"
	"errors"
)

// ErrDeckNotFound is returned when a deck ID is unknown.
var ErrDeckNotFound = errors.New("deck not found")

// Word is a single vocabulary entry. Words are immutable once loaded.
type Word struct {
	ID      string
	Text    string // written form, usually kanji
	Reading string // expected kana reading
	Meaning string
	DeckID  string
}

// DeckInfo describes a deck without its words.
type DeckInfo struct {
	ID          string
	Name        string
	Description string
	Origin      string // "builtin" or the file path
	WordCount   int
}

// Source provides decks and their words.
type Source interface {
	// ListDecks returns every known deck ordered by ID.
	ListDecks(ctx context.Context) ([]DeckInfo, error)

	// ListWords returns the words of deckID in file order, or
	// ErrDeckNotFound.
	ListWords(ctx context.Context, deckID string) ([]Word, error)
}

// ReadingAnalyzer derives a kana reading for written text.
type ReadingAnalyzer interface {
	Reading(text string) (string, bool)
}
