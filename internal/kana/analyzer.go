package kana

import (
	"fmt"
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Analyzer derives hiragana readings for Japanese text using kagome's
// IPA dictionary.
type Analyzer struct {
	t *tokenizer.Tokenizer
}

// NewAnalyzer loads the dictionary and builds a tokenizer. Loading takes
// a noticeable moment, so callers should share one Analyzer.
func NewAnalyzer() (*Analyzer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("create tokenizer: %w", err)
	}
	return &Analyzer{t: t}, nil
}

// Reading returns the hiragana reading of text. ok is false when any
// token has no known reading and is not itself kana.
func (a *Analyzer) Reading(text string) (reading string, ok bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}

	var b strings.Builder
	for _, token := range a.t.Tokenize(text) {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		if strings.TrimSpace(token.Surface) == "" {
			continue
		}

		// IPA features: 7 is the reading in katakana, "*" when unknown.
		features := token.Features()
		switch {
		case len(features) > 7 && features[7] != "*":
			b.WriteString(features[7])
		case IsKana(token.Surface):
			b.WriteString(token.Surface)
		default:
			return "", false
		}
	}

	if b.Len() == 0 {
		return "", false
	}
	return ToHiragana(b.String()), true
}
