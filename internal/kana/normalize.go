// Package kana normalizes Japanese answers for comparison: Unicode
// folding, romaji transliteration and reading extraction.
package kana

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	katakanaFirst = 'ァ' // U+30A1
	katakanaLast  = 'ヶ' // U+30F6
	kanaOffset    = 'ァ' - 'ぁ'
)

// Normalize folds s into the canonical comparison form: NFKC, no
// whitespace or punctuation, lower-case Latin and katakana mapped to
// hiragana. Removing a separator can leave a combining mark next to its
// base, so the result is composed again. Normalize(Normalize(s)) ==
// Normalize(s).
func Normalize(s string) string {
	s = norm.NFKC.String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsSpace(r), unicode.IsPunct(r):
			continue
		case r >= katakanaFirst && r <= katakanaLast:
			b.WriteRune(r - kanaOffset)
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return norm.NFKC.String(b.String())
}

// ToHiragana maps katakana runes to hiragana and leaves everything else.
func ToHiragana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= katakanaFirst && r <= katakanaLast {
			return r - kanaOffset
		}
		return r
	}, s)
}

// IsKana reports whether s is non-empty and consists only of hiragana,
// katakana and the prolonged sound mark.
func IsKana(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.In(r, unicode.Hiragana, unicode.Katakana) && r != 'ー' {
			return false
		}
	}
	return true
}

// NormalizeTyped prepares keyboard input for comparison with a reading.
// Latin letters are transliterated to hiragana first, so "nihongo",
// "にほんご" and "ニホンゴ" all normalize to the same string.
func NormalizeTyped(input string) string {
	folded := strings.ToLower(norm.NFKC.String(input))
	if hasLatin(folded) {
		folded, _ = RomajiToHiragana(folded)
	}
	return Normalize(folded)
}

func hasLatin(s string) bool {
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			return true
		}
	}
	return false
}
