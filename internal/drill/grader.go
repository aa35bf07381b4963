package drill

import (
	"context"

	"github.com/kotoba-app/kotoba/internal/kana"
	"github.com/kotoba-app/kotoba/internal/vocab"
	"github.com/kotoba-app/kotoba/internal/weights"
)

// Mode is the kind of test being drilled.
type Mode string

const (
	// ModeReading is typed-reading recall: the learner types the reading.
	ModeReading Mode = "reading"
	// ModeSpeech is pronunciation: the learner says the word aloud.
	ModeSpeech Mode = "speech"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeReading || m == ModeSpeech
}

// AnswerKind is how an answer was given.
type AnswerKind int

const (
	// Typed answers come from the keyboard and may be romaji.
	Typed AnswerKind = iota
	// Spoken answers come from speech recognition and may be kanji.
	Spoken
)

// ReadingAnalyzer derives a kana reading for recognized text.
type ReadingAnalyzer interface {
	Reading(text string) (string, bool)
}

// Outcome is the result of grading one round.
type Outcome struct {
	Correct      bool
	GaveUp       bool
	Input        string
	Normalized   string
	Expected     string
	WeightBefore float64
	WeightAfter  float64
	Mastery      weights.MasteryCount
	Mastered     bool
	JustMastered bool
}

// Grader checks answers and persists the resulting weight changes.
type Grader struct {
	store    weights.Store
	cfg      Config
	analyzer ReadingAnalyzer
}

// NewGrader returns a Grader. analyzer may be nil; it is only used to
// accept spoken answers whose recognized kanji differ from the deck's.
func NewGrader(store weights.Store, cfg Config, analyzer ReadingAnalyzer) *Grader {
	return &Grader{store: store, cfg: cfg, analyzer: analyzer}
}

// Check reports whether input answers w, along with the normalized input.
// Typed input is transliterated from romaji whatever the drill mode. Empty
// input is never correct.
func (g *Grader) Check(kind AnswerKind, w vocab.Word, input string) (normalized string, correct bool) {
	expected := kana.Normalize(w.Reading)

	if kind == Typed {
		normalized = kana.NormalizeTyped(input)
		return normalized, normalized != "" && normalized == expected
	}

	normalized = kana.Normalize(input)
	if normalized == "" {
		return normalized, false
	}
	if normalized == expected || normalized == kana.Normalize(w.Text) {
		return normalized, true
	}
	if g.analyzer != nil {
		if r, ok := g.analyzer.Reading(input); ok && kana.Normalize(r) == expected {
			return normalized, true
		}
	}
	return normalized, false
}

// Grade checks input against ww, updates ww.Weight and persists the new
// weight and the word's mastery count for userID. It never fails.
func (g *Grader) Grade(ctx context.Context, userID string, ww *WeightedWord, input string, kind AnswerKind) Outcome {
	normalized, correct := g.Check(kind, ww.Word, input)
	out := g.apply(ctx, userID, ww, correct)
	out.Input = input
	out.Normalized = normalized
	return out
}

// GiveUp grades ww as incorrect without an answer.
func (g *Grader) GiveUp(ctx context.Context, userID string, ww *WeightedWord) Outcome {
	out := g.apply(ctx, userID, ww, false)
	out.GaveUp = true
	return out
}

func (g *Grader) apply(ctx context.Context, userID string, ww *WeightedWord, correct bool) Outcome {
	before := ww.Weight
	after := g.cfg.NextWeight(before, correct)
	ww.Weight = after

	stored := g.store.Load(ctx, userID)
	stored[ww.Word.ID] = after
	g.store.Save(ctx, userID, stored)

	mastery := g.store.LoadMastery(ctx, userID)
	count := mastery[ww.Word.ID]
	wasMastered := count.Correct >= g.cfg.MasteryThreshold
	if correct {
		count.Correct++
	} else {
		count.Incorrect++
	}
	mastery[ww.Word.ID] = count
	g.store.SaveMastery(ctx, userID, mastery)

	mastered := count.Correct >= g.cfg.MasteryThreshold
	return Outcome{
		Correct:      correct,
		Expected:     ww.Word.Reading,
		WeightBefore: before,
		WeightAfter:  after,
		Mastery:      count,
		Mastered:     mastered,
		JustMastered: mastered && !wasMastered,
	}
}
