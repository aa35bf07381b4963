package drill

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kotoba-app/kotoba/internal/store"
	"github.com/kotoba-app/kotoba/internal/vocab"
	"github.com/kotoba-app/kotoba/internal/weights"
)

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func testWords() []vocab.Word {
	return []vocab.Word{
		{ID: "neko", Text: "猫", Reading: "ねこ", Meaning: "cat", DeckID: "n5"},
		{ID: "inu", Text: "犬", Reading: "いぬ", Meaning: "dog", DeckID: "n5"},
		{ID: "koohii", Text: "コーヒー", Reading: "コーヒー", Meaning: "coffee", DeckID: "n5"},
	}
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero floor", func(c *Config) { c.Floor = 0 }},
		{"baseline below floor", func(c *Config) { c.Baseline = 0.5 }},
		{"shrink not above one", func(c *Config) { c.Shrink = 1 }},
		{"growth not above one", func(c *Config) { c.Growth = 0.5 }},
		{"zero mastery threshold", func(c *Config) { c.MasteryThreshold = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNextWeight(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 10.0, cfg.NextWeight(1, false))
	assert.Equal(t, 1.25, cfg.NextWeight(10, true))
	assert.Equal(t, 1.0, cfg.NextWeight(1, true), "correct answers never go below the floor")
	assert.Equal(t, 1.0, cfg.NextWeight(4, true))
}

func TestNextWeightPositiveAndMonotonic(t *testing.T) {
	cfg := DefaultConfig()
	for _, w := range []float64{1, 1.5, 8, 10, 1e6, 1e300} {
		up := cfg.NextWeight(w, false)
		down := cfg.NextWeight(w, true)
		assert.Greater(t, up, 0.0)
		assert.Greater(t, down, 0.0)
		assert.GreaterOrEqual(t, up, w, "incorrect must not lower weight %v", w)
		assert.LessOrEqual(t, down, w, "correct must not raise weight %v", w)
		assert.GreaterOrEqual(t, down, cfg.Floor)
	}
}

func TestJoin(t *testing.T) {
	cfg := DefaultConfig()
	stored := weights.Weights{"neko": 10, "inu": 0.5}

	got := Join(testWords(), stored, cfg)
	require.Len(t, got, 3)
	assert.Equal(t, "neko", got[0].Word.ID)
	assert.Equal(t, 10.0, got[0].Weight)
	assert.Equal(t, 1.0, got[1].Weight, "below-floor weights are raised to the floor")
	assert.Equal(t, 1.0, got[2].Weight, "absent words get the baseline")

	assert.Empty(t, Join(nil, stored, cfg))
}

func TestNextWeightSaturates(t *testing.T) {
	cfg := DefaultConfig()

	w := cfg.Baseline
	for range 400 {
		w = cfg.NextWeight(w, false)
	}
	assert.False(t, math.IsInf(w, 0))
	assert.Equal(t, math.MaxFloat64, w)

	recovered := cfg.NextWeight(w, true)
	assert.Less(t, recovered, w, "a correct answer lowers a saturated weight")
	assert.Equal(t, math.MaxFloat64/8, cfg.NextWeight(math.Inf(1), true))
}

func TestSelectorEmpty(t *testing.T) {
	i, ok := NewSelector(seeded()).Pick(nil)
	assert.False(t, ok)
	assert.Equal(t, -1, i)
}

func TestSelectorSingleWord(t *testing.T) {
	s := NewSelector(seeded())
	words := []WeightedWord{{Word: vocab.Word{ID: "a"}, Weight: 3}}
	for range 100 {
		i, ok := s.Pick(words)
		require.True(t, ok)
		require.Equal(t, 0, i)
	}
}

func TestSelectorBias(t *testing.T) {
	s := NewSelector(seeded())
	words := []WeightedWord{
		{Word: vocab.Word{ID: "heavy"}, Weight: 10},
		{Word: vocab.Word{ID: "light"}, Weight: 1},
	}

	counts := make([]int, 2)
	const draws = 110000
	for range draws {
		i, ok := s.Pick(words)
		require.True(t, ok)
		counts[i]++
	}

	ratio := float64(counts[0]) / float64(counts[1])
	assert.InDelta(t, 10.0, ratio, 1.0, "heavy/light ratio = %v", ratio)
}

func TestSelectorExtremeWeights(t *testing.T) {
	s := NewSelector(seeded())

	tests := [][]WeightedWord{
		{{Weight: 1e300}, {Weight: 1e300}},
		{{Weight: math.MaxFloat64}, {Weight: math.MaxFloat64}, {Weight: 1}},
		{{Weight: 1e-300}, {Weight: 1e-300}},
		{{Weight: math.Inf(1)}, {Weight: 1}},
	}
	for _, words := range tests {
		for range 50 {
			i, ok := s.Pick(words)
			require.True(t, ok)
			require.GreaterOrEqual(t, i, 0)
			require.Less(t, i, len(words))
		}
	}
}

func TestSelectorInfiniteWeightKeepsBias(t *testing.T) {
	s := NewSelector(seeded())
	words := []WeightedWord{{Weight: math.Inf(1)}, {Weight: 1}}

	var counts [2]int
	for range 10000 {
		i, ok := s.Pick(words)
		require.True(t, ok)
		counts[i]++
	}
	assert.Greater(t, counts[0], 9900, "picks = %v", counts)
}

func TestSelectorOverflowKeepsBias(t *testing.T) {
	s := NewSelector(seeded())
	words := []WeightedWord{{Weight: math.MaxFloat64}, {Weight: math.MaxFloat64}, {Weight: 1}}

	hits := 0
	for range 1000 {
		i, _ := s.Pick(words)
		if i == 2 {
			hits++
		}
	}
	assert.Zero(t, hits)
}

type fakeAnalyzer map[string]string

func (f fakeAnalyzer) Reading(text string) (string, bool) {
	r, ok := f[text]
	return r, ok
}

func TestGraderCheckTyped(t *testing.T) {
	g := NewGrader(weights.NewMemoryStore(weights.Scope{}), DefaultConfig(), nil)
	neko := testWords()[0]
	coffee := testWords()[2]

	tests := []struct {
		word  vocab.Word
		input string
		want  bool
	}{
		{neko, "ねこ", true},
		{neko, "neko", true},
		{neko, "NEKO", true},
		{neko, " ネコ ", true},
		{neko, "ねこ。", true},
		{neko, "いぬ", false},
		{neko, "", false},
		{neko, "   ", false},
		{neko, "猫", false},
		{coffee, "ko-hi-", true},
		{coffee, "コーヒー", true},
		{coffee, "こーひー", true},
	}
	for _, tt := range tests {
		_, got := g.Check(Typed, tt.word, tt.input)
		assert.Equal(t, tt.want, got, "Check(%q, %q)", tt.word.Reading, tt.input)
	}
}

func TestGraderCheckSpoken(t *testing.T) {
	g := NewGrader(weights.NewMemoryStore(weights.Scope{}), DefaultConfig(), fakeAnalyzer{"ネコ科": "ねこか", "根子": "ねこ"})
	neko := testWords()[0]

	tests := []struct {
		input string
		want  bool
	}{
		{"猫", true},
		{"猫。", true},
		{"ねこ", true},
		{"ネコ", true},
		{"根子", true},
		{"ネコ科", false},
		{"neko", false},
		{"", false},
	}
	for _, tt := range tests {
		_, got := g.Check(Spoken, neko, tt.input)
		assert.Equal(t, tt.want, got, "speech Check(%q)", tt.input)
	}
}

func TestGradePersistsWeight(t *testing.T) {
	st := weights.NewMemoryStore(weights.Scope{DeckID: "n5", TestKind: "reading"})
	g := NewGrader(st, DefaultConfig(), nil)
	ctx := context.Background()

	ww := &WeightedWord{Word: testWords()[0], Weight: 1}

	out := g.Grade(ctx, "alice", ww, "inu", Typed)
	assert.False(t, out.Correct)
	assert.Equal(t, 1.0, out.WeightBefore)
	assert.Equal(t, 10.0, out.WeightAfter)
	assert.Equal(t, 10.0, ww.Weight)
	assert.Equal(t, weights.Weights{"neko": 10}, st.Load(ctx, "alice"))

	out = g.Grade(ctx, "alice", ww, "neko", Typed)
	assert.True(t, out.Correct)
	assert.Equal(t, "ねこ", out.Normalized)
	assert.Equal(t, 1.25, out.WeightAfter)
	assert.Equal(t, weights.Weights{"neko": 1.25}, st.Load(ctx, "alice"))

	// Session counters are not touched by grading.
	assert.Equal(t, weights.Counters{}, st.LoadCumulative(ctx, "alice"))
}

func TestGradeKeepsOtherWords(t *testing.T) {
	st := weights.NewMemoryStore(weights.Scope{DeckID: "n5", TestKind: "reading"})
	ctx := context.Background()
	st.Save(ctx, "alice", weights.Weights{"inu": 100})

	g := NewGrader(st, DefaultConfig(), nil)
	g.Grade(ctx, "alice", &WeightedWord{Word: testWords()[0], Weight: 1}, "", Typed)

	assert.Equal(t, weights.Weights{"inu": 100, "neko": 10}, st.Load(ctx, "alice"))
}

func TestGradeMastery(t *testing.T) {
	st := weights.NewMemoryStore(weights.Scope{DeckID: "n5", TestKind: "reading"})
	cfg := DefaultConfig()
	cfg.MasteryThreshold = 3
	g := NewGrader(st, cfg, nil)
	ctx := context.Background()
	ww := &WeightedWord{Word: testWords()[0], Weight: 1}

	g.GiveUp(ctx, "alice", ww)
	var outs []Outcome
	for range 4 {
		outs = append(outs, g.Grade(ctx, "alice", ww, "ねこ", Typed))
	}

	assert.False(t, outs[1].Mastered)
	assert.True(t, outs[2].Mastered)
	assert.True(t, outs[2].JustMastered)
	assert.True(t, outs[3].Mastered)
	assert.False(t, outs[3].JustMastered)
	assert.Equal(t, weights.MasteryCount{Correct: 4, Incorrect: 1}, st.LoadMastery(ctx, "alice")["neko"])
}

func TestGiveUpIsIncorrect(t *testing.T) {
	g := NewGrader(weights.NewMemoryStore(weights.Scope{}), DefaultConfig(), nil)
	out := g.GiveUp(context.Background(), "alice", &WeightedWord{Word: testWords()[0], Weight: 2})
	assert.False(t, out.Correct)
	assert.True(t, out.GaveUp)
	assert.Equal(t, 20.0, out.WeightAfter)
	assert.Equal(t, "ねこ", out.Expected)
}

func TestSessionLogFlushOnce(t *testing.T) {
	st := weights.NewMemoryStore(weights.Scope{TestKind: "reading"})
	ctx := context.Background()
	st.SaveCumulative(ctx, "alice", weights.Counters{Correct: 5, Total: 10})

	var log SessionLog
	log.Record(true)
	log.Record(false)
	log.Record(true)
	assert.Equal(t, weights.Counters{Correct: 2, Total: 3}, log.Counters())

	assert.True(t, log.Flush(ctx, st, "alice"))
	assert.False(t, log.Flush(ctx, st, "alice"))
	assert.Equal(t, weights.Counters{Correct: 7, Total: 13}, st.LoadCumulative(ctx, "alice"))
}

func TestSessionLogReset(t *testing.T) {
	st := weights.NewMemoryStore(weights.Scope{TestKind: "reading"})
	ctx := context.Background()

	var log SessionLog
	log.Record(true)
	log.Reset(ctx, st, "alice")
	assert.Equal(t, weights.Counters{}, log.Counters())
	assert.Equal(t, weights.Counters{Correct: 1, Total: 1}, st.LoadCumulative(ctx, "alice"))

	log.Record(false)
	assert.True(t, log.Flush(ctx, st, "alice"))
	assert.Equal(t, weights.Counters{Correct: 1, Total: 2}, st.LoadCumulative(ctx, "alice"))
}

func TestSessionLogEmptyFlushWritesNothing(t *testing.T) {
	repo := store.NewMemoryKVRepo()
	st := weights.NewKVStore(repo, weights.Scope{TestKind: "reading"}, nil)

	var log SessionLog
	assert.True(t, log.Flush(context.Background(), st, "alice"))

	keys, err := repo.Keys(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestTransitionErrorMessage(t *testing.T) {
	err := error(&TransitionError{Action: "submit", From: StateListening})
	assert.Equal(t, "cannot submit while listening", err.Error())

	var te *TransitionError
	assert.True(t, errors.As(err, &te))
}
