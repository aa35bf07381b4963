package drill

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kotoba-app/kotoba/internal/store"
	"github.com/kotoba-app/kotoba/internal/vocab"
	"github.com/kotoba-app/kotoba/internal/weights"
)

type captureRecorder struct {
	mu       sync.Mutex
	grades   []store.GradeEventData
	sessions []store.SessionEventData
}

func (c *captureRecorder) RecordGrade(_ context.Context, d store.GradeEventData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.grades = append(c.grades, d)
}

func (c *captureRecorder) RecordSession(_ context.Context, d store.SessionEventData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions = append(c.sessions, d)
}

func newTestMachine(t *testing.T, mode Mode, words []vocab.Word) (*Machine, weights.Store, *captureRecorder) {
	t.Helper()
	st := weights.NewMemoryStore(weights.Scope{DeckID: "n5", TestKind: string(mode)})
	rec := &captureRecorder{}
	clock := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	m := NewMachine(Options{
		UserID:    "alice",
		DeckID:    "n5",
		Mode:      mode,
		Store:     st,
		Recorder:  rec,
		Rand:      seeded(),
		SessionID: "session-1",
		Now: func() time.Time {
			clock = clock.Add(30 * time.Second)
			return clock
		},
	})
	require.NoError(t, m.Load(context.Background(), words))
	return m, st, rec
}

func TestMachineWrongThenRight(t *testing.T) {
	ctx := context.Background()
	m, st, rec := newTestMachine(t, ModeReading, testWords()[:1])
	require.Equal(t, StateIdle, m.State())

	cur, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, "neko", cur.Word.ID)
	assert.Equal(t, 1.0, cur.Weight)

	out, err := m.Submit(ctx, "inu")
	require.NoError(t, err)
	assert.False(t, out.Correct)
	assert.Equal(t, StateIncorrect, m.State())
	assert.Equal(t, 10.0, out.WeightAfter)

	require.NoError(t, m.Advance())
	require.Equal(t, StateIdle, m.State())

	out, err = m.Submit(ctx, "neko")
	require.NoError(t, err)
	assert.True(t, out.Correct)
	assert.Equal(t, StateCorrect, m.State())
	assert.Equal(t, 1.25, out.WeightAfter)
	assert.Equal(t, weights.Weights{"neko": 1.25}, st.Load(ctx, "alice"))

	assert.Equal(t, weights.Counters{Correct: 1, Total: 2}, m.Session())
	assert.Equal(t, weights.Counters{}, st.LoadCumulative(ctx, "alice"), "nothing flushed before End")

	sum := m.End(ctx)
	assert.Equal(t, 2, sum.Rounds)
	assert.Equal(t, 1, sum.Correct)
	assert.Equal(t, 0.5, sum.Accuracy())
	assert.Equal(t, StateEnded, m.State())
	assert.Equal(t, weights.Counters{Correct: 1, Total: 2}, st.LoadCumulative(ctx, "alice"))

	// A second End is a no-op.
	again := m.End(ctx)
	assert.Equal(t, sum, again)
	assert.Equal(t, weights.Counters{Correct: 1, Total: 2}, st.LoadCumulative(ctx, "alice"))

	require.Len(t, rec.grades, 2)
	assert.Equal(t, "inu", rec.grades[0].Response)
	assert.Equal(t, "session-1", rec.grades[1].SessionID)
	require.Len(t, rec.sessions, 2)
	assert.Equal(t, "start", rec.sessions[0].Action)
	assert.Equal(t, "end", rec.sessions[1].Action)
	assert.Equal(t, 2, rec.sessions[1].Rounds)
	assert.Equal(t, 30, rec.sessions[1].DurationSecs)
}

func TestMachineLoadsStoredWeights(t *testing.T) {
	ctx := context.Background()
	st := weights.NewMemoryStore(weights.Scope{DeckID: "n5", TestKind: "reading"})
	st.Save(ctx, "alice", weights.Weights{"neko": 10})

	m := NewMachine(Options{UserID: "alice", DeckID: "n5", Store: st, Rand: seeded()})
	require.NoError(t, m.Load(ctx, testWords()))

	ws := m.Words()
	require.Len(t, ws, 3)
	assert.Equal(t, 10.0, ws[0].Weight)
	assert.Equal(t, 1.0, ws[1].Weight)
}

func TestMachineEmptyDeck(t *testing.T) {
	ctx := context.Background()
	m, st, rec := newTestMachine(t, ModeReading, nil)

	assert.Equal(t, StateEmpty, m.State())
	_, ok := m.Current()
	assert.False(t, ok)

	_, err := m.Submit(ctx, "neko")
	var te *TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, StateEmpty, te.From)

	_, err = m.GiveUp(ctx)
	assert.Error(t, err)

	sum := m.End(ctx)
	assert.Zero(t, sum.Rounds)
	assert.Empty(t, rec.sessions)
	assert.Equal(t, weights.Counters{}, st.LoadCumulative(ctx, "alice"))
}

func TestMachineGiveUp(t *testing.T) {
	ctx := context.Background()
	m, _, rec := newTestMachine(t, ModeReading, testWords()[:1])

	out, err := m.GiveUp(ctx)
	require.NoError(t, err)
	assert.False(t, out.Correct)
	assert.True(t, out.GaveUp)
	assert.Equal(t, StateIncorrect, m.State())
	require.Len(t, rec.grades, 1)
	assert.True(t, rec.grades[0].GaveUp)

	// Only one grade per round.
	_, err = m.GiveUp(ctx)
	assert.Error(t, err)
	_, err = m.Submit(ctx, "neko")
	assert.Error(t, err)
}

func TestMachineAdvanceRequiresGrade(t *testing.T) {
	m, _, _ := newTestMachine(t, ModeReading, testWords())
	assert.Error(t, m.Advance())
}

func TestMachineLoadTwice(t *testing.T) {
	m, _, _ := newTestMachine(t, ModeReading, testWords())
	assert.Error(t, m.Load(context.Background(), testWords()))
}

func TestMachineSpeechFlow(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestMachine(t, ModeSpeech, testWords()[:1])

	require.True(t, m.StartListening())
	assert.Equal(t, StateListening, m.State())
	assert.False(t, m.StartListening(), "starting while listening is rejected")
	assert.Equal(t, StateListening, m.State())

	require.NoError(t, m.StopListening())
	assert.Equal(t, StateProcessing, m.State())
	assert.False(t, m.StartListening(), "starting while processing is rejected")

	out, err := m.Recognized(ctx, "猫")
	require.NoError(t, err)
	assert.True(t, out.Correct)
	assert.Equal(t, StateCorrect, m.State())
}

func TestMachineSpeechRecognitionError(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestMachine(t, ModeSpeech, testWords()[:1])

	require.True(t, m.StartListening())
	boom := errors.New("no microphone")
	require.NoError(t, m.RecognitionFailed(boom))
	assert.Equal(t, StateError, m.State())
	assert.Equal(t, boom, m.LastError())
	assert.Equal(t, weights.Counters{}, m.Session(), "errors are not graded")

	// Recoverable: listen again.
	require.True(t, m.StartListening())
	assert.NoError(t, m.LastError())
	require.NoError(t, m.RecognitionFailed(boom))

	// Or give up from the error state.
	out, err := m.GiveUp(ctx)
	require.NoError(t, err)
	assert.False(t, out.Correct)
	assert.Equal(t, StateIncorrect, m.State())
}

func TestMachineCancelListening(t *testing.T) {
	m, _, _ := newTestMachine(t, ModeSpeech, testWords()[:1])

	assert.Error(t, m.CancelListening())
	require.True(t, m.StartListening())
	require.NoError(t, m.CancelListening())
	assert.Equal(t, StateIdle, m.State())
}

func TestMachineReadingModeDoesNotListen(t *testing.T) {
	m, _, _ := newTestMachine(t, ModeReading, testWords())
	assert.False(t, m.StartListening())
	assert.Equal(t, StateIdle, m.State())

	_, err := m.Recognized(context.Background(), "ねこ")
	assert.Error(t, err)
}

func TestMachineSpeechAcceptsTypedAnswer(t *testing.T) {
	for _, input := range []string{"ねこ", "neko", "NEKO"} {
		m, _, _ := newTestMachine(t, ModeSpeech, testWords()[:1])
		out, err := m.Submit(context.Background(), input)
		require.NoError(t, err)
		assert.True(t, out.Correct, "typed %q in a speech drill", input)
	}
}

func TestMachineSpokenRomajiNotTransliterated(t *testing.T) {
	m, _, _ := newTestMachine(t, ModeSpeech, testWords()[:1])
	require.True(t, m.StartListening())
	out, err := m.Recognized(context.Background(), "neko")
	require.NoError(t, err)
	assert.False(t, out.Correct)
}

func TestMachineTracksMastery(t *testing.T) {
	ctx := context.Background()
	st := weights.NewMemoryStore(weights.Scope{DeckID: "n5", TestKind: "reading"})
	cfg := DefaultConfig()
	cfg.MasteryThreshold = 2
	m := NewMachine(Options{UserID: "alice", DeckID: "n5", Config: cfg, Store: st, Rand: seeded()})
	require.NoError(t, m.Load(ctx, testWords()[:1]))

	for range 3 {
		_, err := m.Submit(ctx, "neko")
		require.NoError(t, err)
		require.NoError(t, m.Advance())
	}

	sum := m.End(ctx)
	assert.Equal(t, []string{"neko"}, sum.Mastered)
}

func TestMachineRoundsAreSequential(t *testing.T) {
	ctx := context.Background()
	m, _, rec := newTestMachine(t, ModeReading, testWords())

	for range 20 {
		cur, ok := m.Current()
		require.True(t, ok)
		_, err := m.Submit(ctx, cur.Word.Reading)
		require.NoError(t, err)
		require.NoError(t, m.Advance())
	}
	assert.Len(t, rec.grades, 20)
	assert.Equal(t, weights.Counters{Correct: 20, Total: 20}, m.Session())
}

func TestMachineResetSession(t *testing.T) {
	ctx := context.Background()
	m, st, rec := newTestMachine(t, ModeReading, testWords()[:1])

	_, err := m.Submit(ctx, "inu")
	require.NoError(t, err)

	prev, err := m.ResetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "session-1", prev.SessionID)
	assert.Equal(t, 1, prev.Rounds)
	assert.Equal(t, 0, prev.Correct)
	assert.Equal(t, 30*time.Second, prev.Duration)
	assert.NotEqual(t, "session-1", m.SessionID())
	assert.Equal(t, weights.Counters{}, m.Session())
	assert.Equal(t, weights.Counters{Total: 1}, st.LoadCumulative(ctx, "alice"))
	assert.Equal(t, StateIncorrect, m.State(), "the shown result stays on screen")

	require.NoError(t, m.Advance())
	_, err = m.Submit(ctx, "neko")
	require.NoError(t, err)

	sum := m.End(ctx)
	assert.Equal(t, 1, sum.Rounds)
	assert.Equal(t, 1, sum.Correct)
	assert.Equal(t, weights.Counters{Correct: 1, Total: 2}, st.LoadCumulative(ctx, "alice"))

	require.Len(t, rec.sessions, 4)
	assert.Equal(t, []string{"start", "end", "start", "end"}, []string{
		rec.sessions[0].Action, rec.sessions[1].Action, rec.sessions[2].Action, rec.sessions[3].Action,
	})
	assert.Equal(t, "session-1", rec.sessions[1].SessionID)
	assert.Equal(t, m.SessionID(), rec.sessions[3].SessionID)
}

func TestMachineResetSessionWhileListening(t *testing.T) {
	m, _, _ := newTestMachine(t, ModeSpeech, testWords()[:1])
	require.True(t, m.StartListening())

	_, err := m.ResetSession(context.Background())
	var te *TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, StateListening, te.From)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "state(99)", State(99).String())
}
