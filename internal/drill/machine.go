package drill

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/kotoba-app/kotoba/internal/store"
	"github.com/kotoba-app/kotoba/internal/vocab"
	"github.com/kotoba-app/kotoba/internal/weights"
)

// State is the phase of the current drill round.
type State int

const (
	// StateEmpty means the deck has no words; nothing can be drilled.
	StateEmpty State = iota
	// StateIdle shows the current word and waits for an answer.
	StateIdle
	// StateListening is capturing a spoken answer.
	StateListening
	// StateProcessing is waiting for the spoken answer to be recognized.
	StateProcessing
	// StateCorrect shows a correct result.
	StateCorrect
	// StateIncorrect shows an incorrect result with the expected answer.
	StateIncorrect
	// StateError shows a recognition failure; the learner may retry.
	StateError
	// StateEnded is terminal: the session has been flushed.
	StateEnded
)

var stateNames = map[State]string{
	StateEmpty:      "empty",
	StateIdle:       "idle",
	StateListening:  "listening",
	StateProcessing: "processing",
	StateCorrect:    "correct",
	StateIncorrect:  "incorrect",
	StateError:      "error",
	StateEnded:      "ended",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// TransitionError reports an action that is not allowed in the current state.
type TransitionError struct {
	Action string
	From   State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s while %s", e.Action, e.From)
}

// Options configures a Machine.
type Options struct {
	UserID   string
	DeckID   string
	Mode     Mode
	Config   Config
	Store    weights.Store
	Analyzer ReadingAnalyzer
	Recorder Recorder
	Rand     *rand.Rand

	// SessionID defaults to a random UUID.
	SessionID string
	// Now defaults to time.Now.
	Now func() time.Time
}

// Summary describes a finished session.
type Summary struct {
	SessionID string
	DeckID    string
	Mode      Mode
	Rounds    int
	Correct   int
	Mastered  []string // words that crossed the mastery threshold
	Duration  time.Duration
}

// Accuracy returns the fraction of correct rounds, or 0 without rounds.
func (s Summary) Accuracy() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Rounds)
}

// Machine runs one drill session: it draws a word, accepts exactly one
// graded answer for it, and draws again on Advance. Rounds are strictly
// sequential.
type Machine struct {
	opts     Options
	grader   *Grader
	selector *Selector
	log      SessionLog
	recorder Recorder

	started  time.Time
	words    []WeightedWord
	current  int
	state    State
	last     Outcome
	lastErr  error
	mastered []string
	summary  *Summary
}

// NewMachine returns a Machine in StateEmpty. Call Load to start.
func NewMachine(opts Options) *Machine {
	if opts.Mode == "" {
		opts.Mode = ModeReading
	}
	if opts.Config == (Config{}) {
		opts.Config = DefaultConfig()
	}
	if opts.Store == nil {
		opts.Store = weights.NewMemoryStore(weights.Scope{DeckID: opts.DeckID, TestKind: string(opts.Mode)})
	}
	if opts.SessionID == "" {
		opts.SessionID = uuid.NewString()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	rec := opts.Recorder
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Machine{
		opts:     opts,
		grader:   NewGrader(opts.Store, opts.Config, opts.Analyzer),
		selector: NewSelector(opts.Rand),
		recorder: rec,
		current:  -1,
		state:    StateEmpty,
	}
}

// Load joins words with the learner's stored weights and draws the first
// word. An empty word list leaves the machine in StateEmpty.
func (m *Machine) Load(ctx context.Context, words []vocab.Word) error {
	if m.state != StateEmpty {
		return &TransitionError{Action: "load", From: m.state}
	}
	m.words = Join(words, m.opts.Store.Load(ctx, m.opts.UserID), m.opts.Config)
	m.started = m.opts.Now()
	if len(m.words) == 0 {
		return nil
	}
	m.recorder.RecordSession(ctx, m.sessionEvent("start"))
	m.draw()
	return nil
}

func (m *Machine) draw() {
	i, ok := m.selector.Pick(m.words)
	if !ok {
		m.current = -1
		m.state = StateEmpty
		return
	}
	m.current = i
	m.state = StateIdle
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Mode returns the test kind being drilled.
func (m *Machine) Mode() Mode { return m.opts.Mode }

// SessionID returns the session identifier.
func (m *Machine) SessionID() string { return m.opts.SessionID }

// Current returns the word being drilled. ok is false when no word is
// drawn.
func (m *Machine) Current() (WeightedWord, bool) {
	if m.current < 0 || m.current >= len(m.words) {
		return WeightedWord{}, false
	}
	return m.words[m.current], true
}

// Words returns a copy of the session's weighted words.
func (m *Machine) Words() []WeightedWord {
	out := make([]WeightedWord, len(m.words))
	copy(out, m.words)
	return out
}

// LastOutcome returns the most recent grade.
func (m *Machine) LastOutcome() Outcome { return m.last }

// LastError returns the most recent recognition error.
func (m *Machine) LastError() error { return m.lastErr }

// Session returns the session's counts so far.
func (m *Machine) Session() weights.Counters { return m.log.Counters() }

// Submit grades a typed answer for the current word.
func (m *Machine) Submit(ctx context.Context, input string) (Outcome, error) {
	if m.state != StateIdle {
		return Outcome{}, &TransitionError{Action: "submit", From: m.state}
	}
	m.state = StateProcessing
	return m.grade(ctx, input, Typed), nil
}

// GiveUp grades the current word as incorrect. It is allowed while idle,
// listening (the capture is abandoned) or after a recognition error.
func (m *Machine) GiveUp(ctx context.Context) (Outcome, error) {
	switch m.state {
	case StateIdle, StateListening, StateError:
	default:
		return Outcome{}, &TransitionError{Action: "give up", From: m.state}
	}
	ww := &m.words[m.current]
	out := m.grader.GiveUp(ctx, m.opts.UserID, ww)
	m.finish(ctx, out)
	return out, nil
}

// StartListening begins capturing a spoken answer. It returns false, and
// changes nothing, unless the machine is idle or showing an error.
func (m *Machine) StartListening() bool {
	if m.opts.Mode != ModeSpeech {
		return false
	}
	switch m.state {
	case StateIdle, StateError:
		m.state = StateListening
		m.lastErr = nil
		return true
	}
	return false
}

// StopListening marks the capture finished; the machine waits in
// StateProcessing for Recognized or RecognitionFailed.
func (m *Machine) StopListening() error {
	if m.state != StateListening {
		return &TransitionError{Action: "stop listening", From: m.state}
	}
	m.state = StateProcessing
	return nil
}

// CancelListening abandons the capture and returns to idle.
func (m *Machine) CancelListening() error {
	switch m.state {
	case StateListening, StateProcessing:
		m.state = StateIdle
		return nil
	}
	return &TransitionError{Action: "cancel listening", From: m.state}
}

// Recognized grades recognized speech for the current word.
func (m *Machine) Recognized(ctx context.Context, text string) (Outcome, error) {
	switch m.state {
	case StateListening, StateProcessing:
	default:
		return Outcome{}, &TransitionError{Action: "accept speech", From: m.state}
	}
	m.state = StateProcessing
	return m.grade(ctx, text, Spoken), nil
}

// RecognitionFailed records a recognition error. The round stays open:
// the learner can listen again or give up.
func (m *Machine) RecognitionFailed(err error) error {
	switch m.state {
	case StateListening, StateProcessing:
	default:
		return &TransitionError{Action: "report recognition failure", From: m.state}
	}
	m.state = StateError
	m.lastErr = err
	return nil
}

// Advance draws the next word after a graded round.
func (m *Machine) Advance() error {
	switch m.state {
	case StateCorrect, StateIncorrect:
	default:
		return &TransitionError{Action: "advance", From: m.state}
	}
	m.draw()
	return nil
}

// End flushes the session counters and closes the session. Only the
// first call has any effect; it always returns the same summary.
func (m *Machine) End(ctx context.Context) Summary {
	if m.summary != nil {
		return *m.summary
	}

	m.log.Flush(ctx, m.opts.Store, m.opts.UserID)
	counters := m.log.Counters()
	s := Summary{
		SessionID: m.opts.SessionID,
		DeckID:    m.opts.DeckID,
		Mode:      m.opts.Mode,
		Rounds:    counters.Total,
		Correct:   counters.Correct,
		Mastered:  append([]string(nil), m.mastered...),
	}
	if !m.started.IsZero() {
		s.Duration = m.opts.Now().Sub(m.started)
	}
	if len(m.words) > 0 {
		ev := m.sessionEvent("end")
		ev.Rounds = s.Rounds
		ev.Correct = s.Correct
		ev.DurationSecs = int(s.Duration.Seconds())
		m.recorder.RecordSession(ctx, ev)
	}

	m.summary = &s
	m.state = StateEnded
	m.current = -1
	return s
}

// ResetSession flushes the running session's counters and starts a new
// session on the same words. It is allowed between answers only.
func (m *Machine) ResetSession(ctx context.Context) (Summary, error) {
	switch m.state {
	case StateIdle, StateCorrect, StateIncorrect:
	default:
		return Summary{}, &TransitionError{Action: "reset session", From: m.state}
	}

	counters := m.log.Counters()
	s := Summary{
		SessionID: m.opts.SessionID,
		DeckID:    m.opts.DeckID,
		Mode:      m.opts.Mode,
		Rounds:    counters.Total,
		Correct:   counters.Correct,
		Mastered:  append([]string(nil), m.mastered...),
		Duration:  m.opts.Now().Sub(m.started),
	}
	m.log.Reset(ctx, m.opts.Store, m.opts.UserID)

	ev := m.sessionEvent("end")
	ev.Rounds = s.Rounds
	ev.Correct = s.Correct
	ev.DurationSecs = int(s.Duration.Seconds())
	m.recorder.RecordSession(ctx, ev)

	m.opts.SessionID = uuid.NewString()
	m.started = m.opts.Now()
	m.mastered = nil
	m.recorder.RecordSession(ctx, m.sessionEvent("start"))
	return s, nil
}

func (m *Machine) grade(ctx context.Context, input string, kind AnswerKind) Outcome {
	ww := &m.words[m.current]
	out := m.grader.Grade(ctx, m.opts.UserID, ww, input, kind)
	m.finish(ctx, out)
	return out
}

func (m *Machine) finish(ctx context.Context, out Outcome) {
	ww := m.words[m.current]
	m.log.Record(out.Correct)
	m.last = out
	if out.JustMastered {
		m.mastered = append(m.mastered, ww.Word.ID)
	}
	if out.Correct {
		m.state = StateCorrect
	} else {
		m.state = StateIncorrect
	}

	m.recorder.RecordGrade(ctx, store.GradeEventData{
		SessionID:    m.opts.SessionID,
		UserID:       m.opts.UserID,
		DeckID:       m.opts.DeckID,
		Mode:         string(m.opts.Mode),
		WordID:       ww.Word.ID,
		Expected:     ww.Word.Reading,
		Response:     out.Input,
		Correct:      out.Correct,
		GaveUp:       out.GaveUp,
		WeightBefore: out.WeightBefore,
		WeightAfter:  out.WeightAfter,
	})
}

func (m *Machine) sessionEvent(action string) store.SessionEventData {
	return store.SessionEventData{
		SessionID: m.opts.SessionID,
		UserID:    m.opts.UserID,
		DeckID:    m.opts.DeckID,
		Mode:      string(m.opts.Mode),
		Action:    action,
	}
}
