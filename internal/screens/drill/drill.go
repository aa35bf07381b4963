// Package drill is the screen that runs one drill session.
package drill

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	dr "github.com/kotoba-app/kotoba/internal/drill"
	"github.com/kotoba-app/kotoba/internal/router"
	"github.com/kotoba-app/kotoba/internal/screen"
	"github.com/kotoba-app/kotoba/internal/screens/summary"
	"github.com/kotoba-app/kotoba/internal/speech"
	"github.com/kotoba-app/kotoba/internal/ui/components"
	"github.com/kotoba-app/kotoba/internal/ui/layout"
	"github.com/kotoba-app/kotoba/internal/vocab"
	"github.com/kotoba-app/kotoba/internal/weights"
)

const speakTimeout = 30 * time.Second

// Recognizer turns a spoken answer into text. *speech.Recognizer
// implements it.
type Recognizer interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context)
	Cancel()
	Events() <-chan speech.Event
}

// Options configures a drill screen.
type Options struct {
	UserID   string
	DeckID   string
	Mode     dr.Mode
	Config   dr.Config
	Source   vocab.Source
	Store    weights.Store
	Analyzer dr.ReadingAnalyzer
	Recorder dr.Recorder

	// Recognizer is required for speech drills.
	Recognizer Recognizer
	// Speaker is optional; without it the answer is never read aloud.
	Speaker speech.Speaker
	Logger  *zap.Logger
}

// DrillScreen drives a dr.Machine from keyboard and speech events.
type DrillScreen struct {
	opts    Options
	machine *dr.Machine
	input   components.TextInput
	logger  *zap.Logger

	loaded  bool
	waiting bool // a recognizer event is being awaited
	errMsg  string
	notice  string
}

var _ screen.Screen = (*DrillScreen)(nil)
var _ screen.KeyHintProvider = (*DrillScreen)(nil)
var _ screen.BackHandler = (*DrillScreen)(nil)
var _ screen.Closer = (*DrillScreen)(nil)

// New creates a drill screen. Words are loaded when the screen starts.
func New(opts Options) *DrillScreen {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DrillScreen{
		opts: opts,
		machine: dr.NewMachine(dr.Options{
			UserID:   opts.UserID,
			DeckID:   opts.DeckID,
			Mode:     opts.Mode,
			Config:   opts.Config,
			Store:    opts.Store,
			Analyzer: opts.Analyzer,
			Recorder: opts.Recorder,
		}),
		input:  components.NewTextInput("type the reading...", 40),
		logger: logger,
	}
}

func (s *DrillScreen) Init() tea.Cmd {
	return tea.Batch(s.loadWords(), s.input.Init())
}

func (s *DrillScreen) Title() string {
	if s.opts.Mode == dr.ModeSpeech {
		return "Pronunciation · " + s.opts.DeckID
	}
	return "Reading · " + s.opts.DeckID
}

// HandlesBack reports that Esc ends the session here rather than popping.
func (s *DrillScreen) HandlesBack() bool { return true }

// Close ends the session if it is still running.
func (s *DrillScreen) Close() {
	if s.opts.Recognizer != nil {
		s.opts.Recognizer.Cancel()
	}
	if s.loaded {
		s.machine.End(context.Background())
	}
}

// Machine exposes the underlying drill state machine.
func (s *DrillScreen) Machine() *dr.Machine { return s.machine }

func (s *DrillScreen) KeyHints() []layout.KeyHint {
	if !s.loaded || s.errMsg != "" {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	end := layout.KeyHint{Key: "Esc", Description: "End"}
	switch s.machine.State() {
	case dr.StateIdle:
		hints := []layout.KeyHint{{Key: "Enter", Description: "Submit"}}
		if s.canListen() {
			hints = append(hints, layout.KeyHint{Key: "Space", Description: "Speak"})
		}
		return append(hints,
			layout.KeyHint{Key: "Ctrl+D", Description: "Give up"},
			layout.KeyHint{Key: "Ctrl+R", Description: "Reset score"},
			end)
	case dr.StateListening:
		return []layout.KeyHint{
			{Key: "Space", Description: "Done"},
			{Key: "Backspace", Description: "Discard"},
			{Key: "Ctrl+D", Description: "Give up"},
			end,
		}
	case dr.StateProcessing:
		return []layout.KeyHint{end}
	case dr.StateCorrect, dr.StateIncorrect:
		hints := []layout.KeyHint{{Key: "Enter", Description: "Next"}}
		if s.opts.Speaker != nil {
			hints = append(hints, layout.KeyHint{Key: "S", Description: "Hear it"})
		}
		return append(hints, end)
	case dr.StateError:
		return []layout.KeyHint{
			{Key: "Space", Description: "Try again"},
			{Key: "Ctrl+D", Description: "Give up"},
			end,
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (s *DrillScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case wordsLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		}
		return s, nil

	case recognizedMsg:
		return s.handleRecognized(msg)

	case spokenMsg:
		if msg.Err != nil {
			s.notice = "Playback failed: " + msg.Err.Error()
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.loaded && s.machine.State() == dr.StateIdle {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

// loadWords reads the deck and starts the machine.
func (s *DrillScreen) loadWords() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if s.opts.Source == nil {
			return wordsLoadedMsg{Err: errors.New("no deck source configured")}
		}
		words, err := s.opts.Source.ListWords(ctx, s.opts.DeckID)
		if err != nil {
			return wordsLoadedMsg{Err: err}
		}
		return wordsLoadedMsg{Err: s.machine.Load(ctx, words)}
	}
}

func (s *DrillScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, popCmd
	}
	if !s.loaded {
		if key == "esc" {
			return s, popCmd
		}
		return s, nil
	}

	ctx := context.Background()
	state := s.machine.State()

	if key == "esc" {
		if state == dr.StateEmpty {
			return s, popCmd
		}
		return s.end()
	}

	if key == "ctrl+r" {
		return s.resetSession()
	}

	switch state {
	case dr.StateIdle:
		switch key {
		case "enter":
			answer := strings.TrimSpace(s.input.Value())
			if answer == "" {
				return s, nil
			}
			out, err := s.machine.Submit(ctx, answer)
			if err != nil {
				return s, nil
			}
			s.input.Submit(out.Correct)
			return s, nil
		case "ctrl+d":
			return s.giveUp()
		case "space":
			if s.canListen() {
				return s.listen()
			}
			return s, nil
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd

	case dr.StateListening:
		switch key {
		case "space":
			if err := s.machine.StopListening(); err != nil {
				return s, nil
			}
			s.opts.Recognizer.Stop(ctx)
			return s, s.waitForSpeech()
		case "backspace":
			s.opts.Recognizer.Cancel()
			_ = s.machine.CancelListening()
			return s, nil
		case "ctrl+d":
			s.opts.Recognizer.Cancel()
			return s.giveUp()
		}

	case dr.StateCorrect, dr.StateIncorrect:
		switch key {
		case "enter":
			if err := s.machine.Advance(); err != nil {
				return s, nil
			}
			s.input.Reset()
			s.notice = ""
			return s, nil
		case "s":
			return s, s.speak()
		}

	case dr.StateError:
		switch key {
		case "space":
			return s.listen()
		case "ctrl+d":
			return s.giveUp()
		}
	}

	return s, nil
}

// resetSession starts a fresh score without leaving the drill.
func (s *DrillScreen) resetSession() (screen.Screen, tea.Cmd) {
	prev, err := s.machine.ResetSession(context.Background())
	if err != nil {
		return s, nil
	}
	s.notice = fmt.Sprintf("Score reset. Saved %d/%d from the previous session.", prev.Correct, prev.Rounds)
	return s, nil
}

func (s *DrillScreen) canListen() bool {
	return s.opts.Mode == dr.ModeSpeech && s.opts.Recognizer != nil
}

func (s *DrillScreen) listen() (screen.Screen, tea.Cmd) {
	if !s.machine.StartListening() {
		return s, nil
	}
	if err := s.opts.Recognizer.Start(context.Background()); err != nil {
		s.logger.Warn("failed to start listening", zap.Error(err))
		_ = s.machine.RecognitionFailed(err)
	}
	return s, nil
}

func (s *DrillScreen) giveUp() (screen.Screen, tea.Cmd) {
	if _, err := s.machine.GiveUp(context.Background()); err != nil {
		return s, nil
	}
	s.input.Submit(false)
	return s, nil
}

// waitForSpeech waits for the next recognizer event. At most one wait is
// outstanding at a time.
func (s *DrillScreen) waitForSpeech() tea.Cmd {
	if s.waiting {
		return nil
	}
	s.waiting = true
	events := s.opts.Recognizer.Events()
	return func() tea.Msg {
		return recognizedMsg{Event: <-events}
	}
}

func (s *DrillScreen) handleRecognized(msg recognizedMsg) (screen.Screen, tea.Cmd) {
	s.waiting = false
	switch s.machine.State() {
	case dr.StateListening, dr.StateProcessing:
	default:
		return s, nil
	}
	if msg.Event.Err != nil {
		_ = s.machine.RecognitionFailed(msg.Event.Err)
		return s, nil
	}
	out, err := s.machine.Recognized(context.Background(), msg.Event.Text)
	if err != nil {
		return s, nil
	}
	s.input.Model.SetValue(out.Input)
	s.input.Submit(out.Correct)
	return s, nil
}

func (s *DrillScreen) speak() tea.Cmd {
	ww, ok := s.machine.Current()
	if s.opts.Speaker == nil || !ok {
		return nil
	}
	speaker := s.opts.Speaker
	text := ww.Word.Reading
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), speakTimeout)
		defer cancel()
		return spokenMsg{Err: speaker.Speak(ctx, text)}
	}
}

// end flushes the session and replaces this screen with its summary.
func (s *DrillScreen) end() (screen.Screen, tea.Cmd) {
	if s.opts.Recognizer != nil {
		s.opts.Recognizer.Cancel()
	}
	sum := s.machine.End(context.Background())

	var mastered []vocab.Word
	for _, id := range sum.Mastered {
		for _, ww := range s.machine.Words() {
			if ww.Word.ID == id {
				mastered = append(mastered, ww.Word)
				break
			}
		}
	}

	next := summary.New(sum, mastered)
	return s, func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func popCmd() tea.Msg { return router.PopScreenMsg{} }
