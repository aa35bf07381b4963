package speech

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event is the outcome of one recognition: recognized text or an error.
type Event struct {
	Text string
	Err  error
}

// Recognizer runs one capture at a time. Start is non-blocking; after
// Stop, the transcription runs in the background and its result arrives
// on Events. Cancel discards the capture and any pending result.
type Recognizer struct {
	source      AudioSource
	transcriber Transcriber
	timeout     time.Duration
	logger      *zap.Logger
	events      chan Event

	mu      sync.Mutex
	busy    bool
	capture Capture
	cancel  context.CancelFunc
	gen     uint64
}

// RecognizerOption configures a Recognizer.
type RecognizerOption func(*Recognizer)

// WithTimeout bounds each transcription. Listening is never timed out.
func WithTimeout(d time.Duration) RecognizerOption {
	return func(r *Recognizer) { r.timeout = d }
}

// WithLogger sets the logger for recognition failures.
func WithLogger(l *zap.Logger) RecognizerOption {
	return func(r *Recognizer) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRecognizer creates a Recognizer capturing from source.
func NewRecognizer(source AudioSource, transcriber Transcriber, opts ...RecognizerOption) *Recognizer {
	r := &Recognizer{
		source:      source,
		transcriber: transcriber,
		logger:      zap.NewNop(),
		events:      make(chan Event, 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Events delivers one Event per stopped capture.
func (r *Recognizer) Events() <-chan Event {
	return r.events
}

// Listening reports whether a capture or its transcription is in flight.
func (r *Recognizer) Listening() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.busy
}

// Start begins a capture. It returns ErrAlreadyListening, and changes
// nothing, while a previous capture is still listening or processing.
func (r *Recognizer) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.busy {
		return ErrAlreadyListening
	}
	c, err := r.source.Open(ctx)
	if err != nil {
		return err
	}
	r.busy = true
	r.capture = c
	return nil
}

// Stop ends the capture and transcribes it in the background. It is a
// no-op when nothing is being captured.
func (r *Recognizer) Stop(ctx context.Context) {
	r.mu.Lock()
	c := r.capture
	if c == nil {
		r.mu.Unlock()
		return
	}
	r.capture = nil
	gen := r.gen

	var (
		tctx   context.Context
		cancel context.CancelFunc
	)
	base := WithPurpose(ctx, PurposePronunciation)
	if r.timeout > 0 {
		tctx, cancel = context.WithTimeout(base, r.timeout)
	} else {
		tctx, cancel = context.WithCancel(base)
	}
	r.cancel = cancel
	r.mu.Unlock()

	go func() {
		defer cancel()
		r.emit(gen, r.recognize(tctx, c))
	}()
}

// Cancel discards the current capture or pending transcription and
// returns the recognizer to rest. No Event is delivered for it.
func (r *Recognizer) Cancel() {
	r.mu.Lock()
	c := r.capture
	cancel := r.cancel
	r.capture = nil
	r.cancel = nil
	r.busy = false
	r.gen++
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if c != nil {
		c.Abort()
	}
}

func (r *Recognizer) recognize(ctx context.Context, c Capture) Event {
	audio, err := c.Finish()
	if err != nil {
		return Event{Err: err}
	}
	if len(audio.Data) == 0 {
		return Event{Err: ErrNoSpeech}
	}

	tr, err := r.transcriber.Transcribe(ctx, audio)
	if err != nil {
		return Event{Err: err}
	}
	text := strings.TrimSpace(tr.Text)
	if text == "" {
		return Event{Err: ErrNoSpeech}
	}
	return Event{Text: text}
}

func (r *Recognizer) emit(gen uint64, ev Event) {
	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		return
	}
	r.busy = false
	r.cancel = nil
	r.mu.Unlock()

	if ev.Err != nil && !errors.Is(ev.Err, ErrNoSpeech) {
		r.logger.Warn("speech recognition failed", zap.Error(ev.Err))
	}

	select {
	case r.events <- ev:
	default:
		r.logger.Warn("dropping speech event; previous one was never read")
	}
}
