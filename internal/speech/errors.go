package speech

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrAlreadyListening is returned by Recognizer.Start while a capture
	// or its transcription is still in flight.
	ErrAlreadyListening = errors.New("speech: already listening")

	// ErrNoSpeech means the capture produced no recognizable speech.
	ErrNoSpeech = errors.New("speech: no speech detected")

	// ErrDisabled is returned by the constructors when the feature is
	// switched off in configuration.
	ErrDisabled = errors.New("speech: disabled")
)

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the provider returned a transcript that
// could not be parsed.
type ErrInvalidResponse struct {
	Content []byte
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid transcription response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("speech provider unavailable: %v", e.Err)
	}
	return "speech provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }
