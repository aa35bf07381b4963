package speech

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryTranscriber is a decorator that retries transient errors with
// exponential backoff and jitter.
type RetryTranscriber struct {
	inner  Transcriber
	config RetryConfig
}

// WithRetry wraps a Transcriber with retry logic.
func WithRetry(t Transcriber, cfg RetryConfig) Transcriber {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryTranscriber{inner: t, config: cfg}
}

func (r *RetryTranscriber) Transcribe(ctx context.Context, audio Audio) (*Transcript, error) {
	var lastErr error
	invalidRetried := false

	for attempt := range r.config.MaxAttempts {
		tr, err := r.inner.Transcribe(ctx, audio)
		if err == nil {
			return tr, nil
		}
		lastErr = err

		if !r.shouldRetry(err, &invalidRetried) {
			return nil, err
		}
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.backoff(attempt, err)):
		}
	}

	return nil, lastErr
}

func (r *RetryTranscriber) ModelID() string {
	return r.inner.ModelID()
}

func (r *RetryTranscriber) shouldRetry(err error, invalidRetried *bool) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Silence will not transcribe differently the second time.
	if errors.Is(err, ErrNoSpeech) {
		return false
	}

	var invResp *ErrInvalidResponse
	if errors.As(err, &invResp) {
		if *invalidRetried {
			return false
		}
		*invalidRetried = true
		return true
	}

	var rl *ErrRateLimit
	var unavail *ErrProviderUnavailable
	return errors.As(err, &rl) || errors.As(err, &unavail)
}

func (r *RetryTranscriber) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// ±20% jitter.
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
