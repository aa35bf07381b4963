package speech

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kotoba-app/kotoba/internal/store"
)

// LoggingTranscriber is a decorator that records every transcription
// request as an event.
type LoggingTranscriber struct {
	inner    Transcriber
	provider string
	repo     store.EventRepo
	logger   *zap.Logger
}

// WithLogging wraps a Transcriber with event logging.
func WithLogging(t Transcriber, provider string, repo store.EventRepo, logger *zap.Logger) Transcriber {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingTranscriber{inner: t, provider: provider, repo: repo, logger: logger}
}

func (l *LoggingTranscriber) Transcribe(ctx context.Context, audio Audio) (*Transcript, error) {
	start := time.Now()
	tr, err := l.inner.Transcribe(ctx, audio)

	data := store.SpeechRequestEventData{
		Provider:   l.provider,
		Model:      l.inner.ModelID(),
		Purpose:    PurposeFrom(ctx),
		AudioBytes: len(audio.Data),
		LatencyMs:  time.Since(start).Milliseconds(),
		Success:    err == nil,
	}
	if tr != nil {
		data.Model = tr.Model
		data.Transcript = tr.Text
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}
	l.append(ctx, data)

	return tr, err
}

func (l *LoggingTranscriber) ModelID() string {
	return l.inner.ModelID()
}

func (l *LoggingTranscriber) append(ctx context.Context, data store.SpeechRequestEventData) {
	if l.repo == nil {
		return
	}
	// Recorded even when the caller has gone away.
	if err := l.repo.AppendSpeechRequest(context.WithoutCancel(ctx), data); err != nil {
		l.logger.Warn("failed to log speech request event",
			zap.String("provider", data.Provider),
			zap.String("purpose", data.Purpose),
			zap.Error(err))
	}
}

// LoggingSpeaker records every synthesis request as an event.
type LoggingSpeaker struct {
	inner  Speaker
	model  string
	repo   store.EventRepo
	logger *zap.Logger
}

// WithSpeakerLogging wraps a Speaker with event logging.
func WithSpeakerLogging(s Speaker, model string, repo store.EventRepo, logger *zap.Logger) Speaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingSpeaker{inner: s, model: model, repo: repo, logger: logger}
}

func (l *LoggingSpeaker) Speak(ctx context.Context, text string) error {
	start := time.Now()
	err := l.inner.Speak(ctx, text)

	if l.repo == nil {
		return err
	}
	data := store.SpeechRequestEventData{
		Provider:   ProviderOpenAI,
		Model:      l.model,
		Purpose:    PurposeTTS,
		LatencyMs:  time.Since(start).Milliseconds(),
		Success:    err == nil,
		Transcript: text,
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}
	if logErr := l.repo.AppendSpeechRequest(context.WithoutCancel(ctx), data); logErr != nil {
		l.logger.Warn("failed to log speech synthesis event", zap.Error(logErr))
	}
	return err
}
