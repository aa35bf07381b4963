package speech

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kotoba-app/kotoba/internal/store"
)

// NewTranscriber creates a Transcriber from configuration, wrapped with
// retry and logging middleware. It returns ErrDisabled when no provider
// is configured.
func NewTranscriber(ctx context.Context, cfg Config, repo store.EventRepo, logger *zap.Logger) (Transcriber, error) {
	var base Transcriber
	var err error

	switch cfg.Provider {
	case "", ProviderNone:
		return nil, ErrDisabled
	case ProviderOpenAI:
		base, err = NewOpenAITranscriber(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiTranscriber(ctx, cfg.Gemini)
	case ProviderMock:
		return NewMockTranscriber(), nil
	default:
		return nil, fmt.Errorf("unknown speech provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s transcriber: %w", cfg.Provider, err)
	}

	// caller → retry → logging → base
	logged := WithLogging(base, cfg.Provider, repo, logger)
	return WithRetry(logged, cfg.Retry), nil
}

// NewRecognizerFromConfig wires the configured recorder and transcriber
// into a Recognizer.
func NewRecognizerFromConfig(ctx context.Context, cfg Config, repo store.EventRepo, logger *zap.Logger) (*Recognizer, error) {
	tr, err := NewTranscriber(ctx, cfg, repo, logger)
	if err != nil {
		return nil, err
	}
	src, err := NewExecSource(cfg.Recorder.Command, cfg.Language, logger)
	if err != nil {
		return nil, err
	}
	return NewRecognizer(src, tr, WithTimeout(cfg.Timeout), WithLogger(logger)), nil
}

// NewSpeaker creates the pronunciation Speaker, or ErrDisabled when
// playback is switched off.
func NewSpeaker(cfg Config, repo store.EventRepo, logger *zap.Logger) (Speaker, error) {
	if !cfg.TTS.Enabled {
		return nil, ErrDisabled
	}
	player, err := NewExecPlayer(cfg.TTS.Player)
	if err != nil {
		return nil, err
	}
	s, err := NewOpenAISpeaker(cfg.OpenAI, cfg.TTS, player)
	if err != nil {
		return nil, fmt.Errorf("initializing speaker: %w", err)
	}
	return WithSpeakerLogging(s, cfg.TTS.Model, repo, logger), nil
}
