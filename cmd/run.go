package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kotoba-app/kotoba/internal/app"
	"github.com/kotoba-app/kotoba/internal/drill"
	"github.com/kotoba-app/kotoba/internal/speech"
	"github.com/kotoba-app/kotoba/internal/weights"
)

// runApp takes the process lock, builds dependencies and launches the TUI.
func runApp(cmd *cobra.Command, opts app.Options) error {
	ctx := cmd.Context()
	cfg, log := rt.cfg, rt.logger

	lock, err := acquireLock()
	if err != nil {
		return err
	}
	defer lock.Release()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	analyzer := loadAnalyzer()
	source, err := loadDecks(analyzer)
	if err != nil {
		return err
	}
	if opts.DeckID != "" {
		if _, err := source.ListWords(ctx, opts.DeckID); err != nil {
			return err
		}
	}

	eventRepo := st.EventRepo()
	kv := st.KVRepo()
	deps := app.Deps{
		UserID: cfg.User,
		Config: cfg.Drill,
		Source: source,
		Store: func(scope weights.Scope) weights.Store {
			return weights.NewKVStore(kv, scope, log)
		},
		EventRepo: eventRepo,
		Logger:    log,
	}
	if analyzer != nil {
		deps.Analyzer = analyzer
	}

	rec, err := speech.NewRecognizerFromConfig(ctx, cfg.Speech, eventRepo, log)
	switch {
	case errors.Is(err, speech.ErrDisabled):
	case err != nil:
		fmt.Fprintln(os.Stderr, "Speech recognition unavailable:", err)
		log.Warn("speech recognition unavailable", zap.Error(err))
	default:
		deps.Recognizer = rec
	}
	if opts.Mode == drill.ModeSpeech && deps.Recognizer == nil {
		return errors.New("pronunciation drills need a speech provider: set OPENAI_API_KEY or GEMINI_API_KEY, or speech.provider in the config")
	}

	speaker, err := speech.NewSpeaker(cfg.Speech, eventRepo, log)
	switch {
	case errors.Is(err, speech.ErrDisabled):
	case err != nil:
		log.Warn("speech synthesis unavailable", zap.Error(err))
	default:
		deps.Speaker = speaker
	}

	log.Info("starting",
		zap.String("user", cfg.User),
		zap.String("deck", opts.DeckID),
		zap.Bool("speech", deps.Recognizer != nil),
		zap.Bool("tts", deps.Speaker != nil))

	return app.Run(ctx, deps, opts)
}
