package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kotoba-app/kotoba/internal/config"
	"github.com/kotoba-app/kotoba/internal/kana"
	"github.com/kotoba-app/kotoba/internal/logger"
	"github.com/kotoba-app/kotoba/internal/store"
	"github.com/kotoba-app/kotoba/internal/vocab"
)

// rt is the state shared by every command once setup has run.
var rt struct {
	cfg    *config.Config
	logger *zap.Logger
}

// setup loads configuration, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.Options{ConfigFile: configFile})
	if err != nil {
		return err
	}

	if v, _ := cmd.Flags().GetString("user"); v != "" {
		cfg.User = v
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DB = v
	}
	if v, _ := cmd.Flags().GetString("decks"); v != "" {
		cfg.DecksDir = v
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	rt.cfg = cfg
	rt.logger = log
	return nil
}

func teardown(*cobra.Command, []string) {
	if rt.logger != nil {
		_ = rt.logger.Sync()
	}
}

// resolveDBPath returns the configured database (--db flag, then
// KOTOBA_DB, then config) or the default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

func openStore() (*store.Store, error) {
	dbPath, err := resolveDBPath(rt.cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// lockPath is the file guarding against two processes writing progress
// at once.
func lockPath() string {
	return filepath.Join(config.StateDir(), "kotoba.lock")
}

func acquireLock() (*store.ProcessLock, error) {
	lock, err := store.AcquireLock(lockPath())
	if errors.Is(err, store.ErrLocked) {
		return nil, fmt.Errorf("%w (lock file %s)", err, lockPath())
	}
	return lock, err
}

// loadAnalyzer returns the morphological analyzer, or nil with a warning
// when the dictionary cannot be loaded.
func loadAnalyzer() *kana.Analyzer {
	a, err := kana.NewAnalyzer()
	if err != nil {
		rt.logger.Warn("reading analyzer unavailable", zap.Error(err))
		return nil
	}
	return a
}

// loadDecks loads the built-in and user decks. a fills in readings for
// words that omit them and may be nil.
func loadDecks(a *kana.Analyzer) (*vocab.DirSource, error) {
	opts := []vocab.Option{vocab.WithLogger(rt.logger)}
	if a != nil {
		opts = append(opts, vocab.WithAnalyzer(a))
	}
	src, err := vocab.LoadDir(rt.cfg.DecksDir, opts...)
	if err != nil {
		return nil, fmt.Errorf("load decks: %w", err)
	}
	return src, nil
}
