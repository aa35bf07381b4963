// Package logger builds the application's zap logger.
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/kotoba-app/kotoba/internal/config"
)

// New returns a production (JSON) logger when cfg.Env is "production"
// and a development (console) logger otherwise. Output goes to
// cfg.Log.File when set, so it does not interfere with the terminal UI.
func New(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	if cfg.Env == "production" {
		zcfg = zap.NewProductionConfig()
	}

	if cfg.Log.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Log.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		zcfg.Level = level
	}

	if cfg.Log.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
			return nil, fmt.Errorf("ensure log directory: %w", err)
		}
		zcfg.OutputPaths = []string{cfg.Log.File}
		zcfg.ErrorOutputPaths = []string{cfg.Log.File}
	}

	return zcfg.Build()
}
