package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kotoba-app/kotoba/internal/config"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "kotoba.log")
	cfg := &config.Config{Env: "production", Log: config.Log{Level: "info", File: path}}

	log, err := New(cfg)
	require.NoError(t, err)
	log.Info("drill started")
	log.Debug("hidden")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "drill started", entry["msg"])
	assert.Equal(t, "info", entry["level"])
}

func TestNewDevelopmentLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kotoba.log")
	cfg := &config.Config{Env: "development", Log: config.Log{Level: "warn", File: path}}

	log, err := New(cfg)
	require.NoError(t, err)
	log.Info("quiet")
	log.Warn("loud")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "quiet")
	assert.Contains(t, string(data), "loud")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(&config.Config{Log: config.Log{Level: "chatty"}})
	assert.Error(t, err)
}
