// Package config loads kotoba's settings from defaults, an optional
// config.yaml, a .env file and KOTOBA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kotoba-app/kotoba/internal/drill"
	"github.com/kotoba-app/kotoba/internal/speech"
)

// EnvPrefix is the prefix of every environment variable kotoba reads.
const EnvPrefix = "KOTOBA"

// Config holds application configuration.
type Config struct {
	Env      string        `mapstructure:"env"`       // "development" or "production"
	User     string        `mapstructure:"user"`      // learner whose progress is stored
	DB       string        `mapstructure:"db"`        // SQLite path or postgres:// DSN
	DecksDir string        `mapstructure:"decks_dir"` // directory of user deck files
	Log      Log           `mapstructure:"log"`
	Drill    drill.Config  `mapstructure:"drill"`
	Speech   speech.Config `mapstructure:"speech"`
}

// Log configures the zap logger.
type Log struct {
	Level string `mapstructure:"level"`
	// File receives log output; the terminal UI owns stdout.
	File string `mapstructure:"file"`
}

// Options control where Load looks for configuration.
type Options struct {
	// ConfigFile is an explicit config path; when empty the standard
	// locations are searched.
	ConfigFile string
	// EnvFile is the dotenv file to load; missing files are ignored.
	EnvFile string
}

// Load reads configuration. Values resolve in order: defaults,
// config file, environment.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	_ = godotenv.Load(envFile)

	v := viper.New()
	setDefaults(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	cfg.Speech.Discover()

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := drill.DefaultConfig()
	s := speech.DefaultConfig()

	v.SetDefault("env", "development")
	v.SetDefault("user", defaultUser())
	v.SetDefault("db", "")
	v.SetDefault("decks_dir", filepath.Join(ConfigDir(), "decks"))

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(StateDir(), "kotoba.log"))

	v.SetDefault("drill.baseline", d.Baseline)
	v.SetDefault("drill.shrink", d.Shrink)
	v.SetDefault("drill.growth", d.Growth)
	v.SetDefault("drill.floor", d.Floor)
	v.SetDefault("drill.mastery_threshold", d.MasteryThreshold)

	v.SetDefault("speech.provider", s.Provider)
	v.SetDefault("speech.language", s.Language)
	v.SetDefault("speech.openai.api_key", "")
	v.SetDefault("speech.openai.model", s.OpenAI.Model)
	v.SetDefault("speech.openai.base_url", "")
	v.SetDefault("speech.gemini.api_key", "")
	v.SetDefault("speech.gemini.model", s.Gemini.Model)
	v.SetDefault("speech.retry.max_attempts", s.Retry.MaxAttempts)
	v.SetDefault("speech.retry.initial_wait", s.Retry.InitialWait)
	v.SetDefault("speech.retry.max_wait", s.Retry.MaxWait)
	v.SetDefault("speech.retry.multiplier", s.Retry.Multiplier)
	v.SetDefault("speech.timeout", s.Timeout)
	v.SetDefault("speech.recorder.command", s.Recorder.Command)
	v.SetDefault("speech.tts.enabled", s.TTS.Enabled)
	v.SetDefault("speech.tts.model", s.TTS.Model)
	v.SetDefault("speech.tts.voice", s.TTS.Voice)
	v.SetDefault("speech.tts.player", s.TTS.Player)
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.User) == "" {
		return errors.New("user must not be empty")
	}
	if strings.ContainsRune(c.User, ':') {
		return fmt.Errorf("user %q must not contain ':'", c.User)
	}
	if err := c.Drill.Validate(); err != nil {
		return err
	}
	if err := c.Speech.Validate(); err != nil {
		return err
	}
	return nil
}

// ConfigDir returns $XDG_CONFIG_HOME/kotoba, or ~/.config/kotoba.
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// StateDir returns $XDG_STATE_HOME/kotoba, or ~/.local/state/kotoba.
func StateDir() string {
	return xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func xdgDir(env, fallback string) string {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		base = filepath.Join(home, fallback)
	}
	return filepath.Join(base, "kotoba")
}

func defaultUser() string {
	for _, k := range []string{"USER", "USERNAME"} {
		if u := os.Getenv(k); u != "" {
			return u
		}
	}
	return "default"
}
