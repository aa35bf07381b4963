package speech

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderNone   = "none"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderMock   = "mock"
)

// Config holds speech recognition and synthesis configuration.
type Config struct {
	// Provider selects the transcription backend.
	// Values: "none", "openai", "gemini", "mock". Empty means discover
	// from the standard API key variables.
	Provider string `mapstructure:"provider"`

	// Language is the locale learners answer in. Default: "ja".
	Language string `mapstructure:"language"`

	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Gemini   GeminiConfig   `mapstructure:"gemini"`
	Retry    RetryConfig    `mapstructure:"retry"`
	Recorder RecorderConfig `mapstructure:"recorder"`
	TTS      TTSConfig      `mapstructure:"tts"`

	// Timeout bounds a single transcription (including retries).
	// Listening itself is never timed out. Default: 30s.
	Timeout time.Duration `mapstructure:"timeout"`
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`    // Default: "whisper"
	BaseURL string `mapstructure:"base_url"` // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"` // Default: "gemini-flash"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	InitialWait time.Duration `mapstructure:"initial_wait"`
	MaxWait     time.Duration `mapstructure:"max_wait"`
	Multiplier  float64       `mapstructure:"multiplier"`
}

// RecorderConfig describes the external audio capture command. The
// output file path is appended as the last argument; the command must
// stop cleanly on SIGINT.
type RecorderConfig struct {
	Command string `mapstructure:"command"`
}

// TTSConfig configures pronunciation playback through OpenAI speech.
type TTSConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
	Voice   string `mapstructure:"voice"`
	// Player is the command that plays an mp3 file given as last argument.
	Player string `mapstructure:"player"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Language: "ja",
		OpenAI: OpenAIConfig{
			Model: "whisper",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     5 * time.Second,
			Multiplier:  2.0,
		},
		Recorder: RecorderConfig{
			Command: "arecord -q -f S16_LE -r 16000 -c 1 -t wav",
		},
		TTS: TTSConfig{
			Model:  "tts-1",
			Voice:  "alloy",
			Player: "ffplay -nodisp -autoexit -loglevel quiet",
		},
		Timeout: 30 * time.Second,
	}
}

// Discover fills in a provider from the standard API key variables
// (OPENAI_API_KEY, then GEMINI_API_KEY) when none is configured.
// It reports whether speech is enabled afterwards.
func (c *Config) Discover() bool {
	if c.Provider != "" {
		return c.Enabled()
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		c.Provider = ProviderOpenAI
		if c.OpenAI.APIKey == "" {
			c.OpenAI.APIKey = k
		}
		return true
	}
	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		c.Provider = ProviderGemini
		if c.Gemini.APIKey == "" {
			c.Gemini.APIKey = k
		}
		return true
	}
	return false
}

// Enabled reports whether speech recognition is configured.
func (c Config) Enabled() bool {
	return c.Provider != "" && c.Provider != ProviderNone
}

// Validate checks that the selected provider has what it needs.
func (c Config) Validate() error {
	switch c.Provider {
	case "", ProviderNone, ProviderMock:
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return errors.New("KOTOBA_SPEECH_OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return errors.New("KOTOBA_SPEECH_GEMINI_API_KEY is required for the gemini provider")
		}
	default:
		return fmt.Errorf("unknown speech provider: %q", c.Provider)
	}

	if c.Enabled() && c.Provider != ProviderMock && len(strings.Fields(c.Recorder.Command)) == 0 {
		return errors.New("speech.recorder.command is required when speech is enabled")
	}
	if c.TTS.Enabled {
		if c.OpenAI.APIKey == "" {
			return errors.New("KOTOBA_SPEECH_OPENAI_API_KEY is required for speech playback")
		}
		if len(strings.Fields(c.TTS.Player)) == 0 {
			return errors.New("speech.tts.player is required for speech playback")
		}
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("speech.retry.max_attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	return nil
}
