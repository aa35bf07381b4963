package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// openaiModels maps friendly names to OpenAI transcription model IDs.
var openaiModels = map[string]string{
	"whisper":     openai.Whisper1,
	"gpt-4o-mini": "gpt-4o-mini-transcribe",
	"gpt-4o":      "gpt-4o-transcribe",
}

// OpenAITranscriber implements Transcriber using the audio
// transcription endpoint. BaseURL allows compatible servers.
type OpenAITranscriber struct {
	client *openai.Client
	model  string
}

// NewOpenAITranscriber creates a transcriber for the given config.
func NewOpenAITranscriber(cfg OpenAIConfig) (*OpenAITranscriber, error) {
	client, err := newOpenAIClient(cfg)
	if err != nil {
		return nil, err
	}
	return &OpenAITranscriber{
		client: client,
		model:  resolveModel(cfg.Model, openaiModels),
	}, nil
}

func newOpenAIClient(cfg OpenAIConfig) (*openai.Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(config), nil
}

func (p *OpenAITranscriber) Transcribe(ctx context.Context, audio Audio) (*Transcript, error) {
	resp, err := p.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    p.model,
		FilePath: "answer" + audioExt(audio.MIMEType),
		Reader:   bytes.NewReader(audio.Data),
		Language: audio.Language,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return nil, mapOpenAIError(err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return nil, ErrNoSpeech
	}
	return &Transcript{Text: text, Model: p.model}, nil
}

func (p *OpenAITranscriber) ModelID() string {
	return p.model
}

// OpenAISpeaker synthesizes speech with the OpenAI speech endpoint and
// plays it through an external player.
type OpenAISpeaker struct {
	client *openai.Client
	model  string
	voice  string
	player Player
}

// NewOpenAISpeaker creates a speaker that plays through player.
func NewOpenAISpeaker(cfg OpenAIConfig, tts TTSConfig, player Player) (*OpenAISpeaker, error) {
	client, err := newOpenAIClient(cfg)
	if err != nil {
		return nil, err
	}
	return &OpenAISpeaker{
		client: client,
		model:  tts.Model,
		voice:  tts.Voice,
		player: player,
	}, nil
}

func (s *OpenAISpeaker) Speak(ctx context.Context, text string) error {
	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.model),
		Input:          text,
		Voice:          openai.SpeechVoice(s.voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return mapOpenAIError(err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return fmt.Errorf("read speech audio: %w", err)
	}
	return s.player.Play(ctx, data, ".mp3")
}

func audioExt(mimeType string) string {
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".wav"
}

func mapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return &ErrRateLimit{Err: err}
		case apiErr.HTTPStatusCode >= 500:
			return &ErrProviderUnavailable{Err: err}
		case apiErr.HTTPStatusCode >= 400:
			return fmt.Errorf("openai request rejected: %w", err)
		}
	}
	return &ErrProviderUnavailable{Err: err}
}

// resolveModel maps a friendly name to a model ID; unknown names are
// used as-is.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
