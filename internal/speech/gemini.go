package speech

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// geminiModels maps friendly names to Gemini model IDs.
var geminiModels = map[string]string{
	"gemini-flash": "gemini-2.0-flash",
	"gemini-pro":   "gemini-2.0-pro",
}

const geminiInstruction = "You transcribe short spoken answers from a language learner. " +
	"Write exactly what was said in the requested language's native script, without translation " +
	"or correction. If nothing intelligible was said, return an empty transcript."

// GeminiTranscriber implements Transcriber with a multimodal Gemini
// model and structured JSON output.
type GeminiTranscriber struct {
	client *genai.Client
	model  string
}

// NewGeminiTranscriber creates a new Gemini transcriber.
func NewGeminiTranscriber(ctx context.Context, cfg GeminiConfig) (*GeminiTranscriber, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	return &GeminiTranscriber{
		client: client,
		model:  resolveModel(cfg.Model, geminiModels),
	}, nil
}

func (p *GeminiTranscriber) Transcribe(ctx context.Context, audio Audio) (*Transcript, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: geminiInstruction}},
		},
		ResponseMIMEType: "application/json",
		ResponseSchema:   transcriptGeminiSchema(),
	}

	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{Text: fmt.Sprintf("Transcribe this answer. Language: %s.", audio.Language)},
			{InlineData: &genai.Blob{Data: audio.Data, MIMEType: audio.MIMEType}},
		},
	}}

	result, err := p.client.Models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		return nil, mapGeminiError(err)
	}

	text, err := parseTranscript([]byte(result.Text()))
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrNoSpeech
	}
	return &Transcript{Text: text, Model: p.model}, nil
}

func (p *GeminiTranscriber) ModelID() string {
	return p.model
}

func transcriptGeminiSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"transcript": {
				Type:        genai.TypeString,
				Description: "The words spoken in the audio.",
			},
		},
		Required: []string{"transcript"},
	}
}

func mapGeminiError(err error) error {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return &ErrRateLimit{Err: err}
		case apiErr.Code >= 500:
			return &ErrProviderUnavailable{Err: err}
		case apiErr.Code >= 400:
			return fmt.Errorf("gemini request rejected: %w", err)
		}
	}
	return &ErrProviderUnavailable{Err: err}
}
