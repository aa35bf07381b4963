package speech

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// transcriptSchema is the JSON shape structured providers must return.
var transcriptSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"transcript": map[string]any{"type": "string"},
	},
	"required":             []any{"transcript"},
	"additionalProperties": false,
}

var compiledTranscriptSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	const url = "schema://transcript.json"
	if err := c.AddResource(url, transcriptSchema); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(url)
})

// parseTranscript validates raw provider output against transcriptSchema
// and returns the transcript field. Failures are *ErrInvalidResponse.
func parseTranscript(raw []byte) (string, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &ErrInvalidResponse{
			Content: raw,
			Err:     fmt.Errorf("invalid JSON: %w", err),
		}
	}

	compiled, err := compiledTranscriptSchema()
	if err != nil {
		return "", &ErrInvalidResponse{
			Content: raw,
			Err:     fmt.Errorf("compile transcript schema: %w", err),
		}
	}

	if err := compiled.Validate(parsed); err != nil {
		return "", &ErrInvalidResponse{
			Content: raw,
			Err:     fmt.Errorf("schema validation failed: %w", err),
		}
	}

	return parsed.(map[string]any)["transcript"].(string), nil
}
