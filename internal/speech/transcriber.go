// Package speech turns a learner's spoken answer into text. It captures
// audio through an external recorder, sends it to a transcription
// provider, and delivers the result asynchronously to the drill screen.
package speech

import "context"

// Transcriber converts captured audio into text.
type Transcriber interface {
	// Transcribe returns the text spoken in audio. An empty transcript is
	// reported as ErrNoSpeech.
	Transcribe(ctx context.Context, audio Audio) (*Transcript, error)

	// ModelID returns the model identifier this transcriber uses.
	ModelID() string
}

// Audio is a captured utterance.
type Audio struct {
	Data []byte

	// MIMEType of Data, e.g. "audio/wav".
	MIMEType string

	// Language is the BCP-47 code the speaker is expected to use.
	Language string
}

// Transcript holds a provider's result.
type Transcript struct {
	Text  string
	Model string
}

// Speaker plays the pronunciation of a text.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}
