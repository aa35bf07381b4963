package speech

import (
	"context"
	"sync"
)

// MockResponse is a canned result for MockTranscriber.
type MockResponse struct {
	Text string
	Err  error
}

// MockTranscriber is a deterministic Transcriber for tests and offline
// use. It returns canned responses in FIFO order and records every call.
type MockTranscriber struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Audio
}

// NewMockTranscriber creates a MockTranscriber with the given responses.
func NewMockTranscriber(responses ...MockResponse) *MockTranscriber {
	return &MockTranscriber{responses: responses}
}

// Transcribe returns the next canned response. With an empty queue it
// reports ErrNoSpeech.
func (m *MockTranscriber) Transcribe(_ context.Context, audio Audio) (*Transcript, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, audio)

	if len(m.responses) == 0 {
		return nil, ErrNoSpeech
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]

	if resp.Err != nil {
		return nil, resp.Err
	}
	if resp.Text == "" {
		return nil, ErrNoSpeech
	}
	return &Transcript{Text: resp.Text, Model: "mock"}, nil
}

// ModelID returns "mock".
func (m *MockTranscriber) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockTranscriber) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Transcribe calls made.
func (m *MockTranscriber) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
