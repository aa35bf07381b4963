package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// KVRepo is a namespaced key/value document store. Values are opaque
// bytes (JSON by convention) and every Put overwrites the whole value.
type KVRepo interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Put writes value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key and reports whether it existed.
	Delete(ctx context.Context, key string) (bool, error)

	// Keys lists keys starting with prefix in ascending order.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// DeletePrefix removes every key starting with prefix and reports how
	// many were removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

// GradeEventData captures a single graded drill round.
type GradeEventData struct {
	SessionID    string
	UserID       string
	DeckID       string
	Mode         string
	WordID       string
	Expected     string
	Response     string
	Correct      bool
	GaveUp       bool
	WeightBefore float64
	WeightAfter  float64
}

// SessionEventData captures a drill session lifecycle event.
type SessionEventData struct {
	SessionID    string
	UserID       string
	DeckID       string
	Mode         string
	Action       string // "start" or "end"
	Rounds       int
	Correct      int
	DurationSecs int
}

// SessionSummaryRecord is a finished drill session read back from the log.
type SessionSummaryRecord struct {
	SessionID    string
	UserID       string
	DeckID       string
	Mode         string
	Rounds       int
	Correct      int
	DurationSecs int
	Timestamp    time.Time
}

// WordAccuracy aggregates graded rounds for one word.
type WordAccuracy struct {
	WordID   string
	Attempts int
	Correct  int
}

// SpeechRequestEventData captures the data for a single speech API call.
type SpeechRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	AudioBytes   int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	Transcript   string
}

// SpeechRequestEventRecord is a speech event read back from the log.
type SpeechRequestEventRecord struct {
	ID int
	SpeechRequestEventData
	Sequence  int64
	Timestamp time.Time
}

// SpeechUsageStats aggregates speech requests by purpose.
type SpeechUsageStats struct {
	Purpose      string
	Calls        int
	Failures     int
	AudioBytes   int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendGradeEvent records a graded drill round.
	AppendGradeEvent(ctx context.Context, data GradeEventData) error

	// AppendSessionEvent records a drill session start or end.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AppendSpeechRequest records a speech provider API call.
	AppendSpeechRequest(ctx context.Context, data SpeechRequestEventData) error

	// QuerySessionSummaries returns finished sessions for userID, newest
	// first. An empty userID matches every user.
	QuerySessionSummaries(ctx context.Context, userID string, opts QueryOpts) ([]SessionSummaryRecord, error)

	// WordAccuracy aggregates graded rounds per word for a user and deck.
	WordAccuracy(ctx context.Context, userID, deckID string) (map[string]WordAccuracy, error)

	// QuerySpeechEvents returns speech events, newest first.
	QuerySpeechEvents(ctx context.Context, opts QueryOpts) ([]SpeechRequestEventRecord, error)

	// GetSpeechEvent returns a single speech event or ErrNotFound.
	GetSpeechEvent(ctx context.Context, id int) (*SpeechRequestEventRecord, error)

	// SpeechUsageByPurpose aggregates speech events by purpose.
	SpeechUsageByPurpose(ctx context.Context) ([]SpeechUsageStats, error)
}
