package drill

import (
	"context"
	"sync"

	"github.com/kotoba-app/kotoba/internal/weights"
)

// SessionLog counts graded rounds for one session and folds them into
// the cumulative counters exactly once.
type SessionLog struct {
	mu       sync.Mutex
	counters weights.Counters
	flushed  bool
}

// Record counts one graded round.
func (l *SessionLog) Record(correct bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counters.Total++
	if correct {
		l.counters.Correct++
	}
}

// Counters returns the session's counts so far.
func (l *SessionLog) Counters() weights.Counters {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counters
}

// Flush adds the session counts to userID's cumulative counters. Only the
// first call writes; later calls return false.
func (l *SessionLog) Flush(ctx context.Context, store weights.Store, userID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.flushed {
		return false
	}
	l.flushed = true
	if l.counters.Total == 0 {
		return true
	}
	cumulative := store.LoadCumulative(ctx, userID)
	store.SaveCumulative(ctx, userID, cumulative.Add(l.counters))
	return true
}

// Reset flushes pending counts, then starts a fresh session.
func (l *SessionLog) Reset(ctx context.Context, store weights.Store, userID string) {
	l.Flush(ctx, store, userID)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counters = weights.Counters{}
	l.flushed = false
}
