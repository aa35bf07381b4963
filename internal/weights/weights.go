// Package weights persists per-user word weights, mastery counts and
// cumulative score counters. It is the persistence boundary of a drill:
// storage failures are logged and absorbed, never returned.
package weights

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/kotoba-app/kotoba/internal/store"
)

// Weights maps word IDs to positive selection weights.
type Weights map[string]float64

// Counters is a correct/total score pair.
type Counters struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Add returns the element-wise sum of c and o.
func (c Counters) Add(o Counters) Counters {
	return Counters{Correct: c.Correct + o.Correct, Total: c.Total + o.Total}
}

// MasteryCount tracks lifetime grades for one word.
type MasteryCount struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
}

// MasteryCounts maps word IDs to their lifetime grades.
type MasteryCounts map[string]MasteryCount

// Scope selects which persisted maps a Store reads and writes.
type Scope struct {
	DeckID   string
	TestKind string // "reading" or "speech"
}

// Store is the weight and counter persistence used by drills.
// Implementations never fail: missing data reads as empty.
type Store interface {
	Load(ctx context.Context, userID string) Weights
	Save(ctx context.Context, userID string, w Weights)
	LoadCumulative(ctx context.Context, userID string) Counters
	SaveCumulative(ctx context.Context, userID string, c Counters)
	LoadMastery(ctx context.Context, userID string) MasteryCounts
	SaveMastery(ctx context.Context, userID string, m MasteryCounts)
}

// WeightsKey is the key holding a user's weights for a deck.
func WeightsKey(deckID, userID string) string {
	return fmt.Sprintf("weights:%s:%s", deckID, userID)
}

// CumulativeKey is the key holding a user's lifetime counters for a test kind.
func CumulativeKey(testKind, userID string) string {
	return fmt.Sprintf("cumulative:%s:%s", testKind, userID)
}

// MasteryKey is the key holding a user's mastery counts for a deck.
func MasteryKey(deckID, userID string) string {
	return fmt.Sprintf("mastery:%s:%s", deckID, userID)
}

// KVStore implements Store on top of a store.KVRepo. Values whose write
// failed are kept in memory, served by later loads and retried on the
// next save of the same key.
type KVStore struct {
	repo   store.KVRepo
	scope  Scope
	logger *zap.Logger

	mu      sync.Mutex
	pending map[string][]byte
}

// NewKVStore returns a Store for scope backed by repo.
func NewKVStore(repo store.KVRepo, scope Scope, logger *zap.Logger) *KVStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KVStore{
		repo:    repo,
		scope:   scope,
		logger:  logger,
		pending: make(map[string][]byte),
	}
}

// NewMemoryStore returns a Store that keeps everything in process memory.
func NewMemoryStore(scope Scope) *KVStore {
	return NewKVStore(store.NewMemoryKVRepo(), scope, nil)
}

// Scope returns the deck and test kind this store is bound to.
func (s *KVStore) Scope() Scope {
	return s.scope
}

func (s *KVStore) Load(ctx context.Context, userID string) Weights {
	var raw map[string]float64
	s.read(ctx, WeightsKey(s.scope.DeckID, userID), &raw)

	w := make(Weights, len(raw))
	for id, v := range raw {
		if v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v) {
			w[id] = v
		}
	}
	return w
}

func (s *KVStore) Save(ctx context.Context, userID string, w Weights) {
	out := make(map[string]float64, len(w))
	for id, v := range w {
		switch {
		case math.IsNaN(v) || v <= 0:
			continue
		case math.IsInf(v, 1):
			v = math.MaxFloat64
		}
		out[id] = v
	}
	s.write(ctx, WeightsKey(s.scope.DeckID, userID), out)
}

func (s *KVStore) LoadCumulative(ctx context.Context, userID string) Counters {
	var c Counters
	s.read(ctx, CumulativeKey(s.scope.TestKind, userID), &c)
	return c
}

func (s *KVStore) SaveCumulative(ctx context.Context, userID string, c Counters) {
	s.write(ctx, CumulativeKey(s.scope.TestKind, userID), c)
}

func (s *KVStore) LoadMastery(ctx context.Context, userID string) MasteryCounts {
	m := make(MasteryCounts)
	s.read(ctx, MasteryKey(s.scope.DeckID, userID), &m)
	if m == nil {
		m = make(MasteryCounts)
	}
	return m
}

func (s *KVStore) SaveMastery(ctx context.Context, userID string, m MasteryCounts) {
	s.write(ctx, MasteryKey(s.scope.DeckID, userID), m)
}

// read decodes the value at key into dst, leaving dst untouched when the
// key is absent, unreadable or corrupt.
func (s *KVStore) read(ctx context.Context, key string, dst any) {
	s.mu.Lock()
	data, ok := s.pending[key]
	s.mu.Unlock()

	if !ok {
		var err error
		data, ok, err = s.repo.Get(ctx, key)
		if err != nil {
			s.logger.Warn("load failed, using empty value", zap.String("key", key), zap.Error(err))
			return
		}
	}
	if !ok || len(data) == 0 {
		return
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.Warn("corrupt stored value ignored", zap.String("key", key), zap.Error(err))
	}
}

func (s *KVStore) write(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn("encode failed, value not saved", zap.String("key", key), zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Put(ctx, key, data); err != nil {
		s.pending[key] = data
		s.logger.Warn("save failed, keeping value in memory", zap.String("key", key), zap.Error(err))
		return
	}
	delete(s.pending, key)
}
