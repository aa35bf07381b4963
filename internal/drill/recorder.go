package drill

import (
	"context"

	"go.uber.org/zap"

	"github.com/kotoba-app/kotoba/internal/store"
)

// Recorder receives graded rounds and session boundaries for the event
// log. Implementations must not block the drill on failure.
type Recorder interface {
	RecordGrade(ctx context.Context, data store.GradeEventData)
	RecordSession(ctx context.Context, data store.SessionEventData)
}

// EventRecorder appends drill events to a store.EventRepo, logging and
// dropping any append error.
type EventRecorder struct {
	repo   store.EventRepo
	logger *zap.Logger
}

// NewEventRecorder returns a Recorder writing to repo.
func NewEventRecorder(repo store.EventRepo, logger *zap.Logger) *EventRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventRecorder{repo: repo, logger: logger}
}

func (r *EventRecorder) RecordGrade(ctx context.Context, data store.GradeEventData) {
	if err := r.repo.AppendGradeEvent(ctx, data); err != nil {
		r.logger.Warn("failed to record grade event",
			zap.String("session", data.SessionID),
			zap.String("word", data.WordID),
			zap.Error(err))
	}
}

func (r *EventRecorder) RecordSession(ctx context.Context, data store.SessionEventData) {
	if err := r.repo.AppendSessionEvent(ctx, data); err != nil {
		r.logger.Warn("failed to record session event",
			zap.String("session", data.SessionID),
			zap.String("action", data.Action),
			zap.Error(err))
	}
}

type nopRecorder struct{}

func (nopRecorder) RecordGrade(context.Context, store.GradeEventData)     {}
func (nopRecorder) RecordSession(context.Context, store.SessionEventData) {}
