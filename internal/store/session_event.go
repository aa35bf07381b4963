package store

import (
	"context"
	"fmt"

	"github.com/kotoba-app/kotoba/ent"
	"github.com/kotoba-app/kotoba/ent/sessionevent"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.client.SessionEvent.Create().
		SetSequence(seqNum).
		SetSessionID(data.SessionID).
		SetUserID(data.UserID).
		SetDeckID(data.DeckID).
		SetMode(data.Mode).
		SetAction(data.Action).
		SetRounds(data.Rounds).
		SetCorrect(data.Correct).
		SetDurationSecs(data.DurationSecs).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySessionSummaries(ctx context.Context, userID string, opts QueryOpts) ([]SessionSummaryRecord, error) {
	query := r.client.SessionEvent.Query().
		Where(sessionevent.Action("end")).
		Order(ent.Desc(sessionevent.FieldSequence))

	if userID != "" {
		query = query.Where(sessionevent.UserID(userID))
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.After > 0 {
		query = query.Where(sessionevent.SequenceGT(opts.After))
	}
	if opts.Before > 0 {
		query = query.Where(sessionevent.SequenceLT(opts.Before))
	}
	if !opts.From.IsZero() {
		query = query.Where(sessionevent.TimestampGTE(opts.From))
	}
	if !opts.To.IsZero() {
		query = query.Where(sessionevent.TimestampLTE(opts.To))
	}

	events, err := query.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query session summaries: %w", err)
	}

	records := make([]SessionSummaryRecord, len(events))
	for i, e := range events {
		records[i] = SessionSummaryRecord{
			SessionID:    e.SessionID,
			UserID:       e.UserID,
			DeckID:       e.DeckID,
			Mode:         e.Mode,
			Rounds:       e.Rounds,
			Correct:      e.Correct,
			DurationSecs: e.DurationSecs,
			Timestamp:    e.Timestamp,
		}
	}
	return records, nil
}
