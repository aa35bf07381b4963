package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/kotoba-app/kotoba/ent"
	"github.com/kotoba-app/kotoba/ent/speechrequestevent"
)

func (r *eventRepo) AppendSpeechRequest(ctx context.Context, data SpeechRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.client.SpeechRequestEvent.Create().
		SetSequence(seqNum).
		SetProvider(data.Provider).
		SetModel(data.Model).
		SetPurpose(data.Purpose).
		SetAudioBytes(data.AudioBytes).
		SetLatencyMs(data.LatencyMs).
		SetSuccess(data.Success).
		SetErrorMessage(data.ErrorMessage).
		SetTranscript(data.Transcript).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("save speech request event: %w", err)
	}

	return nil
}

func (r *eventRepo) QuerySpeechEvents(ctx context.Context, opts QueryOpts) ([]SpeechRequestEventRecord, error) {
	query := r.client.SpeechRequestEvent.Query().
		Order(ent.Desc(speechrequestevent.FieldSequence))

	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.After > 0 {
		query = query.Where(speechrequestevent.SequenceGT(opts.After))
	}
	if opts.Before > 0 {
		query = query.Where(speechrequestevent.SequenceLT(opts.Before))
	}
	if !opts.From.IsZero() {
		query = query.Where(speechrequestevent.TimestampGTE(opts.From))
	}
	if !opts.To.IsZero() {
		query = query.Where(speechrequestevent.TimestampLTE(opts.To))
	}

	events, err := query.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query speech events: %w", err)
	}

	records := make([]SpeechRequestEventRecord, len(events))
	for i, e := range events {
		records[i] = toSpeechRecord(e)
	}
	return records, nil
}

func (r *eventRepo) GetSpeechEvent(ctx context.Context, id int) (*SpeechRequestEventRecord, error) {
	e, err := r.client.SpeechRequestEvent.Get(ctx, id)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get speech event %d: %w", id, err)
	}
	rec := toSpeechRecord(e)
	return &rec, nil
}

func (r *eventRepo) SpeechUsageByPurpose(ctx context.Context) ([]SpeechUsageStats, error) {
	events, err := r.client.SpeechRequestEvent.Query().All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query speech usage: %w", err)
	}

	byPurpose := make(map[string]*SpeechUsageStats)
	latency := make(map[string]int64)
	for _, e := range events {
		st, ok := byPurpose[e.Purpose]
		if !ok {
			st = &SpeechUsageStats{Purpose: e.Purpose}
			byPurpose[e.Purpose] = st
		}
		st.Calls++
		if !e.Success {
			st.Failures++
		}
		st.AudioBytes += e.AudioBytes
		latency[e.Purpose] += e.LatencyMs
	}

	out := make([]SpeechUsageStats, 0, len(byPurpose))
	for purpose, st := range byPurpose {
		st.AvgLatencyMs = latency[purpose] / int64(st.Calls)
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Purpose < out[j].Purpose })
	return out, nil
}

func toSpeechRecord(e *ent.SpeechRequestEvent) SpeechRequestEventRecord {
	return SpeechRequestEventRecord{
		ID: e.ID,
		SpeechRequestEventData: SpeechRequestEventData{
			Provider:     e.Provider,
			Model:        e.Model,
			Purpose:      e.Purpose,
			AudioBytes:   e.AudioBytes,
			LatencyMs:    e.LatencyMs,
			Success:      e.Success,
			ErrorMessage: e.ErrorMessage,
			Transcript:   e.Transcript,
		},
		Sequence:  e.Sequence,
		Timestamp: e.Timestamp,
	}
}
