package store

import (
	"context"
	"fmt"

	"github.com/kotoba-app/kotoba/ent/gradeevent"
)

func (r *eventRepo) AppendGradeEvent(ctx context.Context, data GradeEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.client.GradeEvent.Create().
		SetSequence(seqNum).
		SetSessionID(data.SessionID).
		SetUserID(data.UserID).
		SetDeckID(data.DeckID).
		SetMode(data.Mode).
		SetWordID(data.WordID).
		SetExpected(data.Expected).
		SetResponse(data.Response).
		SetCorrect(data.Correct).
		SetGaveUp(data.GaveUp).
		SetWeightBefore(data.WeightBefore).
		SetWeightAfter(data.WeightAfter).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("save grade event: %w", err)
	}
	return nil
}

func (r *eventRepo) WordAccuracy(ctx context.Context, userID, deckID string) (map[string]WordAccuracy, error) {
	events, err := r.client.GradeEvent.Query().
		Where(
			gradeevent.UserID(userID),
			gradeevent.DeckID(deckID),
		).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query word accuracy: %w", err)
	}

	out := make(map[string]WordAccuracy)
	for _, e := range events {
		acc := out[e.WordID]
		acc.WordID = e.WordID
		acc.Attempts++
		if e.Correct {
			acc.Correct++
		}
		out[e.WordID] = acc
	}
	return out, nil
}
