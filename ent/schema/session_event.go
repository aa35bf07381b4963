package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// SessionEvent records drill session lifecycle events (start/end).
type SessionEvent struct {
	ent.Schema
}

func (SessionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (SessionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("UUID grouping events in a session"),
		field.String("user_id").
			NotEmpty().
			Comment("Learner running the session"),
		field.String("deck_id").
			NotEmpty().
			Comment("Deck being drilled"),
		field.String("mode").
			NotEmpty().
			Comment("reading or speech"),
		field.String("action").
			NotEmpty().
			Comment("start or end"),
		field.Int("rounds").
			Default(0).
			Comment("Graded rounds (on end only)"),
		field.Int("correct").
			Default(0).
			Comment("Correct rounds (on end only)"),
		field.Int("duration_secs").
			Default(0).
			Comment("Session duration in seconds (on end only)"),
	}
}

func (SessionEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("action"),
		index.Fields("user_id"),
	}
}
