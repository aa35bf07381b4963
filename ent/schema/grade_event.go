package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// GradeEvent records a single graded round within a drill session.
type GradeEvent struct {
	ent.Schema
}

func (GradeEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (GradeEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("Links to SessionEvent"),
		field.String("user_id").
			NotEmpty().
			Comment("Learner the round belongs to"),
		field.String("deck_id").
			NotEmpty().
			Comment("Deck the word was drawn from"),
		field.String("mode").
			NotEmpty().
			Comment("reading or speech"),
		field.String("word_id").
			NotEmpty().
			Comment("Word that was drilled"),
		field.String("expected").
			NotEmpty().
			Comment("Expected reading"),
		field.String("response").
			Default("").
			Comment("Typed or recognized input, empty on give up"),
		field.Bool("correct").
			Comment("Whether the round was graded correct"),
		field.Bool("gave_up").
			Default(false).
			Comment("Whether the learner gave up"),
		field.Float("weight_before").
			Comment("Word weight before grading"),
		field.Float("weight_after").
			Comment("Word weight after grading"),
	}
}

func (GradeEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("user_id", "deck_id"),
		index.Fields("word_id"),
		index.Fields("correct"),
	}
}
