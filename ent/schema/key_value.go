package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// KeyValue holds namespaced per-user JSON documents such as word weights
// and cumulative counters. Writes overwrite the whole value.
type KeyValue struct {
	ent.Schema
}

func (KeyValue) Fields() []ent.Field {
	return []ent.Field{
		field.String("key").
			NotEmpty().
			Unique().
			Comment("Namespaced key, e.g. weights:{deck}:{user}"),
		field.Bytes("data").
			Comment("JSON document"),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now).
			Comment("Last write time"),
	}
}

func (KeyValue) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("updated_at"),
	}
}
