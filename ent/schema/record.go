package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"github.com/google/uuid"
)

type Record struct {
	ent.Schema
}

func (Record) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable(),
		field.UUID("user_id", uuid.UUID{}),
		field.UUID("level_id", uuid.UUID{}),
		field.Int("progress").
			Range(0, 100),
		field.String("video_url").
			NotEmpty(),
		field.Enum("status").
			Values("pending", "approved", "rejected").
			Default("pending"),
		field.Float("points").
			Default(0),
		field.Time("date_submitted").
			Default(time.Now).
			Immutable(),
	}
}

func (Record) Edges() []ent.Edge {
	return []ent.Edge{
		// Many-to-one back to the submitting User.
		edge.From("user", User.Type).
			Ref("records").
			Field("user_id").
			Unique().
			Required(),
		// Many-to-one back to the Level that was completed.
		edge.From("level", Level.Type).
			Ref("records").
			Field("level_id").
			Unique().
			Required(),
	}
}

func (Record) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id"),
		index.Fields("level_id"),
		index.Fields("status"),
	}
}
