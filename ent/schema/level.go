package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"github.com/google/uuid"
)

type Level struct {
	ent.Schema
}

func (Level) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable(),
		field.String("name").
			NotEmpty().
			MaxLen(100),
		field.String("creator").
			NotEmpty().
			MaxLen(80),
		field.String("verifier").
			NotEmpty().
			MaxLen(80),
		// In-game level id, not a reference to another entity.
		field.String("level_id").
			Optional().
			MaxLen(20),
		field.String("video_url").
			Optional(),
		field.String("thumbnail_url").
			Optional().
			Nillable(),
		field.Text("description").
			Optional(),
		field.Float("difficulty"),
		field.Int("position").
			Positive(),
		field.Bool("is_legacy").
			Default(false),
		field.Float("points").
			Default(0),
		field.Int("min_percentage").
			Range(0, 100).
			Default(100),
		field.Time("date_added").
			Default(time.Now).
			Immutable(),
	}
}

func (Level) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("records", Record.Type),
	}
}

func (Level) Indexes() []ent.Index {
	return []ent.Index{
		// Position orders a list but is not unique: reordering shifts rows one
		// at a time inside a transaction.
		index.Fields("position"),
		index.Fields("is_legacy"),
	}
}
