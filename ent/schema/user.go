package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"github.com/google/uuid"
)

type User struct {
	ent.Schema
}

func (User) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable(),
		field.String("username").
			Unique().
			NotEmpty().
			MaxLen(80),
		field.String("email").
			Unique().
			NotEmpty().
			MaxLen(120),
		// Only users that signed in with Google carry an id; the rest hold NULL,
		// so uniqueness is checked among present values only.
		field.String("google_id").
			Optional().
			Nillable().
			Unique(),
		field.String("password_hash").
			Optional().
			Sensitive(), // Prevents it from being exposed in logs
		field.Bool("is_admin").
			Default(false),
		field.Float("points").
			Default(0),
		field.String("country").
			Optional().
			MaxLen(2),
		field.Time("date_joined").
			Default(time.Now).
			Immutable(),
	}
}

func (User) Edges() []ent.Edge {
	return []ent.Edge{
		// One User can submit many Records.
		edge.To("records", Record.Type),
	}
}
