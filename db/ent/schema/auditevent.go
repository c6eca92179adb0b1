package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/google/uuid"
)

// AuditEvent is an append-only trail row. Events reference their subject by
// (entity_type, entity_id) strings rather than FKs so session-level events
// can exist without a backing table.
type AuditEvent struct {
	ent.Schema
}

func (AuditEvent) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "audit_events"},
	}
}

func (AuditEvent) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable().
			StorageKey("id"),
		field.String("entity_type").NotEmpty().Immutable(),
		field.String("entity_id").NotEmpty().Immutable(),
		field.String("action").NotEmpty().Immutable(),
		field.JSON("metadata", map[string]interface{}{}).Optional(),
		field.Time("recorded_at").Default(time.Now).Immutable(),
	}
}

func (AuditEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("entity_type", "entity_id", "recorded_at"),
	}
}
