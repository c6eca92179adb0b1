package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/google/uuid"

	"github.com/civicatlas/artcatalog/constants"
	"github.com/civicatlas/artcatalog/db/ent/schema/utils"
)

type Submission struct{ ent.Schema }

func (Submission) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "submissions"},
	}
}

func (Submission) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable().
			StorageKey("id"),
		// explicit FKs
		field.UUID("artist_id", uuid.UUID{}).Optional().Nillable(),
		field.UUID("artwork_id", uuid.UUID{}).Optional().Nillable(),
		field.String("title").NotEmpty(),
		field.String("artist_name").Optional(),
		field.String("description").Optional().
			SchemaType(map[string]string{dialect.Postgres: "text"}),
		field.Int("year_created").Optional().Nillable(),
		field.String("medium").Optional(),
		field.String("dimensions").Optional(),
		field.Float("lat"),
		field.Float("lon"),
		field.String("address").Optional(),
		field.String("neighborhood").Optional(),
		field.String("city").Optional(),
		field.String("region").Optional(),
		field.String("country").Optional(),
		field.JSON("photos", []string{}).Optional(),
		field.JSON("tags", map[string]string{}).Optional(),
		field.String("source_type").NotEmpty().
			Validate(utils.EnumValidator(constants.SourceTypes...)),
		field.String("source_id").Optional(),
		// the load that staged this row, e.g. "osm summer load"
		field.String("source_name").Optional(),
		field.String("submitted_by").NotEmpty(),
		field.String("status").NotEmpty().
			Default(string(constants.SubmissionStatusPending)).
			Validate(utils.EnumValidator(constants.SubmissionStatuses...)),
		field.String("reviewed_by").Optional().Nillable(),
		field.String("review_note").Optional().Nillable(),
		field.Time("reviewed_at").Optional().Nillable(),
		field.Time("created_at").Default(time.Now),
		field.Time("updated_at").Default(time.Now).UpdateDefault(time.Now),
	}
}

func (Submission) Edges() []ent.Edge {
	return []ent.Edge{
		// OPTIONAL: MANY submissions -> ONE artist (FK: submissions.artist_id)
		edge.From("artist", Artist.Type).
			Ref("submissions").
			Field("artist_id").
			Unique(),
		// OPTIONAL: MANY submissions -> ONE artwork (FK: submissions.artwork_id)
		edge.From("artwork", Artwork.Type).
			Ref("submissions").
			Field("artwork_id").
			Unique(),
	}
}

func (Submission) Indexes() []ent.Index {
	return []ent.Index{
		// review queue is read pending-first, oldest-first
		index.Fields("status", "created_at"),
		index.Fields("source_type", "source_id"),
		index.Fields("artwork_id"),
	}
}
