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

type Artwork struct{ ent.Schema }

func (Artwork) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "artworks"},
	}
}

func (Artwork) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable().
			StorageKey("id"),
		// FK field created by the artist edge; explicit so it stays queryable.
		field.UUID("artist_id", uuid.UUID{}).Optional().Nillable(),
		field.String("title").NotEmpty(),
		// attribution string as submitted; may predate the linked artist row
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
		field.String("status").NotEmpty().
			Validate(utils.EnumValidator(constants.ArtworkStatuses...)),
		field.String("source_type").NotEmpty().
			Validate(utils.EnumValidator(constants.SourceTypes...)),
		field.String("source_id").NotEmpty(),
		field.Time("created_at").Default(time.Now),
		field.Time("updated_at").Default(time.Now).UpdateDefault(time.Now),
	}
}

func (Artwork) Edges() []ent.Edge {
	return []ent.Edge{
		// OPTIONAL: MANY artworks -> ONE artist (FK: artworks.artist_id)
		edge.From("artist", Artist.Type).
			Ref("artworks").
			Field("artist_id").
			Unique(),
		// ONE artwork -> MANY submissions (duplicates link back to it)
		edge.To("submissions", Submission.Type),
	}
}

func (Artwork) Indexes() []ent.Index {
	return []ent.Index{
		// candidate scans filter on status then the coordinate box
		index.Fields("status", "lat", "lon"),
		// one catalog row per source record
		index.Fields("source_type", "source_id").Unique(),
		index.Fields("artist_id"),
	}
}
