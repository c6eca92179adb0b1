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

type Artist struct{ ent.Schema }

func (Artist) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "artists"},
	}
}

func (Artist) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable().
			StorageKey("id"),
		field.String("name").NotEmpty(),
		field.String("bio").Optional().Nillable().
			SchemaType(map[string]string{dialect.Postgres: "text"}),
		field.String("website").Optional().Nillable(),
		field.String("status").NotEmpty().
			Default(string(constants.ArtistStatusPending)).
			Validate(utils.EnumValidator(constants.ArtistStatuses...)),
		field.Time("created_at").Default(time.Now),
		field.Time("updated_at").Default(time.Now).UpdateDefault(time.Now),
	}
}

func (Artist) Edges() []ent.Edge {
	return []ent.Edge{
		// ONE artist -> MANY artworks
		edge.To("artworks", Artwork.Type),
		// ONE artist -> MANY submissions
		edge.To("submissions", Submission.Type),
	}
}

func (Artist) Indexes() []ent.Index {
	return []ent.Index{
		// name lookups are case-folded in the repository, not the index
		index.Fields("name"),
	}
}
