package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/civicatlas/artcatalog/gen/ent"
	"github.com/civicatlas/artcatalog/gen/ent/artist"
	"github.com/civicatlas/artcatalog/internal/common"
	"github.com/civicatlas/artcatalog/internal/entity"
	"github.com/civicatlas/artcatalog/internal/utils"
)

type ArtistRepository interface {
	// FindByName does a case-insensitive exact match; (nil, nil) when absent.
	FindByName(ctx context.Context, name string) (*entity.Artist, error)
	Create(ctx context.Context, artist *entity.Artist) (*entity.Artist, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Artist, error)
	List(ctx context.Context) ([]*entity.Artist, error)
}

type artistRepository struct {
	client *ent.Client
	logger *slog.Logger
}

func NewArtistRepository(client *ent.Client, logger *slog.Logger) ArtistRepository {
	return &artistRepository{
		client: client,
		logger: logger,
	}
}

func (r *artistRepository) FindByName(ctx context.Context, name string) (*entity.Artist, error) {
	// oldest row wins when the catalog holds same-named artists
	row, err := r.client.Artist.Query().
		Where(artist.NameEqualFold(name)).
		Order(artist.ByCreatedAt()).
		First(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, nil
		}
		r.logger.Error("failed to find artist by name", "name", name, "error", err)
		return nil, common.NewStorageError("find artist by name", err)
	}
	return utils.ToArtist(row), nil
}

func (r *artistRepository) Create(ctx context.Context, a *entity.Artist) (*entity.Artist, error) {
	create := r.client.Artist.Create().
		SetName(a.Name).
		SetNillableBio(a.Bio).
		SetNillableWebsite(a.Website)
	if a.Status != "" {
		create = create.SetStatus(a.Status)
	}

	row, err := create.Save(ctx)
	if err != nil {
		r.logger.Error("failed to create artist", "name", a.Name, "error", err)
		return nil, common.NewStorageError("create artist", err)
	}
	return utils.ToArtist(row), nil
}

func (r *artistRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Artist, error) {
	row, err := r.client.Artist.Get(ctx, id)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, fmt.Errorf("artist %s: %w", id, common.ErrNotFound)
		}
		r.logger.Error("failed to get artist", "artist_id", id, "error", err)
		return nil, common.NewStorageError("get artist", err)
	}
	return utils.ToArtist(row), nil
}

func (r *artistRepository) List(ctx context.Context) ([]*entity.Artist, error) {
	rows, err := r.client.Artist.Query().Order(artist.ByName()).All(ctx)
	if err != nil {
		r.logger.Error("failed to list artists", "error", err)
		return nil, common.NewStorageError("list artists", err)
	}

	result := make([]*entity.Artist, len(rows))
	for i, row := range rows {
		result[i] = utils.ToArtist(row)
	}
	return result, nil
}
