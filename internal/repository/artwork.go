package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/civicatlas/artcatalog/constants"
	"github.com/civicatlas/artcatalog/gen/ent"
	"github.com/civicatlas/artcatalog/gen/ent/artwork"
	"github.com/civicatlas/artcatalog/internal/common"
	"github.com/civicatlas/artcatalog/internal/entity"
	"github.com/civicatlas/artcatalog/internal/geo"
	"github.com/civicatlas/artcatalog/internal/utils"
)

type ArtworkRepository interface {
	// ListApprovedInBox is the candidate range scan over the
	// (status, lat, lon) index, projected down to the scoring fields.
	ListApprovedInBox(ctx context.Context, box geo.BoundingBox) ([]entity.CandidateArtwork, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Artwork, error)
	ListByStatus(ctx context.Context, status string) ([]*entity.Artwork, error)
	CountBySource(ctx context.Context) (map[string]int, error)
	// CreateFromSubmission materializes an approved artwork directly from a
	// staged payload, outside the review transaction.
	CreateFromSubmission(ctx context.Context, submission *entity.Submission) (*entity.Artwork, error)
}

type artworkRepository struct {
	client *ent.Client
	logger *slog.Logger
}

func NewArtworkRepository(client *ent.Client, logger *slog.Logger) ArtworkRepository {
	return &artworkRepository{
		client: client,
		logger: logger,
	}
}

func (r *artworkRepository) ListApprovedInBox(ctx context.Context, box geo.BoundingBox) ([]entity.CandidateArtwork, error) {
	rows, err := r.client.Artwork.Query().
		Where(
			artwork.StatusEQ(string(constants.ArtworkStatusApproved)),
			artwork.LatGTE(box.MinLat),
			artwork.LatLTE(box.MaxLat),
			artwork.LonGTE(box.MinLon),
			artwork.LonLTE(box.MaxLon),
		).
		All(ctx)
	if err != nil {
		r.logger.Error("failed to scan artworks in box", "error", err)
		return nil, common.NewStorageError("list artworks in box", err)
	}

	result := make([]entity.CandidateArtwork, len(rows))
	for i, row := range rows {
		result[i] = utils.ToCandidate(row)
	}
	return result, nil
}

func (r *artworkRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Artwork, error) {
	row, err := r.client.Artwork.Get(ctx, id)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, fmt.Errorf("artwork %s: %w", id, common.ErrNotFound)
		}
		r.logger.Error("failed to get artwork", "artwork_id", id, "error", err)
		return nil, common.NewStorageError("get artwork", err)
	}
	return utils.ToArtwork(row), nil
}

func (r *artworkRepository) ListByStatus(ctx context.Context, status string) ([]*entity.Artwork, error) {
	q := r.client.Artwork.Query()
	if status != "" {
		q = q.Where(artwork.StatusEQ(status))
	}
	rows, err := q.Order(artwork.ByCreatedAt()).All(ctx)
	if err != nil {
		r.logger.Error("failed to list artworks", "status", status, "error", err)
		return nil, common.NewStorageError("list artworks", err)
	}

	result := make([]*entity.Artwork, len(rows))
	for i, row := range rows {
		result[i] = utils.ToArtwork(row)
	}
	return result, nil
}

func (r *artworkRepository) CountBySource(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		SourceType string `json:"source_type"`
		Count      int    `json:"count"`
	}
	err := r.client.Artwork.Query().
		GroupBy(artwork.FieldSourceType).
		Aggregate(ent.Count()).
		Scan(ctx, &rows)
	if err != nil {
		r.logger.Error("failed to count artworks by source", "error", err)
		return nil, common.NewStorageError("count artworks by source", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.SourceType] = row.Count
	}
	return counts, nil
}

func (r *artworkRepository) CreateFromSubmission(ctx context.Context, submission *entity.Submission) (*entity.Artwork, error) {
	row, err := newArtworkFromSubmission(r.client.Artwork.Create(), submission).Save(ctx)
	if err != nil {
		r.logger.Error("failed to create artwork from submission",
			"submission_id", submission.ID, "error", err)
		return nil, common.NewStorageError("create artwork", err)
	}
	return utils.ToArtwork(row), nil
}

// newArtworkFromSubmission copies the staged payload onto an approved
// artwork builder. Shared with the review transaction.
func newArtworkFromSubmission(create *ent.ArtworkCreate, sub *entity.Submission) *ent.ArtworkCreate {
	create = create.
		SetTitle(sub.Title).
		SetLat(sub.Lat).
		SetLon(sub.Lon).
		SetStatus(string(constants.ArtworkStatusApproved)).
		SetSourceType(sub.SourceType).
		SetSourceID(sub.SourceID).
		SetNillableArtistID(sub.ArtistID).
		SetNillableYearCreated(sub.YearCreated)

	if sub.ArtistName != "" {
		create = create.SetArtistName(sub.ArtistName)
	}
	if sub.Description != "" {
		create = create.SetDescription(sub.Description)
	}
	if sub.Medium != "" {
		create = create.SetMedium(sub.Medium)
	}
	if sub.Dimensions != "" {
		create = create.SetDimensions(sub.Dimensions)
	}
	if sub.Address != "" {
		create = create.SetAddress(sub.Address)
	}
	if sub.Neighborhood != "" {
		create = create.SetNeighborhood(sub.Neighborhood)
	}
	if sub.City != "" {
		create = create.SetCity(sub.City)
	}
	if sub.Region != "" {
		create = create.SetRegion(sub.Region)
	}
	if sub.Country != "" {
		create = create.SetCountry(sub.Country)
	}
	if len(sub.Photos) > 0 {
		create = create.SetPhotos(sub.Photos)
	}
	if len(sub.Tags) > 0 {
		create = create.SetTags(sub.Tags)
	}
	return create
}
