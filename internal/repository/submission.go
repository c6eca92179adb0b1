package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/civicatlas/artcatalog/constants"
	"github.com/civicatlas/artcatalog/gen/ent"
	"github.com/civicatlas/artcatalog/gen/ent/submission"
	"github.com/civicatlas/artcatalog/internal/common"
	"github.com/civicatlas/artcatalog/internal/entity"
	"github.com/civicatlas/artcatalog/internal/utils"
)

type SubmissionRepository interface {
	Create(ctx context.Context, submission *entity.Submission) (*entity.Submission, error)
	// Approve converts a pending submission into a live approved artwork in
	// one transaction and returns the new artwork ID.
	Approve(ctx context.Context, id uuid.UUID, reviewer, note string) (uuid.UUID, error)
	Reject(ctx context.Context, id uuid.UUID, reviewer, note string) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Submission, error)
	ListByStatus(ctx context.Context, status string) ([]*entity.Submission, error)
}

type submissionRepository struct {
	client *ent.Client
	logger *slog.Logger
}

func NewSubmissionRepository(client *ent.Client, logger *slog.Logger) SubmissionRepository {
	return &submissionRepository{
		client: client,
		logger: logger,
	}
}

func (r *submissionRepository) Create(ctx context.Context, s *entity.Submission) (*entity.Submission, error) {
	create := r.client.Submission.Create().
		SetTitle(s.Title).
		SetLat(s.Lat).
		SetLon(s.Lon).
		SetSourceType(s.SourceType).
		SetSubmittedBy(s.SubmittedBy).
		SetNillableArtistID(s.ArtistID).
		SetNillableYearCreated(s.YearCreated)
	if s.Status != "" {
		create = create.SetStatus(s.Status)
	}
	if s.ArtistName != "" {
		create = create.SetArtistName(s.ArtistName)
	}
	if s.Description != "" {
		create = create.SetDescription(s.Description)
	}
	if s.Medium != "" {
		create = create.SetMedium(s.Medium)
	}
	if s.Dimensions != "" {
		create = create.SetDimensions(s.Dimensions)
	}
	if s.Address != "" {
		create = create.SetAddress(s.Address)
	}
	if s.Neighborhood != "" {
		create = create.SetNeighborhood(s.Neighborhood)
	}
	if s.City != "" {
		create = create.SetCity(s.City)
	}
	if s.Region != "" {
		create = create.SetRegion(s.Region)
	}
	if s.Country != "" {
		create = create.SetCountry(s.Country)
	}
	if s.SourceID != "" {
		create = create.SetSourceID(s.SourceID)
	}
	if s.SourceName != "" {
		create = create.SetSourceName(s.SourceName)
	}
	if len(s.Photos) > 0 {
		create = create.SetPhotos(s.Photos)
	}
	if len(s.Tags) > 0 {
		create = create.SetTags(s.Tags)
	}

	row, err := create.Save(ctx)
	if err != nil {
		r.logger.Error("failed to create submission",
			"title", s.Title, "source_id", s.SourceID, "error", err)
		return nil, common.NewStorageError("create submission", err)
	}
	return utils.ToSubmission(row), nil
}

func (r *submissionRepository) Approve(ctx context.Context, id uuid.UUID, reviewer, note string) (uuid.UUID, error) {
	var artworkID uuid.UUID
	err := withTx(ctx, r.client, func(tx *ent.Tx) error {
		sub, err := tx.Submission.Get(ctx, id)
		if err != nil {
			if ent.IsNotFound(err) {
				return fmt.Errorf("submission %s: %w", id, common.ErrNotFound)
			}
			return err
		}
		if sub.Status != string(constants.SubmissionStatusPending) {
			return common.NewValidationError(
				fmt.Sprintf("submission %s is %s, only pending submissions can be approved", id, sub.Status))
		}

		aw, err := newArtworkFromSubmission(tx.Artwork.Create(), utils.ToSubmission(sub)).Save(ctx)
		if err != nil {
			return err
		}

		update := tx.Submission.UpdateOne(sub).
			SetStatus(string(constants.SubmissionStatusApproved)).
			SetArtworkID(aw.ID).
			SetReviewedBy(reviewer).
			SetReviewedAt(time.Now())
		if note != "" {
			update = update.SetReviewNote(note)
		}
		if _, err := update.Save(ctx); err != nil {
			return err
		}

		artworkID = aw.ID
		return nil
	})
	if err != nil {
		r.logger.Error("failed to approve submission", "submission_id", id, "error", err)
		return uuid.Nil, err
	}

	r.logger.Info("submission approved",
		"submission_id", id, "artwork_id", artworkID, "reviewer", reviewer)
	return artworkID, nil
}

func (r *submissionRepository) Reject(ctx context.Context, id uuid.UUID, reviewer, note string) error {
	sub, err := r.client.Submission.Get(ctx, id)
	if err != nil {
		if ent.IsNotFound(err) {
			return fmt.Errorf("submission %s: %w", id, common.ErrNotFound)
		}
		r.logger.Error("failed to get submission", "submission_id", id, "error", err)
		return common.NewStorageError("get submission", err)
	}
	if sub.Status != string(constants.SubmissionStatusPending) {
		return common.NewValidationError(
			fmt.Sprintf("submission %s is %s, only pending submissions can be rejected", id, sub.Status))
	}

	update := r.client.Submission.UpdateOne(sub).
		SetStatus(string(constants.SubmissionStatusRejected)).
		SetReviewedBy(reviewer).
		SetReviewedAt(time.Now())
	if note != "" {
		update = update.SetReviewNote(note)
	}
	if _, err := update.Save(ctx); err != nil {
		r.logger.Error("failed to reject submission", "submission_id", id, "error", err)
		return common.NewStorageError("reject submission", err)
	}

	r.logger.Info("submission rejected", "submission_id", id, "reviewer", reviewer)
	return nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Submission, error) {
	row, err := r.client.Submission.Get(ctx, id)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, fmt.Errorf("submission %s: %w", id, common.ErrNotFound)
		}
		r.logger.Error("failed to get submission", "submission_id", id, "error", err)
		return nil, common.NewStorageError("get submission", err)
	}
	return utils.ToSubmission(row), nil
}

func (r *submissionRepository) ListByStatus(ctx context.Context, status string) ([]*entity.Submission, error) {
	q := r.client.Submission.Query()
	if status != "" {
		q = q.Where(submission.StatusEQ(status))
	}
	rows, err := q.Order(submission.ByCreatedAt()).All(ctx)
	if err != nil {
		r.logger.Error("failed to list submissions", "status", status, "error", err)
		return nil, common.NewStorageError("list submissions", err)
	}

	result := make([]*entity.Submission, len(rows))
	for i, row := range rows {
		result[i] = utils.ToSubmission(row)
	}
	return result, nil
}

// withTx runs fn in a transaction, rolling back on error or panic.
func withTx(ctx context.Context, client *ent.Client, fn func(tx *ent.Tx) error) error {
	tx, err := client.Tx(ctx)
	if err != nil {
		return common.NewStorageError("begin transaction", err)
	}
	defer func() {
		if v := recover(); v != nil {
			_ = tx.Rollback()
			panic(v)
		}
	}()
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			err = fmt.Errorf("%w: rolling back: %v", err, rerr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return common.NewStorageError("commit transaction", err)
	}
	return nil
}
