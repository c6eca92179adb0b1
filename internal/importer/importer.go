// Package importer drives batch import sessions: validate each record,
// check it against the catalog for duplicates, stage it as a submission and
// optionally auto-approve it into a live artwork. Sessions are strictly
// sequential; one bad record never blocks the rest.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/civicatlas/artcatalog/constants"
	"github.com/civicatlas/artcatalog/internal/dedupe"
	"github.com/civicatlas/artcatalog/internal/entity"
)

// DuplicateChecker is the decision engine dependency.
type DuplicateChecker interface {
	CheckRecord(ctx context.Context, record *entity.ImportRecord) (*dedupe.MatchResult, error)
}

// SubmissionStore stages and approves submissions.
type SubmissionStore interface {
	Create(ctx context.Context, submission *entity.Submission) (*entity.Submission, error)
	// Approve converts a pending submission into a live approved artwork
	// and returns the new artwork ID.
	Approve(ctx context.Context, id uuid.UUID, reviewer, note string) (uuid.UUID, error)
}

// ArtistDirectory resolves artists by exact name and creates missing ones.
type ArtistDirectory interface {
	// FindByName does a case-insensitive exact match; (nil, nil) when absent.
	FindByName(ctx context.Context, name string) (*entity.Artist, error)
	Create(ctx context.Context, artist *entity.Artist) (*entity.Artist, error)
}

// AuditSink records audit trail events.
type AuditSink interface {
	Record(ctx context.Context, entityType, entityID, action string, metadata map[string]any) error
}

// BatchImporter runs import sessions against one catalog.
type BatchImporter struct {
	config      Config
	checker     DuplicateChecker
	submissions SubmissionStore
	artists     ArtistDirectory
	audit       AuditSink
	logger      *slog.Logger
}

// NewBatchImporter wires a session runner. A nil logger falls back to
// slog.Default().
func NewBatchImporter(
	config Config,
	checker DuplicateChecker,
	submissions SubmissionStore,
	artists ArtistDirectory,
	audit AuditSink,
	logger *slog.Logger,
) *BatchImporter {
	if logger == nil {
		logger = slog.Default()
	}
	if config.StorageTimeout <= 0 {
		config.StorageTimeout = 10 * time.Second
	}
	return &BatchImporter{
		config:      config,
		checker:     checker,
		submissions: submissions,
		artists:     artists,
		audit:       audit,
		logger:      logger,
	}
}

// Run processes records in submission order and returns the session result.
// Per-record failures are downgraded into the result; only an invalid
// configuration returns a non-nil error, before any record is touched.
func (b *BatchImporter) Run(ctx context.Context, records []entity.ImportRecord) (*Result, error) {
	if err := b.config.Validate(); err != nil {
		return nil, err
	}

	sessionID := uuid.New()
	start := time.Now()
	result := &Result{TotalRecords: len(records)}

	b.logger.Info("import session start",
		"session_id", sessionID,
		"source", b.config.SourceName,
		"records", len(records),
		"batch_size", b.config.BatchSize,
		"dry_run", b.config.DryRun,
		"auto_approve", b.config.AutoApprove,
	)

	for batchStart := 0; batchStart < len(records); batchStart += b.config.BatchSize {
		batchEnd := batchStart + b.config.BatchSize
		if batchEnd > len(records) {
			batchEnd = len(records)
		}
		for i := batchStart; i < batchEnd; i++ {
			b.processRecord(ctx, &records[i], result)
		}
		b.logger.Debug("batch complete",
			"session_id", sessionID,
			"from", batchStart, "to", batchEnd,
			"succeeded", result.SuccessfulImports,
			"failed", result.FailedImports,
		)
	}

	result.ProcessingTime = time.Since(start)
	b.recordSessionAudit(ctx, sessionID, result)

	b.logger.Info("import session complete",
		"session_id", sessionID,
		"total", result.TotalRecords,
		"succeeded", result.SuccessfulImports,
		"duplicates_skipped", result.DuplicatesSkipped,
		"failed", result.FailedImports,
		"elapsed_ms", result.ProcessingTime.Milliseconds(),
	)
	return result, nil
}

// processRecord walks one record through validate, duplicate check, and the
// entity pipeline. Every failure is absorbed into the result.
func (b *BatchImporter) processRecord(ctx context.Context, record *entity.ImportRecord, result *Result) {
	// 1) validation is synchronous and pure
	if err := ValidateRecord(record); err != nil {
		b.logger.Warn("import.validate.failed", "source_id", recordLabel(record), "err", err)
		result.recordFailure(recordLabel(record), err)
		return
	}

	// 2) duplicate check against the catalog
	if b.config.SkipDuplicates {
		match, err := b.checkDuplicate(ctx, record)
		if err != nil {
			b.logger.Warn("import.duplicate_check.failed", "source_id", record.SourceID, "err", err)
			result.recordFailure(record.SourceID, err)
			return
		}
		if match.IsDuplicate {
			result.DuplicatesSkipped++
			b.logger.Info("duplicate skipped",
				"source_id", record.SourceID,
				"artwork_id", match.ArtworkID,
				"confidence", match.Confidence,
				"distance_m", match.DistanceMeters,
			)
			return
		}
	}

	// 3) dry run stops before any write
	if b.config.DryRun {
		result.SuccessfulImports++
		return
	}

	// 4) entity pipeline: artist -> submission -> optional approval
	if err := b.createEntities(ctx, record, result); err != nil {
		result.recordFailure(record.SourceID, err)
		return
	}
	result.SuccessfulImports++
}

func (b *BatchImporter) checkDuplicate(ctx context.Context, record *entity.ImportRecord) (*dedupe.MatchResult, error) {
	opCtx, cancel := context.WithTimeout(ctx, b.config.StorageTimeout)
	defer cancel()
	return b.checker.CheckRecord(opCtx, record)
}

func (b *BatchImporter) createEntities(ctx context.Context, record *entity.ImportRecord, result *Result) error {
	var artistID *uuid.UUID
	if name := strings.TrimSpace(record.ArtistName); name != "" {
		artist, err := b.resolveArtist(ctx, name, result)
		if err != nil {
			b.logger.Warn("import.artist.failed", "source_id", record.SourceID, "artist", name, "err", err)
			return err
		}
		if artist != nil {
			artistID = &artist.ID
		}
	}

	submission, err := b.createSubmission(ctx, record, artistID)
	if err != nil {
		b.logger.Warn("import.submission.failed", "source_id", record.SourceID, "err", err)
		return err
	}
	result.CreatedSubmissionIDs = append(result.CreatedSubmissionIDs, submission.ID)

	if b.config.AutoApprove {
		artworkID, err := b.approveSubmission(ctx, submission.ID)
		if err != nil {
			b.logger.Warn("import.approve.failed",
				"source_id", record.SourceID, "submission_id", submission.ID, "err", err)
			return err
		}
		result.CreatedArtworkIDs = append(result.CreatedArtworkIDs, artworkID)
	}
	return nil
}

// resolveArtist finds the artist by case-insensitive exact name, creating a
// pending one when absent and artist creation is enabled. Returns (nil, nil)
// when the submission should proceed without an artist link.
func (b *BatchImporter) resolveArtist(ctx context.Context, name string, result *Result) (*entity.Artist, error) {
	findCtx, cancel := context.WithTimeout(ctx, b.config.StorageTimeout)
	defer cancel()

	artist, err := b.artists.FindByName(findCtx, name)
	if err != nil {
		return nil, fmt.Errorf("find artist: %w", err)
	}
	if artist != nil {
		return artist, nil
	}
	if !b.config.CreateArtists {
		return nil, nil
	}

	createCtx, cancelCreate := context.WithTimeout(ctx, b.config.StorageTimeout)
	defer cancelCreate()

	created, err := b.artists.Create(createCtx, &entity.Artist{
		Name:   name,
		Status: string(constants.ArtistStatusPending),
	})
	if err != nil {
		return nil, fmt.Errorf("create artist: %w", err)
	}
	result.CreatedArtistIDs = append(result.CreatedArtistIDs, created.ID)
	return created, nil
}

func (b *BatchImporter) createSubmission(ctx context.Context, record *entity.ImportRecord, artistID *uuid.UUID) (*entity.Submission, error) {
	opCtx, cancel := context.WithTimeout(ctx, b.config.StorageTimeout)
	defer cancel()

	created, err := b.submissions.Create(opCtx, &entity.Submission{
		ArtistID:     artistID,
		Title:        record.Title,
		ArtistName:   record.ArtistName,
		Description:  record.Description,
		YearCreated:  record.YearCreated,
		Medium:       record.Medium,
		Dimensions:   record.Dimensions,
		Lat:          record.Lat,
		Lon:          record.Lon,
		Address:      record.Address,
		Neighborhood: record.Neighborhood,
		City:         record.City,
		Region:       record.Region,
		Country:      record.Country,
		Photos:       record.Photos,
		Tags:         record.Tags,
		SourceType:   record.SourceType,
		SourceID:     record.SourceID,
		SourceName:   b.config.SourceName,
		SubmittedBy:  b.config.ImporterIdentity,
		Status:       string(constants.SubmissionStatusPending),
	})
	if err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}
	return created, nil
}

func (b *BatchImporter) approveSubmission(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	opCtx, cancel := context.WithTimeout(ctx, b.config.StorageTimeout)
	defer cancel()

	artworkID, err := b.submissions.Approve(opCtx, id, b.config.ImporterIdentity, "auto-approved on import")
	if err != nil {
		return uuid.Nil, fmt.Errorf("approve submission: %w", err)
	}
	return artworkID, nil
}

// recordSessionAudit writes the single session summary event. Dry runs log
// the summary instead of writing it; a failed write degrades to a warning.
func (b *BatchImporter) recordSessionAudit(ctx context.Context, sessionID uuid.UUID, result *Result) {
	if b.config.DryRun {
		b.logger.Info("dry run, session audit event not recorded", "session_id", sessionID)
		return
	}

	opCtx, cancel := context.WithTimeout(ctx, b.config.StorageTimeout)
	defer cancel()

	metadata := map[string]any{
		"source_name":        b.config.SourceName,
		"importer":           b.config.ImporterIdentity,
		"auto_approve":       b.config.AutoApprove,
		"skip_duplicates":    b.config.SkipDuplicates,
		"batch_size":         b.config.BatchSize,
		"radius_m":           b.config.DuplicateCheckRadius,
		"total_records":      result.TotalRecords,
		"successful_imports": result.SuccessfulImports,
		"duplicates_skipped": result.DuplicatesSkipped,
		"failed_imports":     result.FailedImports,
		"processing_ms":      result.ProcessingTime.Milliseconds(),
	}
	if err := b.audit.Record(opCtx, "import_session", sessionID.String(), "import.completed", metadata); err != nil {
		b.logger.Warn("import.audit.failed", "session_id", sessionID, "err", err)
		result.addWarning("session audit event not recorded: %v", err)
	}
}
