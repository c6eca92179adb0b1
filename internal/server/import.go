// Package server exposes the catalog over gRPC. Services validate inputs,
// delegate to the importer and repositories, and convert rows through
// internal/utils. Storage and scoring failures are mapped onto gRPC status
// codes at this boundary.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	catalogpb "github.com/civicatlas/artcatalog/gen/proto/artcatalog/v1"
	"github.com/google/uuid"

	"github.com/civicatlas/artcatalog/constants"
	"github.com/civicatlas/artcatalog/internal/adapters"
	"github.com/civicatlas/artcatalog/internal/async"
	"github.com/civicatlas/artcatalog/internal/common"
	"github.com/civicatlas/artcatalog/internal/dedupe"
	"github.com/civicatlas/artcatalog/internal/entity"
	"github.com/civicatlas/artcatalog/internal/importer"
	"github.com/civicatlas/artcatalog/internal/repository"
)

type ImportServer struct {
	catalogpb.UnimplementedImportServiceServer
	registry    *adapters.Registry
	artworks    repository.ArtworkRepository
	submissions repository.SubmissionRepository
	artists     repository.ArtistRepository
	audit       repository.AuditRepository
	defaults    common.ImportConfig
	queue       *async.SessionQueue
	logger      *slog.Logger
}

func NewImportServer(
	registry *adapters.Registry,
	artworks repository.ArtworkRepository,
	submissions repository.SubmissionRepository,
	artists repository.ArtistRepository,
	audit repository.AuditRepository,
	defaults common.ImportConfig,
	logger *slog.Logger,
) *ImportServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImportServer{
		registry:    registry,
		artworks:    artworks,
		submissions: submissions,
		artists:     artists,
		audit:       audit,
		defaults:    defaults,
		queue:       async.NewSessionQueue(logger),
		logger:      logger,
	}
}

// Shutdown waits for queued import sessions to finish. Call after the gRPC
// server has stopped accepting requests.
func (s *ImportServer) Shutdown(ctx context.Context) {
	s.queue.Shutdown(ctx)
}

// ImportBatch decodes the raw records, runs one import session and returns
// the session result. Records that fail to decode are counted as failed
// imports; they never abort the batch.
func (s *ImportServer) ImportBatch(ctx context.Context, req *catalogpb.ImportBatchRequest) (*catalogpb.ImportBatchResponse, error) {
	sourceName := strings.TrimSpace(req.GetSourceName())
	if sourceName == "" {
		s.logger.Error("import batch request missing source_name")
		return nil, common.InvalidArgumentError("source_name is required")
	}

	config := importer.NewConfig(s.defaults, sourceName)
	config.AutoApprove = req.GetAutoApprove()
	config.DryRun = req.GetDryRun()
	if req.GetBatchSize() > 0 {
		config.BatchSize = int(req.GetBatchSize())
	}
	if req.GetDuplicateCheckRadiusM() > 0 {
		config.DuplicateCheckRadius = req.GetDuplicateCheckRadiusM()
	}
	if req.GetDisableDuplicateCheck() {
		config.SkipDuplicates = false
	}
	if req.GetDisableArtistCreation() {
		config.CreateArtists = false
	}
	if identity := strings.TrimSpace(req.GetImporterIdentity()); identity != "" {
		config.ImporterIdentity = identity
	}

	s.logger.Info("import batch request",
		"source", sourceName,
		"records", len(req.GetRecords()),
		"dry_run", config.DryRun,
		"auto_approve", config.AutoApprove,
	)

	records, decodeErrs := s.decodeRecords(req.GetRecords())

	engine := dedupe.NewEngine(
		dedupe.NewLocator(s.artworks, s.logger),
		dedupe.Thresholds{LocateRadius: config.DuplicateCheckRadius},
		s.logger,
	)
	imp := importer.NewBatchImporter(config, engine, s.submissions, s.artists, s.audit, s.logger)

	result, err := s.queue.RunSession(ctx, sourceName, imp, records)
	if err != nil {
		s.logger.Error("import batch rejected", "source", sourceName, "err", err)
		if errors.Is(err, async.ErrShuttingDown) {
			return nil, common.UnavailableError(err.Error())
		}
		return nil, common.GRPCStatusFromError(err)
	}

	resp := &catalogpb.ImportBatchResponse{
		TotalRecords:         int32(len(req.GetRecords())),
		SuccessfulImports:    int32(result.SuccessfulImports),
		DuplicatesSkipped:    int32(result.DuplicatesSkipped),
		FailedImports:        int32(result.FailedImports + len(decodeErrs)),
		CreatedArtworkIds:    uuidStrings(result.CreatedArtworkIDs),
		CreatedArtistIds:     uuidStrings(result.CreatedArtistIDs),
		CreatedSubmissionIds: uuidStrings(result.CreatedSubmissionIDs),
		Errors:               append(decodeErrs, result.Errors...),
		Warnings:             result.Warnings,
		ProcessingMs:         result.ProcessingTime.Milliseconds(),
	}
	return resp, nil
}

// decodeRecords converts raw payloads through the adapter registry. The
// returned error strings keep the batch position so callers can find the
// offending record.
func (s *ImportServer) decodeRecords(raw []*catalogpb.SourceRecord) ([]entity.ImportRecord, []string) {
	records := make([]entity.ImportRecord, 0, len(raw))
	var errs []string
	for i, r := range raw {
		source, ok := constants.CanonicalizeSource(r.GetSourceType())
		if !ok {
			s.logger.Error("import.decode.failed", "index", i, "source_type", r.GetSourceType(), "err", "unknown source type")
			errs = append(errs, fmt.Sprintf("record %d: unknown source type %q", i, r.GetSourceType()))
			continue
		}
		record, err := s.registry.Convert(source, r.GetPayload())
		if err != nil {
			s.logger.Error("import.decode.failed", "index", i, "source_type", r.GetSourceType(), "err", err)
			errs = append(errs, fmt.Sprintf("record %d: decode %s payload: %v", i, r.GetSourceType(), err))
			continue
		}
		records = append(records, *record)
	}
	return records, errs
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
