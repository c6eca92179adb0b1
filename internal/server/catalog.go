package server

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	catalogpb "github.com/civicatlas/artcatalog/gen/proto/artcatalog/v1"
	"github.com/google/uuid"

	"github.com/civicatlas/artcatalog/constants"
	"github.com/civicatlas/artcatalog/internal/common"
	"github.com/civicatlas/artcatalog/internal/repository"
	"github.com/civicatlas/artcatalog/internal/utils"
)

type CatalogServer struct {
	catalogpb.UnimplementedCatalogServiceServer
	artworks    repository.ArtworkRepository
	artists     repository.ArtistRepository
	submissions repository.SubmissionRepository
	logger      *slog.Logger
}

func NewCatalogServer(
	artworks repository.ArtworkRepository,
	artists repository.ArtistRepository,
	submissions repository.SubmissionRepository,
	logger *slog.Logger,
) *CatalogServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogServer{
		artworks:    artworks,
		artists:     artists,
		submissions: submissions,
		logger:      logger,
	}
}

func (s *CatalogServer) ListArtworks(ctx context.Context, req *catalogpb.ListArtworksRequest) (*catalogpb.ListArtworksResponse, error) {
	status, err := normalizeStatus(req.GetStatus(), constants.ArtworkStatuses)
	if err != nil {
		return nil, err
	}

	rows, err := s.artworks.ListByStatus(ctx, status)
	if err != nil {
		s.logger.Error("failed to list artworks", "status", status, "error", err)
		return nil, common.GRPCStatusFromError(err)
	}

	out := make([]*catalogpb.Artwork, 0, len(rows))
	for _, a := range rows {
		out = append(out, utils.ToPBArtwork(a))
	}
	return &catalogpb.ListArtworksResponse{Artworks: out}, nil
}

func (s *CatalogServer) GetArtwork(ctx context.Context, req *catalogpb.GetArtworkRequest) (*catalogpb.GetArtworkResponse, error) {
	id, err := uuid.Parse(strings.TrimSpace(req.GetId()))
	if err != nil {
		s.logger.Error("invalid id format for get artwork", "id", req.GetId(), "error", err)
		return nil, common.InvalidArgumentError("id must be a UUID")
	}

	a, err := s.artworks.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get artwork", "id", id, "error", err)
		return nil, common.GRPCStatusFromError(err)
	}
	return &catalogpb.GetArtworkResponse{Artwork: utils.ToPBArtwork(a)}, nil
}

func (s *CatalogServer) ListArtists(ctx context.Context, _ *catalogpb.ListArtistsRequest) (*catalogpb.ListArtistsResponse, error) {
	rows, err := s.artists.List(ctx)
	if err != nil {
		s.logger.Error("failed to list artists", "error", err)
		return nil, common.GRPCStatusFromError(err)
	}

	out := make([]*catalogpb.Artist, 0, len(rows))
	for _, a := range rows {
		out = append(out, utils.ToPBArtist(a))
	}
	return &catalogpb.ListArtistsResponse{Artists: out}, nil
}

func (s *CatalogServer) ListSubmissions(ctx context.Context, req *catalogpb.ListSubmissionsRequest) (*catalogpb.ListSubmissionsResponse, error) {
	status, err := normalizeStatus(req.GetStatus(), constants.SubmissionStatuses)
	if err != nil {
		return nil, err
	}

	rows, err := s.submissions.ListByStatus(ctx, status)
	if err != nil {
		s.logger.Error("failed to list submissions", "status", status, "error", err)
		return nil, common.GRPCStatusFromError(err)
	}

	out := make([]*catalogpb.Submission, 0, len(rows))
	for _, sub := range rows {
		out = append(out, utils.ToPBSubmission(sub))
	}
	return &catalogpb.ListSubmissionsResponse{Submissions: out}, nil
}

// ReviewSubmission closes a pending submission. Approval promotes it into
// a live artwork atomically; rejection just marks it closed.
func (s *CatalogServer) ReviewSubmission(ctx context.Context, req *catalogpb.ReviewSubmissionRequest) (*catalogpb.ReviewSubmissionResponse, error) {
	id, err := uuid.Parse(strings.TrimSpace(req.GetId()))
	if err != nil {
		s.logger.Error("invalid id format for review submission", "id", req.GetId(), "error", err)
		return nil, common.InvalidArgumentError("id must be a UUID")
	}
	reviewer := strings.TrimSpace(req.GetReviewer())
	if reviewer == "" {
		s.logger.Error("review submission request missing reviewer", "id", id)
		return nil, common.InvalidArgumentError("reviewer is required")
	}

	decision := strings.ToLower(strings.TrimSpace(req.GetDecision()))
	switch decision {
	case "approve":
		artworkID, err := s.submissions.Approve(ctx, id, reviewer, req.GetNote())
		if err != nil {
			s.logger.Error("failed to approve submission", "id", id, "reviewer", reviewer, "error", err)
			return nil, common.GRPCStatusFromError(err)
		}
		s.logger.Info("submission reviewed", "id", id, "decision", decision, "artwork_id", artworkID)
		return &catalogpb.ReviewSubmissionResponse{ArtworkId: artworkID.String()}, nil
	case "reject":
		if err := s.submissions.Reject(ctx, id, reviewer, req.GetNote()); err != nil {
			s.logger.Error("failed to reject submission", "id", id, "reviewer", reviewer, "error", err)
			return nil, common.GRPCStatusFromError(err)
		}
		s.logger.Info("submission reviewed", "id", id, "decision", decision)
		return &catalogpb.ReviewSubmissionResponse{}, nil
	default:
		return nil, common.InvalidArgumentError(`decision must be "approve" or "reject"`)
	}
}

// normalizeStatus uppercases a status filter and checks it against the
// allowed values. Empty means no filter.
func normalizeStatus(status string, allowed []string) (string, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if status == "" {
		return "", nil
	}
	if !slices.Contains(allowed, status) {
		return "", common.InvalidArgumentErrorf("status must be one of %s", strings.Join(allowed, ", "))
	}
	return status, nil
}
