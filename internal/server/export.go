package server

import (
	"context"
	"log/slog"
	"strings"
	"time"

	catalogpb "github.com/civicatlas/artcatalog/gen/proto/artcatalog/v1"

	"github.com/civicatlas/artcatalog/constants"
	"github.com/civicatlas/artcatalog/internal/common"
	"github.com/civicatlas/artcatalog/internal/export"
)

type ExportServer struct {
	catalogpb.UnimplementedExportServiceServer
	svc    *export.Service
	logger *slog.Logger
}

func NewExportServer(svc *export.Service, logger *slog.Logger) *ExportServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportServer{svc: svc, logger: logger}
}

func (s *ExportServer) ExportArtworks(ctx context.Context, req *catalogpb.ExportArtworksRequest) (*catalogpb.ExportArtworksResponse, error) {
	status, err := normalizeStatus(req.GetStatus(), constants.ArtworkStatuses)
	if err != nil {
		return nil, err
	}

	var fromPtr, toPtr *time.Time
	if fd := strings.TrimSpace(req.GetFromDate()); fd != "" {
		t, err := time.Parse("2006-01-02", fd)
		if err != nil {
			return nil, common.InvalidArgumentError("from_date must be YYYY-MM-DD")
		}
		fromPtr = &t
	}
	if td := strings.TrimSpace(req.GetToDate()); td != "" {
		t, err := time.Parse("2006-01-02", td)
		if err != nil {
			return nil, common.InvalidArgumentError("to_date must be YYYY-MM-DD")
		}
		toPtr = &t
	}

	xlsx, err := s.svc.ExportArtworksXLSX(ctx, status, fromPtr, toPtr)
	if err != nil {
		s.logger.Error("export.xlsx.failed", "status", status, "err", err)
		return nil, common.InternalError(err.Error())
	}

	return &catalogpb.ExportArtworksResponse{Xlsx: xlsx}, nil
}
