package dedupe

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/civicatlas/artcatalog/internal/entity"
	"github.com/civicatlas/artcatalog/internal/geo"
)

// maxCandidates caps a single proximity query so one dense plaza cannot
// drag a whole import session through hundreds of comparisons.
const maxCandidates = 50

// CandidateStore is the storage dependency of the Locator: a range scan
// over approved artworks inside a bounding box.
type CandidateStore interface {
	ListApprovedInBox(ctx context.Context, box geo.BoundingBox) ([]entity.CandidateArtwork, error)
}

// Locator finds approved artworks near a point. Read-only.
type Locator struct {
	store  CandidateStore
	logger *slog.Logger
}

// NewLocator creates a Locator. A nil logger falls back to slog.Default().
func NewLocator(store CandidateStore, logger *slog.Logger) *Locator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Locator{store: store, logger: logger}
}

// QueryNear returns approved artworks within radiusMeters of (lat, lon),
// nearest first, capped at maxCandidates. The bounding box narrows the scan;
// the haversine filter removes box corners that fall outside the circle.
func (l *Locator) QueryNear(ctx context.Context, lat, lon, radiusMeters float64) ([]entity.CandidateArtwork, error) {
	box := geo.NewBoundingBox(lat, lon, radiusMeters)

	rows, err := l.store.ListApprovedInBox(ctx, box)
	if err != nil {
		l.logger.Error("failed to scan candidates in bounding box",
			"lat", lat, "lon", lon, "radius_m", radiusMeters, "error", err)
		return nil, fmt.Errorf("list candidates in box: %w", err)
	}

	type ranked struct {
		candidate entity.CandidateArtwork
		proxy     float64
	}
	within := make([]ranked, 0, len(rows))
	for _, c := range rows {
		if geo.Haversine(lat, lon, c.Lat, c.Lon) > radiusMeters {
			continue
		}
		within = append(within, ranked{
			candidate: c,
			proxy:     geo.PlanarProxy(lat, lon, c.Lat, c.Lon),
		})
	}

	sort.Slice(within, func(i, j int) bool { return within[i].proxy < within[j].proxy })
	if len(within) > maxCandidates {
		within = within[:maxCandidates]
	}

	out := make([]entity.CandidateArtwork, len(within))
	for i, r := range within {
		out[i] = r.candidate
	}
	return out, nil
}
