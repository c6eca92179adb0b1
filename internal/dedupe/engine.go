package dedupe

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/civicatlas/artcatalog/internal/entity"
)

// Default decision thresholds. The locate radius bounds the candidate
// search; the distance cutoff is the much tighter bound a confirmed
// duplicate must also satisfy.
const (
	DefaultConfidenceThreshold = 0.70
	DefaultDistanceCutoff      = 50.0
	DefaultLocateRadius        = 500.0
)

// Thresholds parameterize the duplicate decision. Zero values fall back to
// the package defaults.
type Thresholds struct {
	Confidence     float64
	DistanceCutoff float64
	LocateRadius   float64
}

// DefaultThresholds returns the stock decision thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Confidence:     DefaultConfidenceThreshold,
		DistanceCutoff: DefaultDistanceCutoff,
		LocateRadius:   DefaultLocateRadius,
	}
}

// MatchResult is the outcome of checking one inbound record against the
// catalog. ArtworkID and the score describe the best candidate even when
// the record is not judged a duplicate.
type MatchResult struct {
	IsDuplicate       bool      `json:"is_duplicate"`
	Confidence        float64   `json:"confidence"`
	Score             Score     `json:"score"`
	ArtworkID         uuid.UUID `json:"artwork_id,omitempty"`
	DistanceMeters    float64   `json:"distance_meters"`
	CandidatesChecked int       `json:"candidates_checked"`
}

// Engine decides whether an inbound record duplicates a cataloged artwork.
type Engine struct {
	locator    *Locator
	thresholds Thresholds
	logger     *slog.Logger
}

// NewEngine creates an Engine. A nil logger falls back to slog.Default().
func NewEngine(locator *Locator, thresholds Thresholds, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if thresholds.Confidence <= 0 {
		thresholds.Confidence = DefaultConfidenceThreshold
	}
	if thresholds.DistanceCutoff <= 0 {
		thresholds.DistanceCutoff = DefaultDistanceCutoff
	}
	if thresholds.LocateRadius <= 0 {
		thresholds.LocateRadius = DefaultLocateRadius
	}
	return &Engine{locator: locator, thresholds: thresholds, logger: logger}
}

// LocateRadius returns the candidate search radius in meters.
func (e *Engine) LocateRadius() float64 {
	return e.thresholds.LocateRadius
}

// CheckRecord scores the record against every nearby approved artwork and
// keeps the single best match. Ties on confidence go to the closer
// candidate. A record is a duplicate only when the best confidence meets
// the threshold and the true distance is within the hard cutoff.
func (e *Engine) CheckRecord(ctx context.Context, record *entity.ImportRecord) (*MatchResult, error) {
	candidates, err := e.locator.QueryNear(ctx, record.Lat, record.Lon, e.thresholds.LocateRadius)
	if err != nil {
		return nil, err
	}

	result := &MatchResult{CandidatesChecked: len(candidates)}
	if len(candidates) == 0 {
		return result, nil
	}

	best := -1
	var bestScore Score
	var bestDistance float64
	for i, candidate := range candidates {
		score, distance := ScoreCandidate(record, candidate, e.thresholds.LocateRadius)
		if best < 0 || score.Confidence > bestScore.Confidence ||
			(score.Confidence == bestScore.Confidence && distance < bestDistance) {
			best = i
			bestScore = score
			bestDistance = distance
		}
	}

	result.Confidence = bestScore.Confidence
	result.Score = bestScore
	result.ArtworkID = candidates[best].ID
	result.DistanceMeters = bestDistance
	result.IsDuplicate = bestScore.Confidence >= e.thresholds.Confidence &&
		bestDistance <= e.thresholds.DistanceCutoff

	e.logger.Debug("duplicate check complete",
		"source_id", record.SourceID,
		"candidates_checked", result.CandidatesChecked,
		"best_artwork_id", result.ArtworkID,
		"confidence", result.Confidence,
		"distance_m", result.DistanceMeters,
		"is_duplicate", result.IsDuplicate)

	return result, nil
}
