package dedupe

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agext/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/civicatlas/artcatalog/internal/entity"
	"github.com/civicatlas/artcatalog/internal/geo"
)

// Confidence weights. Title dominates; tag overlap is reported in the
// breakdown but carries no weight.
const (
	weightTitle    = 0.40
	weightArtist   = 0.30
	weightLocation = 0.30
)

// Score is the per-candidate similarity breakdown. Every field is in [0, 1].
type Score struct {
	Title      float64 `json:"title"`
	Artist     float64 `json:"artist"`
	Location   float64 `json:"location"`
	Tags       float64 `json:"tags"`
	Confidence float64 `json:"confidence"`
}

// NormalizeText folds a display string into its comparison form: Unicode
// compatibility decomposition with combining marks stripped, lowercased,
// whitespace collapsed to single spaces.
func NormalizeText(s string) string {
	folder := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// StringSimilarity scores two strings as 1 - editDistance/maxRuneLength over
// their normalized forms. Equal normalized strings score 1.0; this includes
// the degenerate case where both are empty.
func StringSimilarity(a, b string) float64 {
	na := NormalizeText(a)
	nb := NormalizeText(b)
	if na == nb {
		return 1.0
	}

	denom := utf8.RuneCountInString(na)
	if lb := utf8.RuneCountInString(nb); lb > denom {
		denom = lb
	}

	dist := levenshtein.Distance(na, nb, nil)
	return math.Max(0, 1.0-float64(dist)/float64(denom))
}

// LocationScore maps a separation distance onto [0, 1] with linear decay:
// 1.0 at zero meters, 0 at radiusMeters and beyond.
func LocationScore(distanceMeters, radiusMeters float64) float64 {
	if radiusMeters <= 0 {
		return 0
	}
	if distanceMeters <= 0 {
		return 1
	}
	score := 1.0 - distanceMeters/radiusMeters
	if score < 0 {
		return 0
	}
	return score
}

// TagOverlap returns the share of key/value pairs present in both tag sets,
// measured against the smaller set. Zero when either set is empty.
func TagOverlap(a, b map[string]string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	shared := 0
	for k, v := range small {
		if lv, ok := large[k]; ok && lv == v {
			shared++
		}
	}
	return float64(shared) / float64(len(small))
}

// ScoreCandidate compares an inbound record against one catalog candidate
// and returns the similarity breakdown plus the true distance in meters.
// Deterministic for a given record, candidate and radius.
func ScoreCandidate(record *entity.ImportRecord, candidate entity.CandidateArtwork, radiusMeters float64) (Score, float64) {
	distance := geo.Haversine(record.Lat, record.Lon, candidate.Lat, candidate.Lon)

	score := Score{
		Title:    StringSimilarity(record.Title, candidate.Title),
		Artist:   StringSimilarity(record.ArtistName, candidate.ArtistName),
		Location: LocationScore(distance, radiusMeters),
		Tags:     TagOverlap(record.Tags, candidate.Tags),
	}
	score.Confidence = weightTitle*score.Title + weightArtist*score.Artist + weightLocation*score.Location
	return score, distance
}
