package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/civicatlas/artcatalog/constants"
	"github.com/civicatlas/artcatalog/internal/entity"
)

// crowdSubmission is one entry from a crowdsourcing platform dump.
type crowdSubmission struct {
	SubmissionID string `json:"submission_id"`
	Title        string `json:"title"`
	Artist       *struct {
		Name string `json:"name"`
		Bio  string `json:"bio"`
	} `json:"artist"`
	Coordinates struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"coordinates"`
	Notes       string            `json:"notes"`
	YearCreated *int              `json:"year_created"`
	Photos      []string          `json:"photos"`
	Tags        map[string]string `json:"tags"`
	SubmittedBy string            `json:"submitted_by"`
}

// buildCrowdSchema returns the JSON-Schema for a crowd platform dump entry
// as a generic map.
func buildCrowdSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"submission_id", "title", "coordinates"},
		"properties": map[string]any{
			"submission_id": map[string]any{"type": "string", "minLength": 1},
			"title":         map[string]any{"type": "string", "minLength": 1},
			"artist": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{"type": "string"},
					"bio":  map[string]any{"type": "string"},
				},
			},
			"coordinates": map[string]any{
				"type":     "object",
				"required": []string{"lat", "lng"},
				"properties": map[string]any{
					"lat": latProp(),
					"lng": lonProp(),
				},
			},
			"notes":        map[string]any{"type": "string"},
			"year_created": map[string]any{"type": "integer"},
			"photos":       photosProp(),
			"tags":         stringTagsProp(),
			"submitted_by": map[string]any{"type": "string"},
		},
	}
}

func newCrowdAdapter() (Adapter, error) {
	schema, err := compileSchema("crowd-submission.json", buildCrowdSchema())
	if err != nil {
		return nil, err
	}
	return func(payload []byte) (*entity.ImportRecord, error) {
		if err := validatePayload(schema, payload); err != nil {
			return nil, err
		}
		var sub crowdSubmission
		if err := json.Unmarshal(payload, &sub); err != nil {
			return nil, fmt.Errorf("decode crowd submission: %w", err)
		}

		record := &entity.ImportRecord{
			SourceID:    sub.SubmissionID,
			SourceType:  string(constants.SourceCrowdImport),
			Title:       sub.Title,
			Description: sub.Notes,
			YearCreated: sub.YearCreated,
			Lat:         sub.Coordinates.Lat,
			Lon:         sub.Coordinates.Lng,
			Photos:      sub.Photos,
			Tags:        sub.Tags,
		}
		if sub.Artist != nil {
			record.ArtistName = sub.Artist.Name
		}
		if sub.SubmittedBy != "" {
			record.Metadata = map[string]any{"submitted_by": sub.SubmittedBy}
		}
		return record, nil
	}, nil
}
