package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/civicatlas/artcatalog/constants"
	"github.com/civicatlas/artcatalog/internal/entity"
)

// apiRow is one row from a municipal open-data artwork export.
type apiRow struct {
	RecordID    string `json:"record_id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Year        *int   `json:"year"`
	Medium      string `json:"medium"`
	Dimensions  string `json:"dimensions"`
	Description string `json:"description"`
	Location    struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
	Address      string            `json:"address"`
	Neighborhood string            `json:"neighborhood"`
	City         string            `json:"city"`
	Region       string            `json:"region"`
	Country      string            `json:"country"`
	ImageURLs    []string          `json:"image_urls"`
	Tags         map[string]string `json:"tags"`
}

// buildAPISchema returns the JSON-Schema for a municipal open-data row as a
// generic map.
func buildAPISchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"record_id", "title", "location"},
		"properties": map[string]any{
			"record_id":   map[string]any{"type": "string", "minLength": 1},
			"title":       map[string]any{"type": "string", "minLength": 1},
			"artist":      map[string]any{"type": "string"},
			"year":        map[string]any{"type": "integer"},
			"medium":      map[string]any{"type": "string"},
			"dimensions":  map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
			"location": map[string]any{
				"type":     "object",
				"required": []string{"latitude", "longitude"},
				"properties": map[string]any{
					"latitude":  latProp(),
					"longitude": lonProp(),
				},
			},
			"address":      map[string]any{"type": "string"},
			"neighborhood": map[string]any{"type": "string"},
			"city":         map[string]any{"type": "string"},
			"region":       map[string]any{"type": "string"},
			"country":      map[string]any{"type": "string"},
			"image_urls":   photosProp(),
			"tags":         stringTagsProp(),
		},
	}
}

func newAPIAdapter() (Adapter, error) {
	schema, err := compileSchema("api-row.json", buildAPISchema())
	if err != nil {
		return nil, err
	}
	return func(payload []byte) (*entity.ImportRecord, error) {
		if err := validatePayload(schema, payload); err != nil {
			return nil, err
		}
		var row apiRow
		if err := json.Unmarshal(payload, &row); err != nil {
			return nil, fmt.Errorf("decode api row: %w", err)
		}

		return &entity.ImportRecord{
			SourceID:     row.RecordID,
			SourceType:   string(constants.SourceAPIImport),
			Title:        row.Title,
			ArtistName:   row.Artist,
			YearCreated:  row.Year,
			Medium:       row.Medium,
			Dimensions:   row.Dimensions,
			Description:  row.Description,
			Lat:          row.Location.Latitude,
			Lon:          row.Location.Longitude,
			Address:      row.Address,
			Neighborhood: row.Neighborhood,
			City:         row.City,
			Region:       row.Region,
			Country:      row.Country,
			Photos:       row.ImageURLs,
			Tags:         row.Tags,
		}, nil
	}, nil
}
