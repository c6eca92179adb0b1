package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/civicatlas/artcatalog/constants"
	"github.com/civicatlas/artcatalog/internal/entity"
)

// buildManualSchema returns the JSON-Schema for the manual entry form
// payload. The form emits the canonical record shape directly.
func buildManualSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"source_id", "title", "lat", "lon"},
		"properties": map[string]any{
			"source_id":    map[string]any{"type": "string", "minLength": 1},
			"title":        map[string]any{"type": "string", "minLength": 1},
			"artist_name":  map[string]any{"type": "string"},
			"year_created": map[string]any{"type": "integer"},
			"medium":       map[string]any{"type": "string"},
			"dimensions":   map[string]any{"type": "string"},
			"description":  map[string]any{"type": "string"},
			"lat":          latProp(),
			"lon":          lonProp(),
			"address":      map[string]any{"type": "string"},
			"neighborhood": map[string]any{"type": "string"},
			"city":         map[string]any{"type": "string"},
			"region":       map[string]any{"type": "string"},
			"country":      map[string]any{"type": "string"},
			"photos":       photosProp(),
			"tags":         stringTagsProp(),
		},
	}
}

func newManualAdapter() (Adapter, error) {
	schema, err := compileSchema("manual-entry.json", buildManualSchema())
	if err != nil {
		return nil, err
	}
	return func(payload []byte) (*entity.ImportRecord, error) {
		if err := validatePayload(schema, payload); err != nil {
			return nil, err
		}
		var record entity.ImportRecord
		if err := json.Unmarshal(payload, &record); err != nil {
			return nil, fmt.Errorf("decode manual entry: %w", err)
		}
		// The source type is fixed by the dispatch, never by the payload.
		record.SourceType = string(constants.SourceManualEntry)
		record.Metadata = nil
		return &record, nil
	}, nil
}
