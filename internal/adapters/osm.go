package adapters

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/civicatlas/artcatalog/constants"
	"github.com/civicatlas/artcatalog/internal/entity"
)

// osmNode is one node from an OpenStreetMap artwork export
// (tourism=artwork nodes with their tag map).
type osmNode struct {
	ID   int64             `json:"id"`
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Tags map[string]string `json:"tags"`
}

// buildOSMSchema returns the JSON-Schema (draft 2020-12 subset) for an OSM
// node export as a generic map.
func buildOSMSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"id", "lat", "lon", "tags"},
		"properties": map[string]any{
			"id":  map[string]any{"type": "integer", "minimum": 1},
			"lat": latProp(),
			"lon": lonProp(),
			"tags": map[string]any{
				"type":     "object",
				"required": []string{"name"},
				"properties": map[string]any{
					"name": map[string]any{"type": "string", "minLength": 1},
				},
				"additionalProperties": map[string]any{"type": "string"},
			},
		},
	}
}

func newOSMAdapter() (Adapter, error) {
	schema, err := compileSchema("osm-node.json", buildOSMSchema())
	if err != nil {
		return nil, err
	}
	return func(payload []byte) (*entity.ImportRecord, error) {
		if err := validatePayload(schema, payload); err != nil {
			return nil, err
		}
		var node osmNode
		if err := json.Unmarshal(payload, &node); err != nil {
			return nil, fmt.Errorf("decode osm node: %w", err)
		}

		record := &entity.ImportRecord{
			SourceID:   fmt.Sprintf("node/%d", node.ID),
			SourceType: string(constants.SourceOSMImport),
			Title:      node.Tags["name"],
			ArtistName: node.Tags["artist_name"],
			Medium:     node.Tags["material"],
			Lat:        node.Lat,
			Lon:        node.Lon,
			Tags:       node.Tags,
			Metadata:   map[string]any{"osm_id": node.ID},
		}
		if y := parseYear(node.Tags["start_date"]); y != nil {
			record.YearCreated = y
		}
		if v, ok := node.Tags["image"]; ok && v != "" {
			record.Photos = []string{v}
		}
		return record, nil
	}, nil
}

// parseYear extracts a four digit year from values like "1978" or
// "1978-05-01". Returns nil when no leading year is present.
func parseYear(s string) *int {
	s = strings.TrimSpace(s)
	if len(s) > 4 {
		s = s[:4]
	}
	if len(s) != 4 {
		return nil
	}
	y, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &y
}
