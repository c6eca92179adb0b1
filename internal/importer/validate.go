package importer

import (
	"fmt"
	"strings"

	"github.com/civicatlas/artcatalog/constants"
	"github.com/civicatlas/artcatalog/internal/common"
	"github.com/civicatlas/artcatalog/internal/entity"
	"github.com/civicatlas/artcatalog/internal/geo"
)

// ValidateRecord checks a canonical record before any candidate search or
// storage work. Pure; returns the first problem found.
func ValidateRecord(record *entity.ImportRecord) error {
	if record == nil {
		return common.NewValidationError("record is nil")
	}
	if strings.TrimSpace(record.SourceID) == "" {
		return common.NewValidationError("source_id is required")
	}
	if strings.TrimSpace(record.Title) == "" {
		return common.NewValidationError("title is required")
	}
	if !geo.ValidCoordinates(record.Lat, record.Lon) {
		return common.NewValidationError(
			fmt.Sprintf("coordinates out of range: lat=%v lon=%v", record.Lat, record.Lon))
	}
	if _, ok := constants.CanonicalizeSource(record.SourceType); !ok {
		return common.NewValidationError(fmt.Sprintf("unknown source type %q", record.SourceType))
	}
	return nil
}

// recordLabel names a record in error messages and logs.
func recordLabel(record *entity.ImportRecord) string {
	if record == nil || strings.TrimSpace(record.SourceID) == "" {
		return "(no source id)"
	}
	return record.SourceID
}
