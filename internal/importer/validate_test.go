package importer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicatlas/artcatalog/internal/common"
	"github.com/civicatlas/artcatalog/internal/entity"
)

func TestValidateRecord(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *entity.ImportRecord)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(r *entity.ImportRecord) {},
		},
		{
			name:    "blank source id",
			mutate:  func(r *entity.ImportRecord) { r.SourceID = " " },
			wantErr: "source_id",
		},
		{
			name:    "blank title",
			mutate:  func(r *entity.ImportRecord) { r.Title = "\t" },
			wantErr: "title",
		},
		{
			name:    "latitude out of range",
			mutate:  func(r *entity.ImportRecord) { r.Lat = 90.0001 },
			wantErr: "coordinates",
		},
		{
			name:    "longitude out of range",
			mutate:  func(r *entity.ImportRecord) { r.Lon = -180.5 },
			wantErr: "coordinates",
		},
		{
			name:    "latitude not a number",
			mutate:  func(r *entity.ImportRecord) { r.Lat = math.NaN() },
			wantErr: "coordinates",
		},
		{
			name:    "unknown source type",
			mutate:  func(r *entity.ImportRecord) { r.SourceType = "fax-machine" },
			wantErr: "source type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := validRecord("node/1", "Bronze Horse")
			tt.mutate(&record)

			err := ValidateRecord(&record)

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, common.ErrValidation)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateRecordNil(t *testing.T) {
	err := ValidateRecord(nil)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestRecordLabel(t *testing.T) {
	record := validRecord("node/9", "Bronze Horse")
	assert.Equal(t, "node/9", recordLabel(&record))

	record.SourceID = ""
	assert.Equal(t, "(no source id)", recordLabel(&record))

	assert.Equal(t, "(no source id)", recordLabel(nil))
}
