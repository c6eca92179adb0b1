package export

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/civicatlas/artcatalog/constants"
	"github.com/civicatlas/artcatalog/internal/entity"
	"github.com/civicatlas/artcatalog/internal/geo"
)

type fakeArtworkStore struct {
	rows []*entity.Artwork
	err  error
}

func (f *fakeArtworkStore) ListApprovedInBox(context.Context, geo.BoundingBox) ([]entity.CandidateArtwork, error) {
	return nil, nil
}

func (f *fakeArtworkStore) GetByID(context.Context, uuid.UUID) (*entity.Artwork, error) {
	return nil, nil
}

func (f *fakeArtworkStore) ListByStatus(context.Context, string) ([]*entity.Artwork, error) {
	return f.rows, f.err
}

func (f *fakeArtworkStore) CountBySource(context.Context) (map[string]int, error) {
	return nil, nil
}

func (f *fakeArtworkStore) CreateFromSubmission(context.Context, *entity.Submission) (*entity.Artwork, error) {
	return nil, nil
}

func artworkAt(title string, created time.Time) *entity.Artwork {
	year := 1998
	return &entity.Artwork{
		ID:          uuid.New(),
		Title:       title,
		ArtistName:  "Maya Delgado",
		YearCreated: &year,
		Medium:      "bronze",
		Lat:         45.5231,
		Lon:         -122.6765,
		Address:     "100 Plaza Way",
		City:        "Portland",
		Status:      string(constants.ArtworkStatusApproved),
		SourceType:  string(constants.SourceOSMImport),
		SourceID:    "node/1",
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func TestExportArtworksXLSX(t *testing.T) {
	store := &fakeArtworkStore{rows: []*entity.Artwork{
		artworkAt("Bronze Horse", time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)),
		artworkAt("Waterfront Mural", time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)),
	}}
	svc := NewService(store, nil)

	out, err := svc.ExportArtworksXLSX(context.Background(), "", nil, nil)
	require.NoError(t, err)
	require.NotEmpty(t, out)

	wb, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Artworks")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Title", rows[0][0])
	assert.Equal(t, "Bronze Horse", rows[1][0])
	assert.Equal(t, "Maya Delgado", rows[1][1])
	assert.Equal(t, "2025-03-10", rows[1][11])
	assert.Equal(t, "Waterfront Mural", rows[2][0])
}

func TestExportArtworksXLSXWindow(t *testing.T) {
	store := &fakeArtworkStore{rows: []*entity.Artwork{
		artworkAt("Bronze Horse", time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)),
		artworkAt("Waterfront Mural", time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)),
	}}
	svc := NewService(store, nil)

	from := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	out, err := svc.ExportArtworksXLSX(context.Background(), "", &from, &to)
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Artworks")
	require.NoError(t, err)
	// header plus the one row inside the window; the to date is inclusive
	require.Len(t, rows, 2)
	assert.Equal(t, "Waterfront Mural", rows[1][0])
}

func TestExportArtworksXLSXStoreError(t *testing.T) {
	svc := NewService(&fakeArtworkStore{err: errors.New("connection refused")}, nil)

	_, err := svc.ExportArtworksXLSX(context.Background(), "", nil, nil)
	assert.ErrorContains(t, err, "query artworks")
}
