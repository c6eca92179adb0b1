package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/civicatlas/artcatalog/internal/entity"
	"github.com/civicatlas/artcatalog/internal/repository"
)

// Service is a tiny façade over the artwork store that produces XLSX bytes
// for catalog exports.
type Service struct {
	artworks repository.ArtworkRepository
	logger   *slog.Logger
}

func NewService(artworks repository.ArtworkRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{artworks: artworks, logger: logger}
}

// ExportArtworksXLSX returns an XLSX workbook (as bytes) of catalog rows.
// An empty status exports every artwork; from/to bound the created_at window
// (inclusive, date-only UTC).
func (s *Service) ExportArtworksXLSX(ctx context.Context, status string, from, to *time.Time) ([]byte, error) {
	start := time.Now()

	// Normalize dates (date-only, UTC)
	var fromDate, toDate *time.Time
	if from != nil {
		f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
		fromDate = &f
	}
	if to != nil {
		// end of day so the to date is inclusive
		t := time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 0, time.UTC)
		toDate = &t
	}

	rows, err := s.artworks.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("query artworks: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Artworks"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Title",
		"Artist",
		"Year",
		"Medium",
		"Latitude",
		"Longitude",
		"Address",
		"City",
		"Source",
		"Status",
		"Description",
		"Created",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	exported := 0
	for _, a := range rows {
		if !inWindow(a, fromDate, toDate) {
			continue
		}

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, a.Title)
		write(2, a.ArtistName)
		if a.YearCreated != nil {
			write(3, *a.YearCreated)
		} else {
			write(3, "")
		}
		write(4, a.Medium)
		write(5, a.Lat)
		write(6, a.Lon)
		write(7, a.Address)
		write(8, a.City)
		write(9, a.SourceType)
		write(10, a.Status)
		write(11, truncate(a.Description, 140))
		write(12, a.CreatedAt.UTC().Format("2006-01-02"))

		row++
		exported++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 28) // title
	_ = f.SetColWidth(sheet, "B", "B", 22) // artist
	_ = f.SetColWidth(sheet, "C", "C", 8)  // year
	_ = f.SetColWidth(sheet, "D", "D", 18) // medium
	_ = f.SetColWidth(sheet, "E", "F", 12) // coordinates
	_ = f.SetColWidth(sheet, "G", "G", 40) // address
	_ = f.SetColWidth(sheet, "H", "H", 16) // city
	_ = f.SetColWidth(sheet, "I", "J", 14) // source, status
	_ = f.SetColWidth(sheet, "K", "K", 48) // description
	_ = f.SetColWidth(sheet, "L", "L", 12) // created

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"status", status,
		"rows", exported,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func inWindow(a *entity.Artwork, from, to *time.Time) bool {
	created := a.CreatedAt.UTC()
	if from != nil && created.Before(*from) {
		return false
	}
	if to != nil && created.After(*to) {
		return false
	}
	return true
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
