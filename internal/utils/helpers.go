package utils

import (
	"time"

	"github.com/google/uuid"

	"github.com/civicatlas/artcatalog/gen/ent"
	catalogpb "github.com/civicatlas/artcatalog/gen/proto/artcatalog/v1"
	"github.com/civicatlas/artcatalog/internal/entity"
)

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func uuidOrEmpty(p *uuid.UUID) string {
	if p == nil {
		return ""
	}
	return p.String()
}

func timeOrEmpty(p *time.Time) string {
	if p == nil {
		return ""
	}
	return p.UTC().Format(time.RFC3339)
}

func yearOrZero(p *int) int32 {
	if p == nil {
		return 0
	}
	return int32(*p)
}

func ToArtwork(e *ent.Artwork) *entity.Artwork {
	return &entity.Artwork{
		ID:           e.ID,
		ArtistID:     e.ArtistID,
		Title:        e.Title,
		ArtistName:   e.ArtistName,
		Description:  e.Description,
		YearCreated:  e.YearCreated,
		Medium:       e.Medium,
		Dimensions:   e.Dimensions,
		Lat:          e.Lat,
		Lon:          e.Lon,
		Address:      e.Address,
		Neighborhood: e.Neighborhood,
		City:         e.City,
		Region:       e.Region,
		Country:      e.Country,
		Photos:       e.Photos,
		Tags:         e.Tags,
		Status:       e.Status,
		SourceType:   e.SourceType,
		SourceID:     e.SourceID,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

// ToCandidate projects an artwork row down to the scoring fields.
func ToCandidate(e *ent.Artwork) entity.CandidateArtwork {
	return entity.CandidateArtwork{
		ID:         e.ID,
		Lat:        e.Lat,
		Lon:        e.Lon,
		Title:      e.Title,
		ArtistName: e.ArtistName,
		Tags:       e.Tags,
	}
}

func ToArtist(e *ent.Artist) *entity.Artist {
	return &entity.Artist{
		ID:        e.ID,
		Name:      e.Name,
		Bio:       e.Bio,
		Website:   e.Website,
		Status:    e.Status,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func ToSubmission(e *ent.Submission) *entity.Submission {
	return &entity.Submission{
		ID:           e.ID,
		ArtistID:     e.ArtistID,
		ArtworkID:    e.ArtworkID,
		Title:        e.Title,
		ArtistName:   e.ArtistName,
		Description:  e.Description,
		YearCreated:  e.YearCreated,
		Medium:       e.Medium,
		Dimensions:   e.Dimensions,
		Lat:          e.Lat,
		Lon:          e.Lon,
		Address:      e.Address,
		Neighborhood: e.Neighborhood,
		City:         e.City,
		Region:       e.Region,
		Country:      e.Country,
		Photos:       e.Photos,
		Tags:         e.Tags,
		SourceType:   e.SourceType,
		SourceID:     e.SourceID,
		SourceName:   e.SourceName,
		SubmittedBy:  e.SubmittedBy,
		Status:       e.Status,
		ReviewedBy:   e.ReviewedBy,
		ReviewNote:   e.ReviewNote,
		ReviewedAt:   e.ReviewedAt,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func ToAuditEvent(e *ent.AuditEvent) *entity.AuditEvent {
	return &entity.AuditEvent{
		ID:         e.ID,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Action:     e.Action,
		Metadata:   e.Metadata,
		RecordedAt: e.RecordedAt,
	}
}

func ToPBArtwork(a *entity.Artwork) *catalogpb.Artwork {
	return &catalogpb.Artwork{
		Id:           a.ID.String(),
		ArtistId:     uuidOrEmpty(a.ArtistID),
		Title:        a.Title,
		ArtistName:   a.ArtistName,
		Description:  a.Description,
		YearCreated:  yearOrZero(a.YearCreated),
		Medium:       a.Medium,
		Dimensions:   a.Dimensions,
		Lat:          a.Lat,
		Lon:          a.Lon,
		Address:      a.Address,
		Neighborhood: a.Neighborhood,
		City:         a.City,
		Region:       a.Region,
		Country:      a.Country,
		Photos:       a.Photos,
		Tags:         a.Tags,
		Status:       a.Status,
		SourceType:   a.SourceType,
		SourceId:     a.SourceID,
		CreatedAt:    a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    a.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func ToPBArtist(a *entity.Artist) *catalogpb.Artist {
	return &catalogpb.Artist{
		Id:        a.ID.String(),
		Name:      a.Name,
		Bio:       strOrEmpty(a.Bio),
		Website:   strOrEmpty(a.Website),
		Status:    a.Status,
		CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: a.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func ToPBSubmission(s *entity.Submission) *catalogpb.Submission {
	return &catalogpb.Submission{
		Id:          s.ID.String(),
		ArtistId:    uuidOrEmpty(s.ArtistID),
		ArtworkId:   uuidOrEmpty(s.ArtworkID),
		Title:       s.Title,
		ArtistName:  s.ArtistName,
		Lat:         s.Lat,
		Lon:         s.Lon,
		SourceType:  s.SourceType,
		SourceId:    s.SourceID,
		SourceName:  s.SourceName,
		SubmittedBy: s.SubmittedBy,
		Status:      s.Status,
		ReviewedBy:  strOrEmpty(s.ReviewedBy),
		ReviewNote:  strOrEmpty(s.ReviewNote),
		ReviewedAt:  timeOrEmpty(s.ReviewedAt),
		CreatedAt:   s.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   s.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
