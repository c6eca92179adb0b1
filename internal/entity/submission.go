package entity

import (
	"time"

	"github.com/google/uuid"
)

// Submission represents a staged artwork submission for data transfer
// between layers. Approving a submission materializes it as an Artwork.
type Submission struct {
	ID           uuid.UUID         `json:"id"`
	ArtistID     *uuid.UUID        `json:"artist_id,omitempty"`
	ArtworkID    *uuid.UUID        `json:"artwork_id,omitempty"`
	Title        string            `json:"title"`
	ArtistName   string            `json:"artist_name,omitempty"`
	Description  string            `json:"description,omitempty"`
	YearCreated  *int              `json:"year_created,omitempty"`
	Medium       string            `json:"medium,omitempty"`
	Dimensions   string            `json:"dimensions,omitempty"`
	Lat          float64           `json:"lat"`
	Lon          float64           `json:"lon"`
	Address      string            `json:"address,omitempty"`
	Neighborhood string            `json:"neighborhood,omitempty"`
	City         string            `json:"city,omitempty"`
	Region       string            `json:"region,omitempty"`
	Country      string            `json:"country,omitempty"`
	Photos       []string          `json:"photos,omitempty"`
	Tags         map[string]string `json:"tags,omitempty"`
	SourceType   string            `json:"source_type"`
	SourceID     string            `json:"source_id"`
	SourceName   string            `json:"source_name,omitempty"`
	SubmittedBy  string            `json:"submitted_by"`
	Status       string            `json:"status"`
	ReviewedBy   *string           `json:"reviewed_by,omitempty"`
	ReviewNote   *string           `json:"review_note,omitempty"`
	ReviewedAt   *time.Time        `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}
