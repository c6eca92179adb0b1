package entity

import (
	"time"

	"github.com/google/uuid"
)

// Artwork represents a catalog artwork for data transfer between layers.
type Artwork struct {
	ID           uuid.UUID         `json:"id"`
	ArtistID     *uuid.UUID        `json:"artist_id,omitempty"`
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
	Status       string            `json:"status"`
	SourceType   string            `json:"source_type"`
	SourceID     string            `json:"source_id"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}
