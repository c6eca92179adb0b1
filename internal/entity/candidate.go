package entity

import (
	"github.com/google/uuid"
)

// CandidateArtwork is the read-only projection of an approved artwork used
// by the duplicate locator. Kept narrow so candidate scans stay cheap.
type CandidateArtwork struct {
	ID         uuid.UUID         `json:"id"`
	Lat        float64           `json:"lat"`
	Lon        float64           `json:"lon"`
	Title      string            `json:"title"`
	ArtistName string            `json:"artist_name,omitempty"`
	Tags       map[string]string `json:"tags,omitempty"`
}
