package entity

import (
	"time"

	"github.com/google/uuid"
)

// Artist represents an artist for data transfer between layers.
type Artist struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Bio       *string   `json:"bio,omitempty"`
	Website   *string   `json:"website,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
