package entity

import (
	"time"

	"github.com/google/uuid"
)

// AuditEvent represents an audit trail entry for data transfer between layers.
type AuditEvent struct {
	ID         uuid.UUID      `json:"id"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Action     string         `json:"action"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	RecordedAt time.Time      `json:"recorded_at"`
}
