package repository

import (
	"context"
	"log/slog"

	"github.com/civicatlas/artcatalog/gen/ent"
	"github.com/civicatlas/artcatalog/gen/ent/auditevent"
	"github.com/civicatlas/artcatalog/internal/common"
	"github.com/civicatlas/artcatalog/internal/entity"
	"github.com/civicatlas/artcatalog/internal/utils"
)

type AuditRepository interface {
	Record(ctx context.Context, entityType, entityID, action string, metadata map[string]any) error
	ListByEntity(ctx context.Context, entityType, entityID string) ([]*entity.AuditEvent, error)
}

type auditRepository struct {
	client *ent.Client
	logger *slog.Logger
}

func NewAuditRepository(client *ent.Client, logger *slog.Logger) AuditRepository {
	return &auditRepository{
		client: client,
		logger: logger,
	}
}

func (r *auditRepository) Record(ctx context.Context, entityType, entityID, action string, metadata map[string]any) error {
	create := r.client.AuditEvent.Create().
		SetEntityType(entityType).
		SetEntityID(entityID).
		SetAction(action)
	if len(metadata) > 0 {
		create = create.SetMetadata(metadata)
	}

	row, err := create.Save(ctx)
	if err != nil {
		r.logger.Error("failed to record audit event",
			"entity_type", entityType, "entity_id", entityID, "action", action, "error", err)
		return common.NewStorageError("record audit event", err)
	}

	r.logger.Debug("audit event recorded",
		"event_id", row.ID, "entity_type", entityType, "entity_id", entityID, "action", action)
	return nil
}

func (r *auditRepository) ListByEntity(ctx context.Context, entityType, entityID string) ([]*entity.AuditEvent, error) {
	rows, err := r.client.AuditEvent.Query().
		Where(
			auditevent.EntityTypeEQ(entityType),
			auditevent.EntityIDEQ(entityID),
		).
		Order(auditevent.ByRecordedAt()).
		All(ctx)
	if err != nil {
		r.logger.Error("failed to list audit events",
			"entity_type", entityType, "entity_id", entityID, "error", err)
		return nil, common.NewStorageError("list audit events", err)
	}

	result := make([]*entity.AuditEvent, len(rows))
	for i, row := range rows {
		result[i] = utils.ToAuditEvent(row)
	}
	return result, nil
}
