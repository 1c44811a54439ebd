package auditlog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) Create(ctx context.Context, entry *AuditLog) error {
	return r.DB.WithContext(ctx).Create(entry).Error
}

// ListByEvent returns the trail for a single event, newest first.
func (r *Repository) ListByEvent(ctx context.Context, eventID uuid.UUID, limit int) ([]AuditLog, error) {
	var entries []AuditLog
	err := r.DB.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
