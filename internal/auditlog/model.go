package auditlog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Actions recorded against the moderation/audit trail.
const (
	ActionEventCreated  = "EVENT_CREATED"
	ActionEventUpdated  = "EVENT_UPDATED"
	ActionEventApproved = "EVENT_APPROVED"
	ActionEventRejected = "EVENT_REJECTED"
	ActionRSVPAdded     = "RSVP_ADDED"
	ActionRSVPRemoved   = "RSVP_REMOVED"
)

// AuditLog represents the audit_logs table
type AuditLog struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Actor     string         `gorm:"type:varchar(42);index" json:"actor"` // wallet address, lower-cased
	EventID   *uuid.UUID     `gorm:"type:uuid;index" json:"event_id"`
	Action    string         `gorm:"size:100;not null;index" json:"action"`
	Details   datatypes.JSON `gorm:"type:jsonb" json:"details"`
	IPAddress string         `gorm:"size:45" json:"ip_address"`
	Status    string         `gorm:"size:20;not null;index" json:"status"` // success/failure
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName overrides table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}
