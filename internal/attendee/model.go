package attendee

import (
	"time"

	"github.com/google/uuid"
)

// Attendee is one RSVP: existence is the only signal, removal deletes the row.
type Attendee struct {
	EventID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"event_id"`
	User      string    `gorm:"type:varchar(42);primaryKey" json:"user"` // lower-cased wallet address
	UserName  string    `gorm:"type:varchar(100)" json:"user_name"`
	Notify    bool      `gorm:"default:true" json:"notify"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Attendee) TableName() string {
	return "attendees"
}

// ============================
// 🟡 RSVP Request
type RSVPRequest struct {
	Notify *bool `json:"notify"`
}
