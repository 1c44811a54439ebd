package event

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ============================
// 🔷 GORM Event Model
type Event struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	ImageURL    string    `gorm:"type:text" json:"image"`

	// Owner-only contact surface, stripped from public responses.
	Contact string `gorm:"type:text" json:"contact,omitempty"`
	Details string `gorm:"type:text" json:"details,omitempty"`

	User     string `gorm:"type:varchar(42);not null;index" json:"user"`
	UserName string `gorm:"type:varchar(100)" json:"user_name"`

	StartAt  time.Time `gorm:"not null" json:"start_at"`
	Duration int64     `gorm:"not null" json:"duration"` // milliseconds
	AllDay   bool      `gorm:"default:false" json:"all_day"`

	Recurrent            bool           `gorm:"default:false" json:"recurrent"`
	RecurrentFrequency   *string        `gorm:"type:varchar(10)" json:"recurrent_frequency"`
	RecurrentInterval    int            `gorm:"default:1" json:"recurrent_interval"`
	RecurrentWeekdayMask int            `gorm:"default:0" json:"recurrent_weekday_mask"`
	RecurrentMonthMask   int            `gorm:"default:0" json:"recurrent_month_mask"`
	RecurrentMonthday    *int           `json:"recurrent_monthday"`
	RecurrentSetpos      *int           `json:"recurrent_setpos"`
	RecurrentCount       *int           `json:"recurrent_count"`
	RecurrentUntil       *time.Time     `json:"recurrent_until"`
	RecurrentDates       datatypes.JSON `gorm:"type:jsonb" json:"recurrent_dates"`

	// Selector snapshot taken at last write so list reads never re-expand.
	NextStartAt  time.Time `gorm:"not null;index" json:"next_start_at"`
	NextFinishAt time.Time `gorm:"not null;index" json:"next_finish_at"`

	// Either a land position (x,y) or a named virtual world server.
	X      *int    `json:"x"`
	Y      *int    `json:"y"`
	World  bool    `gorm:"default:false;index" json:"world"`
	Server *string `gorm:"type:varchar(100)" json:"server"`

	EstateID   *string        `gorm:"type:varchar(30);index" json:"estate_id"`
	EstateName *string        `gorm:"type:varchar(100)" json:"estate_name"`
	PlaceID    *string        `gorm:"type:varchar(40);index" json:"place_id"`
	Schedules  datatypes.JSON `gorm:"type:jsonb" json:"schedules"`

	Approved    bool `gorm:"default:false;index" json:"approved"`
	Rejected    bool `gorm:"default:false;index" json:"rejected"`
	Highlighted bool `gorm:"default:false" json:"highlighted"`
	Trending    bool `gorm:"default:false" json:"trending"`

	TotalAttendees  int            `gorm:"default:0" json:"total_attendees"`
	LatestAttendees datatypes.JSON `gorm:"type:jsonb" json:"latest_attendees"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// NOTE: the weighted search_vector tsvector column and its GIN index are
	// created by database.MigrateSearchVector; gorm tags cannot express them.
}

func (Event) TableName() string {
	return "events"
}

// ============================
// 🟡 Recurrence group shared by create/update payloads, validated as a unit.
type RecurrenceRequest struct {
	Recurrent   bool       `json:"recurrent"`
	Frequency   *string    `json:"recurrent_frequency"`
	Interval    int        `json:"recurrent_interval"`
	WeekdayMask int        `json:"recurrent_weekday_mask"`
	MonthMask   int        `json:"recurrent_month_mask"`
	Monthday    *int       `json:"recurrent_monthday"`
	Setpos      *int       `json:"recurrent_setpos"`
	Count       *int       `json:"recurrent_count"`
	Until       *time.Time `json:"recurrent_until"`
}

// ============================
// 🟡 Create Event Request
type CreateEventRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"image"`
	Contact     string `json:"contact"`
	Details     string `json:"details"`

	StartAt  time.Time `json:"start_at" binding:"required"`
	Duration int64     `json:"duration"`
	AllDay   bool      `json:"all_day"`

	X          *int     `json:"x"`
	Y          *int     `json:"y"`
	World      bool     `json:"world"`
	Server     *string  `json:"server"`
	EstateID   *string  `json:"estate_id"`
	EstateName *string  `json:"estate_name"`
	PlaceID    *string  `json:"place_id"`
	Schedules  []string `json:"schedules"`

	RecurrenceRequest
}

// ============================
// 🟠 Update Event Request (owner edit, same shape as create)
type UpdateEventRequest struct {
	CreateEventRequest
}
