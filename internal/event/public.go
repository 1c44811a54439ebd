package event

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/atalvarez9/events-directory-backend/internal/schedule"
)

// PublicEvent is the caller-relative response shape: the persisted event plus
// live/attending flags and a guaranteed-fresh next occurrence. Contact surface
// fields are stripped unless the caller owns the event.
type PublicEvent struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image"`
	Contact     string    `json:"contact,omitempty"`
	Details     string    `json:"details,omitempty"`

	User     string `json:"user"`
	UserName string `json:"user_name"`

	StartAt  time.Time `json:"start_at"`
	Duration int64     `json:"duration"`
	AllDay   bool      `json:"all_day"`

	Recurrent      bool           `json:"recurrent"`
	RecurrentDates datatypes.JSON `json:"recurrent_dates"`

	NextStartAt  time.Time `json:"next_start_at"`
	NextFinishAt time.Time `json:"next_finish_at"`
	Live         bool      `json:"live"`

	X          *int           `json:"x"`
	Y          *int           `json:"y"`
	World      bool           `json:"world"`
	Server     *string        `json:"server"`
	EstateID   *string        `json:"estate_id"`
	EstateName *string        `json:"estate_name"`
	PlaceID    *string        `json:"place_id"`
	Schedules  datatypes.JSON `json:"schedules"`

	Approved    bool `json:"approved"`
	Rejected    bool `json:"rejected"`
	Highlighted bool `json:"highlighted"`
	Trending    bool `json:"trending"`

	TotalAttendees  int            `json:"total_attendees"`
	LatestAttendees datatypes.JSON `json:"latest_attendees"`

	Attending bool `json:"attending"`
	Notify    bool `json:"notify"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToPublic recomputes the live scheduling view at response time: the cached
// next occurrence is trusted only while still valid, then the expansion list
// is rescanned.
func ToPublic(e *Event, caller *Caller, attending, notify bool, now time.Time) PublicEvent {
	duration := time.Duration(e.Duration) * time.Millisecond
	cached := e.NextStartAt
	next := schedule.NextOccurrence(duration, &cached, Occurrences(e), now)

	p := PublicEvent{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		ImageURL:    e.ImageURL,

		User:     e.User,
		UserName: e.UserName,

		StartAt:  e.StartAt,
		Duration: e.Duration,
		AllDay:   e.AllDay,

		Recurrent:      e.Recurrent,
		RecurrentDates: e.RecurrentDates,

		NextStartAt:  next,
		NextFinishAt: next.Add(duration),
		Live:         schedule.Live(next, duration, now),

		X:          e.X,
		Y:          e.Y,
		World:      e.World,
		Server:     e.Server,
		EstateID:   e.EstateID,
		EstateName: e.EstateName,
		PlaceID:    e.PlaceID,
		Schedules:  e.Schedules,

		Approved:    e.Approved,
		Rejected:    e.Rejected,
		Highlighted: e.Highlighted,
		Trending:    e.Trending,

		TotalAttendees:  e.TotalAttendees,
		LatestAttendees: e.LatestAttendees,

		Attending: attending,
		Notify:    notify,

		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}

	if caller != nil && (caller.Admin || e.User == strings.ToLower(caller.Address)) {
		p.Contact = e.Contact
		p.Details = e.Details
	}
	return p
}
