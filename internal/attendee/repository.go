package attendee

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// ===========================
// 🎟 Add RSVP and refresh the event's denormalized aggregates in one
// transaction, so the counts can never drift from the attendee table.
func (r *Repository) AddAttendee(a *Attendee, latestCap int) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}, {Name: "user"}},
			DoUpdates: clause.AssignmentColumns([]string{"notify"}),
		}).Create(a).Error
		if err != nil {
			return err
		}
		return refreshAggregates(tx, a.EventID, latestCap)
	})
}

// ===========================
// ❌ Remove RSVP with the same aggregate refresh
func (r *Repository) RemoveAttendee(eventID uuid.UUID, user string, latestCap int) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("event_id = ? AND \"user\" = ?", eventID, user).Delete(&Attendee{}).Error
		if err != nil {
			return err
		}
		return refreshAggregates(tx, eventID, latestCap)
	})
}

// ===========================
// 🔍 Lookup a single RSVP
func (r *Repository) GetAttendee(eventID uuid.UUID, user string) (*Attendee, error) {
	var a Attendee
	err := r.DB.Where("event_id = ? AND \"user\" = ?", eventID, user).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ===========================
// 🔍 One user's RSVPs across a set of events
func (r *Repository) ListUserRSVPs(eventIDs []uuid.UUID, user string) ([]Attendee, error) {
	var attendees []Attendee
	err := r.DB.
		Where("event_id IN ? AND \"user\" = ?", eventIDs, user).
		Find(&attendees).Error
	return attendees, err
}

// ===========================
// 📄 All attendees of an event who opted into notifications
func (r *Repository) ListNotifiable(eventID uuid.UUID) ([]Attendee, error) {
	var attendees []Attendee
	err := r.DB.
		Where("event_id = ? AND notify = TRUE", eventID).
		Order("created_at ASC").
		Find(&attendees).Error
	return attendees, err
}

// refreshAggregates recomputes total_attendees and the most-recent-first
// latest_attendees list (capped) onto the parent event row.
func refreshAggregates(tx *gorm.DB, eventID uuid.UUID, latestCap int) error {
	var total int64
	if err := tx.Model(&Attendee{}).Where("event_id = ?", eventID).Count(&total).Error; err != nil {
		return err
	}

	var latest []string
	err := tx.Model(&Attendee{}).
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Limit(latestCap).
		Pluck("\"user\"", &latest).Error
	if err != nil {
		return err
	}
	if latest == nil {
		latest = []string{}
	}
	encoded, err := json.Marshal(latest)
	if err != nil {
		return err
	}

	return tx.Table("events").Where("id = ?", eventID).Updates(map[string]interface{}{
		"total_attendees":  total,
		"latest_attendees": datatypes.JSON(encoded),
	}).Error
}
