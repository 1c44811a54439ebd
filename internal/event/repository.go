package event

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// ===========================
// 🎯 Create Event
func (r *Repository) CreateEvent(e *Event) error {
	return r.DB.Create(e).Error
}

// ===========================
// 🔍 Get Event By ID
func (r *Repository) GetEventByID(id uuid.UUID) (*Event, error) {
	var e Event
	if err := r.DB.First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// ===========================
// 🛠 Update Event
func (r *Repository) UpdateEvent(e *Event) error {
	return r.DB.Save(e).Error
}

// ===========================
// 🔎 Refresh the weighted search vector for one event
func (r *Repository) UpdateSearchVector(id uuid.UUID, description string) error {
	return r.DB.Exec(searchVectorSQL, sanitizeDescription(description), id).Error
}

// listRow carries the window-function total alongside the event columns.
type listRow struct {
	Event `gorm:"embedded"`
	Total int64 `gorm:"column:total"`
}

// ===========================
// 📄 List Events from a compiled query — filters, join, rank and count run
// as a single statement; the total rides on every row via COUNT(*) OVER ()
func (r *Repository) ListEvents(q *CompiledQuery) ([]Event, int64, error) {
	if q.Empty {
		return []Event{}, 0, nil
	}

	tx := r.DB.Table("events")
	if q.Join != "" {
		tx = tx.Joins(q.Join, q.JoinArgs...)
	}
	for _, p := range q.Predicates {
		tx = tx.Where(p.SQL, p.Args...)
	}
	if q.Search != "" {
		tx = tx.Select("events.*, ts_rank(events.search_vector, websearch_to_tsquery('english', ?)) AS rank, COUNT(*) OVER () AS total", q.Search)
	} else {
		tx = tx.Select("events.*, COUNT(*) OVER () AS total")
	}

	var rows []listRow
	err := tx.
		Order(q.OrderBy).
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	// A page past the end of the result set reads as empty with total 0.
	events := make([]Event, len(rows))
	var total int64
	for i := range rows {
		events[i] = rows[i].Event
	}
	if len(rows) > 0 {
		total = rows[0].Total
	}
	return events, total, nil
}

// ===========================
// 🔔 Events whose next occurrence starts inside (from, to] — dispatcher scan
func (r *Repository) ListEventsStartingBetween(from, to time.Time) ([]Event, error) {
	var events []Event
	err := r.DB.
		Where("approved = TRUE AND rejected = FALSE").
		Where("next_start_at > ? AND next_start_at <= ?", from, to).
		Order("next_start_at ASC").
		Find(&events).Error
	return events, err
}

// ===========================
// 🔔 Events whose next occurrence is currently running — "just started" scan
func (r *Repository) ListEventsLive(now time.Time) ([]Event, error) {
	var events []Event
	err := r.DB.
		Where("approved = TRUE AND rejected = FALSE").
		Where("next_start_at <= ? AND next_finish_at > ?", now, now).
		Order("next_start_at ASC").
		Find(&events).Error
	return events, err
}
