package event

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atalvarez9/events-directory-backend/internal/apierror"
	"github.com/atalvarez9/events-directory-backend/internal/auditlog"
	"github.com/atalvarez9/events-directory-backend/internal/schedule"
)

// Service wraps business logic for directory events
type Service struct {
	Repo     *Repository
	AuditSvc *auditlog.Service
	Limits   Limits
}

func NewService(r *Repository, auditSvc *auditlog.Service, limits Limits) *Service {
	return &Service{
		Repo:     r,
		AuditSvc: auditSvc,
		Limits:   limits,
	}
}

// ===========================
// 🎯 Create Event — submissions always start unapproved
func (s *Service) CreateEvent(req *CreateEventRequest, caller Caller, ip string) (*Event, error) {
	pattern, err := req.validate(s.Limits)
	if err != nil {
		s.AuditSvc.LogAction(context.Background(), caller.Address, nil, auditlog.ActionEventCreated,
			map[string]interface{}{"name": req.Name, "error": err.Error()}, ip, "failure")
		return nil, err
	}

	e := &Event{
		ID:       uuid.New(),
		User:     strings.ToLower(caller.Address),
		Approved: false,
		Rejected: false,
	}
	if err := s.apply(e, req, pattern, time.Now().UTC()); err != nil {
		return nil, err
	}

	if err := s.Repo.CreateEvent(e); err != nil {
		s.AuditSvc.LogAction(context.Background(), caller.Address, nil, auditlog.ActionEventCreated,
			map[string]interface{}{"name": req.Name, "error": err.Error()}, ip, "failure")
		return nil, err
	}
	if err := s.Repo.UpdateSearchVector(e.ID, e.Description); err != nil {
		return nil, err
	}

	s.AuditSvc.LogAction(context.Background(), caller.Address, &e.ID, auditlog.ActionEventCreated,
		map[string]interface{}{"name": e.Name, "start_at": e.StartAt, "recurrent": e.Recurrent}, ip, "success")
	return e, nil
}

// ===========================
// 🛠 Update Event — owner edit re-expands recurrence and refreshes the
// scheduling snapshot and search vector
func (s *Service) UpdateEvent(id uuid.UUID, req *UpdateEventRequest, caller Caller, ip string) (*Event, error) {
	e, err := s.visibleEvent(id, &caller)
	if err != nil {
		return nil, err
	}
	if e.User != strings.ToLower(caller.Address) && !caller.Admin {
		// Invisible and not-editable look identical to the caller.
		return nil, apierror.NotFound("event not found")
	}

	pattern, err := req.validate(s.Limits)
	if err != nil {
		s.AuditSvc.LogAction(context.Background(), caller.Address, &id, auditlog.ActionEventUpdated,
			map[string]interface{}{"error": err.Error()}, ip, "failure")
		return nil, err
	}

	if err := s.apply(e, &req.CreateEventRequest, pattern, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateEvent(e); err != nil {
		s.AuditSvc.LogAction(context.Background(), caller.Address, &id, auditlog.ActionEventUpdated,
			map[string]interface{}{"error": err.Error()}, ip, "failure")
		return nil, err
	}
	if err := s.Repo.UpdateSearchVector(e.ID, e.Description); err != nil {
		return nil, err
	}

	s.AuditSvc.LogAction(context.Background(), caller.Address, &id, auditlog.ActionEventUpdated,
		map[string]interface{}{"name": e.Name}, ip, "success")
	return e, nil
}

// ===========================
// ✅ Approve Event (admin)
func (s *Service) ApproveEvent(id uuid.UUID, caller Caller, ip string) (*Event, error) {
	e, err := s.moderate(id, caller, func(e *Event) {
		e.Approved = true
		e.Rejected = false
	})
	if err != nil {
		s.AuditSvc.LogAction(context.Background(), caller.Address, &id, auditlog.ActionEventApproved,
			map[string]interface{}{"error": err.Error()}, ip, "failure")
		return nil, err
	}
	s.AuditSvc.LogAction(context.Background(), caller.Address, &id, auditlog.ActionEventApproved,
		map[string]interface{}{"name": e.Name}, ip, "success")
	return e, nil
}

// ===========================
// ❌ Reject Event (admin) — terminal state, clears approval and promotion
func (s *Service) RejectEvent(id uuid.UUID, caller Caller, ip string) (*Event, error) {
	e, err := s.moderate(id, caller, func(e *Event) {
		e.Rejected = true
		e.Approved = false
		e.Highlighted = false
		e.Trending = false
	})
	if err != nil {
		s.AuditSvc.LogAction(context.Background(), caller.Address, &id, auditlog.ActionEventRejected,
			map[string]interface{}{"error": err.Error()}, ip, "failure")
		return nil, err
	}
	s.AuditSvc.LogAction(context.Background(), caller.Address, &id, auditlog.ActionEventRejected,
		map[string]interface{}{"name": e.Name}, ip, "success")
	return e, nil
}

func (s *Service) moderate(id uuid.UUID, caller Caller, mutate func(*Event)) (*Event, error) {
	if !caller.Admin {
		return nil, apierror.Forbidden("moderation requires an admin")
	}
	e, err := s.Repo.GetEventByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("event not found")
		}
		return nil, err
	}
	mutate(e)
	if err := s.Repo.UpdateEvent(e); err != nil {
		return nil, err
	}
	return e, nil
}

// ===========================
// 🔍 Get Event — an existing-but-invisible event reads as nonexistent
func (s *Service) GetEvent(id uuid.UUID, caller *Caller) (*Event, error) {
	return s.visibleEvent(id, caller)
}

func (s *Service) visibleEvent(id uuid.UUID, caller *Caller) (*Event, error) {
	e, err := s.Repo.GetEventByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("event not found")
		}
		return nil, err
	}
	if !visibleTo(e, caller) {
		return nil, apierror.NotFound("event not found")
	}
	return e, nil
}

func visibleTo(e *Event, caller *Caller) bool {
	if e.Rejected {
		return caller != nil && caller.Admin
	}
	if e.Approved {
		return true
	}
	if caller == nil {
		return false
	}
	return caller.Admin || e.User == strings.ToLower(caller.Address)
}

// ===========================
// 📄 List Events — compile once, one store round trip
func (s *Service) ListEvents(filters FilterRequest, caller *Caller) ([]Event, int64, error) {
	q, err := Compile(filters, caller, s.Limits, time.Now().UTC())
	if err != nil {
		return nil, 0, err
	}
	return s.Repo.ListEvents(q)
}

// ===========================
// 🗒 History — the moderation and mutation trail for one event, admins only
func (s *Service) History(ctx context.Context, id uuid.UUID, caller Caller, limit int) ([]auditlog.AuditLog, error) {
	if !caller.Admin {
		return nil, apierror.Forbidden("the audit trail requires an admin")
	}
	if _, err := s.Repo.GetEventByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("event not found")
		}
		return nil, err
	}
	return s.AuditSvc.Trail(ctx, id, limit)
}

// ===========================
// 🔁 apply writes a validated payload onto the event and recomputes the
// derived scheduling fields
func (s *Service) apply(e *Event, req *CreateEventRequest, pattern *schedule.Pattern, now time.Time) error {
	e.Name = req.Name
	e.Description = req.Description
	e.ImageURL = req.ImageURL
	e.Contact = req.Contact
	e.Details = req.Details
	e.StartAt = req.StartAt.UTC().Truncate(time.Second)
	e.Duration = req.Duration
	e.AllDay = req.AllDay

	e.X = req.X
	e.Y = req.Y
	e.World = req.World
	e.Server = req.Server
	e.EstateID = req.EstateID
	e.EstateName = req.EstateName
	e.PlaceID = req.PlaceID
	if req.Schedules == nil {
		req.Schedules = []string{}
	}
	schedules, err := json.Marshal(req.Schedules)
	if err != nil {
		return err
	}
	e.Schedules = schedules

	e.Recurrent = req.Recurrent
	if pattern != nil {
		freq := string(pattern.Frequency)
		e.RecurrentFrequency = &freq
		e.RecurrentInterval = pattern.Interval
		e.RecurrentWeekdayMask = int(pattern.Weekdays)
		e.RecurrentMonthMask = int(pattern.Months)
		e.RecurrentMonthday = pattern.MonthDay
		e.RecurrentCount = pattern.Count
		e.RecurrentUntil = pattern.Until
		if pattern.SetPos != nil {
			sp := int(*pattern.SetPos)
			e.RecurrentSetpos = &sp
		} else {
			e.RecurrentSetpos = nil
		}
	} else {
		e.RecurrentFrequency = nil
		e.RecurrentInterval = 1
		e.RecurrentWeekdayMask = 0
		e.RecurrentMonthMask = 0
		e.RecurrentMonthday = nil
		e.RecurrentSetpos = nil
		e.RecurrentCount = nil
		e.RecurrentUntil = nil
	}

	dates := []time.Time{e.StartAt}
	if pattern != nil {
		dates = schedule.Expand(*pattern, e.StartAt, s.Limits.RecurrenceCap)
	}
	encoded, err := json.Marshal(dates)
	if err != nil {
		return err
	}
	e.RecurrentDates = encoded

	next := schedule.NextOccurrence(s.duration(e), nil, dates, now)
	e.NextStartAt = next
	e.NextFinishAt = next.Add(s.duration(e))
	return nil
}

func (s *Service) duration(e *Event) time.Duration {
	return time.Duration(e.Duration) * time.Millisecond
}

// Occurrences decodes the cached expansion list.
func Occurrences(e *Event) []time.Time {
	var dates []time.Time
	if err := json.Unmarshal(e.RecurrentDates, &dates); err != nil || len(dates) == 0 {
		return []time.Time{e.StartAt}
	}
	return dates
}
