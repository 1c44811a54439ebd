package attendee

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/atalvarez9/events-directory-backend/internal/auditlog"
	"github.com/atalvarez9/events-directory-backend/internal/event"
	"github.com/atalvarez9/events-directory-backend/internal/profile"
)

type Service struct {
	Repo      *Repository
	EventSvc  *event.Service
	Profiles  *profile.Cache
	AuditSvc  *auditlog.Service
	LatestCap int
}

func NewService(r *Repository, eventSvc *event.Service, profiles *profile.Cache, auditSvc *auditlog.Service, latestCap int) *Service {
	return &Service{
		Repo:      r,
		EventSvc:  eventSvc,
		Profiles:  profiles,
		AuditSvc:  auditSvc,
		LatestCap: latestCap,
	}
}

// ===========================
// 🎟 RSVP — visibility gate first, so nobody can attend an event they
// cannot see
func (s *Service) RSVP(ctx context.Context, eventID uuid.UUID, caller event.Caller, notify bool, ip string) error {
	if _, err := s.EventSvc.GetEvent(eventID, &caller); err != nil {
		return err
	}

	address := strings.ToLower(caller.Address)
	a := &Attendee{
		EventID:  eventID,
		User:     address,
		UserName: s.Profiles.DisplayName(ctx, address),
		Notify:   notify,
	}
	if err := s.Repo.AddAttendee(a, s.LatestCap); err != nil {
		return err
	}

	s.AuditSvc.LogAction(ctx, address, &eventID, auditlog.ActionRSVPAdded,
		map[string]interface{}{"notify": notify}, ip, "success")
	return nil
}

// ===========================
// ❌ Un-RSVP — removing a missing RSVP is a no-op, not an error
func (s *Service) CancelRSVP(ctx context.Context, eventID uuid.UUID, caller event.Caller, ip string) error {
	if _, err := s.EventSvc.GetEvent(eventID, &caller); err != nil {
		return err
	}

	address := strings.ToLower(caller.Address)
	if err := s.Repo.RemoveAttendee(eventID, address, s.LatestCap); err != nil {
		return err
	}

	s.AuditSvc.LogAction(ctx, address, &eventID, auditlog.ActionRSVPRemoved, nil, ip, "success")
	return nil
}

// ===========================
// 🔍 Attendance reports the caller's RSVP state for the public transform
func (s *Service) Attendance(eventID uuid.UUID, address string) (attending, notify bool) {
	a, err := s.Repo.GetAttendee(eventID, strings.ToLower(address))
	if err != nil {
		return false, false
	}
	return true, a.Notify
}

// ===========================
// 🔍 AttendanceBatch resolves one caller's RSVPs for a whole listing page in
// a single query
func (s *Service) AttendanceBatch(eventIDs []uuid.UUID, address string) map[uuid.UUID]event.AttendanceInfo {
	out := make(map[uuid.UUID]event.AttendanceInfo, len(eventIDs))
	rows, err := s.Repo.ListUserRSVPs(eventIDs, strings.ToLower(address))
	if err != nil {
		return out
	}
	for _, a := range rows {
		out[a.EventID] = event.AttendanceInfo{Attending: true, Notify: a.Notify}
	}
	return out
}
