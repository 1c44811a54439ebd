package auditlog

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
)

// Service records moderation and mutation actions. Logging must never fail a
// request, so errors are swallowed after being logged.
type Service struct {
	Repo *Repository
}

func NewService(r *Repository) *Service {
	return &Service{Repo: r}
}

func (s *Service) LogAction(ctx context.Context, actor string, eventID *uuid.UUID, action string, details map[string]interface{}, ip, status string) {
	payload, err := json.Marshal(details)
	if err != nil {
		log.Printf("⚠️ audit: could not marshal details for %s: %v", action, err)
		payload = []byte("{}")
	}

	entry := &AuditLog{
		Actor:     actor,
		EventID:   eventID,
		Action:    action,
		Details:   payload,
		IPAddress: ip,
		Status:    status,
	}
	if err := s.Repo.Create(ctx, entry); err != nil {
		log.Printf("⚠️ audit: could not record %s: %v", action, err)
	}
}

// Trail returns the recorded actions for one event, newest first. The page
// size is clamped to keep the endpoint cheap.
func (s *Service) Trail(ctx context.Context, eventID uuid.UUID, limit int) ([]AuditLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return s.Repo.ListByEvent(ctx, eventID, limit)
}
