package auditlog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type ctxKey string

// ctxCapture records the context each statement runs under.
type ctxCapture struct {
	contexts []context.Context
}

func (l *ctxCapture) LogMode(logger.LogLevel) logger.Interface      { return l }
func (l *ctxCapture) Info(context.Context, string, ...interface{})  {}
func (l *ctxCapture) Warn(context.Context, string, ...interface{})  {}
func (l *ctxCapture) Error(context.Context, string, ...interface{}) {}
func (l *ctxCapture) Trace(ctx context.Context, _ time.Time, _ func() (string, int64), _ error) {
	l.contexts = append(l.contexts, ctx)
}

func dryRunRepository(t *testing.T, capture *ctxCapture) *Repository {
	t.Helper()
	db, err := gorm.Open(postgres.Open(""), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		Logger:                 capture,
	})
	if err != nil {
		t.Fatalf("dry-run session: %v", err)
	}
	return NewRepository(db)
}

// The request context must reach the store so cancellation propagates.
func TestCreateThreadsContext(t *testing.T) {
	capture := &ctxCapture{}
	repo := dryRunRepository(t, capture)

	ctx := context.WithValue(context.Background(), ctxKey("request"), "r-1")
	entry := &AuditLog{Actor: "0xabc", Action: ActionEventCreated, Status: "success"}
	if err := repo.Create(ctx, entry); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if len(capture.contexts) != 1 {
		t.Fatalf("expected one statement, got %d", len(capture.contexts))
	}
	if got := capture.contexts[0].Value(ctxKey("request")); got != "r-1" {
		t.Errorf("request context lost, value = %v", got)
	}
}

func TestListByEventThreadsContext(t *testing.T) {
	capture := &ctxCapture{}
	repo := dryRunRepository(t, capture)

	ctx := context.WithValue(context.Background(), ctxKey("request"), "r-2")
	if _, err := repo.ListByEvent(ctx, uuid.New(), 50); err != nil {
		t.Fatalf("ListByEvent failed: %v", err)
	}

	if len(capture.contexts) != 1 {
		t.Fatalf("expected one statement, got %d", len(capture.contexts))
	}
	if got := capture.contexts[0].Value(ctxKey("request")); got != "r-2" {
		t.Errorf("request context lost, value = %v", got)
	}
}
