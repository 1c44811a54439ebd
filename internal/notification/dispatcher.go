package notification

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/atalvarez9/events-directory-backend/internal/attendee"
	"github.com/atalvarez9/events-directory-backend/internal/event"
	"github.com/atalvarez9/events-directory-backend/internal/schedule"
)

// dedupTTL keeps per-occurrence guards long enough to outlive any realistic
// poll gap or restart.
const dedupTTL = 24 * time.Hour

type DispatcherConfig struct {
	Ahead      time.Duration // "starting soon" window
	BatchSize  int
	MaxRetries int
}

// Dispatcher periodically selects events whose next occurrence is about to
// start or just started and publishes {event, attendee} facts to the sink.
// It decides WHICH events qualify; delivery downstream of the sink is not its
// problem.
type Dispatcher struct {
	Events    *event.Repository
	Attendees *attendee.Repository
	Sink      Sink
	Redis     *redis.Client
	Config    DispatcherConfig
}

func NewDispatcher(events *event.Repository, attendees *attendee.Repository, sink Sink, rdb *redis.Client, cfg DispatcherConfig) *Dispatcher {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	return &Dispatcher{Events: events, Attendees: attendees, Sink: sink, Redis: rdb, Config: cfg}
}

// Run executes one scan. Wired to a cron schedule at startup.
func (d *Dispatcher) Run(ctx context.Context) {
	now := time.Now().UTC()

	soon, err := d.Events.ListEventsStartingBetween(now, now.Add(d.Config.Ahead))
	if err != nil {
		log.Printf("⚠️ notify: starting-soon scan failed: %v", err)
	} else {
		d.dispatch(ctx, soon, KindStartingSoon, now)
	}

	live, err := d.Events.ListEventsLive(now)
	if err != nil {
		log.Printf("⚠️ notify: started scan failed: %v", err)
	} else {
		d.dispatch(ctx, live, KindStarted, now)
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, events []event.Event, kind string, now time.Time) {
	var facts []Fact
	for i := range events {
		e := &events[i]

		// The scan trusts the cached snapshot; re-run the selector so a stale
		// row never produces a notification for an elapsed occurrence.
		duration := time.Duration(e.Duration) * time.Millisecond
		cached := e.NextStartAt
		next := schedule.NextOccurrence(duration, &cached, event.Occurrences(e), now)
		if kind == KindStartingSoon && (next.Before(now) || next.After(now.Add(d.Config.Ahead))) {
			continue
		}
		if kind == KindStarted && !schedule.Live(next, duration, now) {
			continue
		}

		if !d.claim(ctx, e.ID.String(), kind, next) {
			continue // already notified for this occurrence
		}

		attendees, err := d.Attendees.ListNotifiable(e.ID)
		if err != nil {
			log.Printf("⚠️ notify: attendee lookup failed for %s: %v", e.ID, err)
			continue
		}
		for _, a := range attendees {
			facts = append(facts, Fact{
				Kind:      kind,
				EventID:   e.ID,
				EventName: e.Name,
				Attendee:  a.User,
				StartsAt:  next,
			})
		}
	}

	if len(facts) > 0 {
		d.publish(ctx, facts)
	}
}

// publish splits the facts into fixed-size sub-batches and retries each
// failed sub-batch with backoff up to the retry ceiling. A sub-batch that
// exhausts its retries is dropped as a final failure and never blocks the
// rest of the batch.
func (d *Dispatcher) publish(ctx context.Context, facts []Fact) {
	for start := 0; start < len(facts); start += d.Config.BatchSize {
		end := start + d.Config.BatchSize
		if end > len(facts) {
			end = len(facts)
		}
		batch := facts[start:end]

		var err error
		for attempt := 0; attempt < d.Config.MaxRetries; attempt++ {
			if attempt > 0 {
				select {
				case <-ctx.Done():
					return
				case <-time.After(backoff(attempt)):
				}
			}
			if err = d.Sink.Publish(ctx, batch); err == nil {
				break
			}
		}
		if err != nil {
			log.Printf("❌ notify: dropping %d facts after %d attempts: %v", len(batch), d.Config.MaxRetries, err)
		}
	}
}

func backoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt-1)) * time.Second
}

// claim takes the per-(event, occurrence, kind) guard. SETNX with a TTL means
// a restart inside the window cannot re-notify.
func (d *Dispatcher) claim(ctx context.Context, eventID, kind string, occurrence time.Time) bool {
	if d.Redis == nil {
		return true
	}
	key := fmt.Sprintf("notify:%s:%s:%d", kind, eventID, occurrence.Unix())
	ok, err := d.Redis.SetNX(ctx, key, 1, dedupTTL).Result()
	if err != nil {
		log.Printf("⚠️ notify: dedup guard unavailable, sending anyway: %v", err)
		return true
	}
	return ok
}
