package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeSink struct {
	batches [][]Fact
	// failFirst makes the first N Publish calls fail.
	failFirst int
	calls     int
}

func (s *fakeSink) Publish(_ context.Context, facts []Fact) error {
	s.calls++
	if s.calls <= s.failFirst {
		return errors.New("broker unavailable")
	}
	batch := make([]Fact, len(facts))
	copy(batch, facts)
	s.batches = append(s.batches, batch)
	return nil
}

func makeFacts(n int) []Fact {
	facts := make([]Fact, n)
	for i := range facts {
		facts[i] = Fact{
			Kind:     KindStartingSoon,
			EventID:  uuid.New(),
			Attendee: "0xattendee",
			StartsAt: time.Now(),
		}
	}
	return facts
}

func testDispatcher(sink Sink, batchSize, retries int) *Dispatcher {
	return NewDispatcher(nil, nil, sink, nil, DispatcherConfig{
		Ahead:      10 * time.Minute,
		BatchSize:  batchSize,
		MaxRetries: retries,
	})
}

func TestPublishSplitsIntoBatches(t *testing.T) {
	sink := &fakeSink{}
	d := testDispatcher(sink, 10, 3)

	d.publish(context.Background(), makeFacts(25))

	if len(sink.batches) != 3 {
		t.Fatalf("expected 3 sub-batches, got %d", len(sink.batches))
	}
	sizes := []int{len(sink.batches[0]), len(sink.batches[1]), len(sink.batches[2])}
	if sizes[0] != 10 || sizes[1] != 10 || sizes[2] != 5 {
		t.Errorf("batch sizes = %v", sizes)
	}
}

func TestPublishRetriesFailedSubBatch(t *testing.T) {
	sink := &fakeSink{failFirst: 2}
	d := testDispatcher(sink, 100, 3)

	d.publish(context.Background(), makeFacts(5))

	if sink.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", sink.calls)
	}
	if len(sink.batches) != 1 || len(sink.batches[0]) != 5 {
		t.Errorf("batch never delivered: %v", sink.batches)
	}
}

// A sub-batch that exhausts its retries is dropped; later sub-batches still go
// out.
func TestPublishDropsExhaustedSubBatch(t *testing.T) {
	sink := &fakeSink{failFirst: 3}
	d := testDispatcher(sink, 10, 3)

	d.publish(context.Background(), makeFacts(20))

	// First sub-batch burns all 3 attempts and is dropped; the second lands.
	if len(sink.batches) != 1 {
		t.Fatalf("expected only the second sub-batch delivered, got %d", len(sink.batches))
	}
	if sink.calls != 4 {
		t.Errorf("expected 4 publish calls, got %d", sink.calls)
	}
}

func TestPublishStopsOnCancelledContext(t *testing.T) {
	sink := &fakeSink{failFirst: 100}
	d := testDispatcher(sink, 10, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	d.publish(ctx, makeFacts(10))
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancelled publish still waited %v on backoff", elapsed)
	}
}
