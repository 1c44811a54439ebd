package schedule

import (
	"testing"
	"time"
)

func TestNextOccurrencePicksFirstNotElapsed(t *testing.T) {
	day := date(2025, time.June, 10)
	occurrences := []time.Time{
		day.Add(10 * time.Hour),
		day.Add(17 * time.Hour),
	}
	duration := time.Hour

	// 10:30 — the 10:00 occurrence is still running.
	got := NextOccurrence(duration, nil, occurrences, day.Add(10*time.Hour+30*time.Minute))
	if !got.Equal(occurrences[0]) {
		t.Errorf("at 10:30 got %v, want 10:00", got)
	}

	// 11:30 — 10:00 has finished, 17:00 is next.
	got = NextOccurrence(duration, nil, occurrences, day.Add(11*time.Hour+30*time.Minute))
	if !got.Equal(occurrences[1]) {
		t.Errorf("at 11:30 got %v, want 17:00", got)
	}
}

// A fully elapsed event resolves to its last occurrence, never an error value.
func TestNextOccurrenceFallbackWhenElapsed(t *testing.T) {
	occurrences := []time.Time{
		date(2024, time.January, 1),
		date(2024, time.February, 1),
	}
	got := NextOccurrence(time.Hour, nil, occurrences, date(2025, time.June, 1))
	if !got.Equal(occurrences[1]) {
		t.Errorf("got %v, want last occurrence %v", got, occurrences[1])
	}
}

// A still-valid cached value short-circuits, even when the occurrence list
// disagrees with it.
func TestNextOccurrenceCacheShortCircuit(t *testing.T) {
	cached := date(2025, time.June, 20)
	occurrences := []time.Time{date(2025, time.June, 5)}

	got := NextOccurrence(time.Hour, &cached, occurrences, date(2025, time.June, 10))
	if !got.Equal(cached) {
		t.Errorf("got %v, want cached %v", got, cached)
	}
}

func TestNextOccurrenceStaleCacheRescans(t *testing.T) {
	cached := date(2025, time.June, 1)
	occurrences := []time.Time{
		date(2025, time.June, 1),
		date(2025, time.June, 8),
	}
	got := NextOccurrence(time.Hour, &cached, occurrences, date(2025, time.June, 3))
	if !got.Equal(occurrences[1]) {
		t.Errorf("got %v, want rescanned %v", got, occurrences[1])
	}
}

func TestNextOccurrenceIdempotent(t *testing.T) {
	occurrences := []time.Time{date(2025, time.June, 5), date(2025, time.June, 12)}
	now := date(2025, time.June, 6)

	first := NextOccurrence(time.Hour, nil, occurrences, now)
	second := NextOccurrence(time.Hour, &first, occurrences, now)
	if !first.Equal(second) {
		t.Errorf("not idempotent: %v then %v", first, second)
	}
}

func TestLive(t *testing.T) {
	start := date(2025, time.June, 10).Add(10 * time.Hour)
	cases := []struct {
		now  time.Time
		want bool
	}{
		{start.Add(-time.Minute), false},
		{start, true},
		{start.Add(30 * time.Minute), true},
		{start.Add(time.Hour), true},
		{start.Add(time.Hour + time.Minute), false},
	}
	for _, tc := range cases {
		if got := Live(start, time.Hour, tc.now); got != tc.want {
			t.Errorf("Live at %v = %v, want %v", tc.now, got, tc.want)
		}
	}
}
