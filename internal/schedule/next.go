package schedule

import "time"

// NextOccurrence picks the occurrence relevant to "now": the cached value when
// it has not fully elapsed (cheap path, trusted on reads), otherwise the first
// occurrence whose finish is still ahead. When every occurrence has elapsed it
// returns the last one — callers read that as "event is over", not an error.
func NextOccurrence(duration time.Duration, cachedNext *time.Time, occurrences []time.Time, now time.Time) time.Time {
	if cachedNext != nil && cachedNext.Add(duration).After(now) {
		return *cachedNext
	}
	for _, d := range occurrences {
		if d.Add(duration).After(now) {
			return d
		}
	}
	if len(occurrences) == 0 {
		if cachedNext != nil {
			return *cachedNext
		}
		return now
	}
	return occurrences[len(occurrences)-1]
}

// Live reports whether now falls within [start, start+duration].
func Live(start time.Time, duration time.Duration, now time.Time) bool {
	return !now.Before(start) && !now.After(start.Add(duration))
}
