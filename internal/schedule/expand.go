package schedule

import (
	"time"

	"github.com/teambition/rrule-go"
)

// DefaultCap bounds how many occurrences an expansion may produce. Rules that
// would mathematically yield more are truncated, never rejected.
const DefaultCap = 10

// Expand turns a recurrence pattern anchored at the event's start into a
// bounded, strictly ascending list of occurrence starts.
//
// The anchor is always the first element: if it does not itself satisfy the
// rule it is still prepended, since an event's own start is never excluded
// from its occurrence list. A weekly pattern with an empty weekday mask falls
// back to the anchor's weekday, so expansion never comes back empty. Monthday
// values beyond a month's day count skip that month rather than clamping
// (plain RRULE semantics).
func Expand(p Pattern, anchor time.Time, cap int) []time.Time {
	if cap <= 0 {
		cap = DefaultCap
	}
	anchor = anchor.UTC().Truncate(time.Second)

	r, err := rrule.NewRRule(p.roption(anchor))
	if err != nil {
		// An invalid pattern should have been caught by Validate; degrade to
		// the anchor alone rather than losing the event's own start.
		return []time.Time{anchor}
	}

	dates := make([]time.Time, 0, cap)
	next := r.Iterator()
	for len(dates) < cap {
		d, ok := next()
		if !ok {
			break
		}
		d = d.UTC()
		if p.Until != nil && d.After(p.Until.UTC()) {
			break
		}
		if len(dates) > 0 && !d.After(dates[len(dates)-1]) {
			continue // dedupe, keep strictly ascending
		}
		dates = append(dates, d)
	}

	if len(dates) == 0 || !dates[0].Equal(anchor) {
		dates = append([]time.Time{anchor}, dates...)
		if len(dates) > cap {
			dates = dates[:cap]
		}
	}
	return dates
}

// roption translates the pattern into the rrule engine's options.
func (p Pattern) roption(anchor time.Time) rrule.ROption {
	opt := rrule.ROption{
		Freq:     p.Frequency.rrule(),
		Interval: p.Interval,
		Dtstart:  anchor,
	}
	if opt.Interval < 1 {
		opt.Interval = 1
	}
	if p.Count != nil {
		opt.Count = *p.Count
	}
	if p.Until != nil {
		opt.Until = p.Until.UTC()
	}

	weekdays := p.Weekdays
	if p.Frequency == Weekly && weekdays.IsEmpty() {
		weekdays = weekdays.With(anchor.Weekday())
	}
	for _, d := range weekdays.Weekdays() {
		opt.Byweekday = append(opt.Byweekday, rruleWeekdays[d])
	}
	for _, m := range p.Months.Months() {
		opt.Bymonth = append(opt.Bymonth, int(m))
	}
	if p.MonthDay != nil {
		opt.Bymonthday = []int{*p.MonthDay}
	}
	if p.SetPos != nil {
		opt.Bysetpos = []int{int(*p.SetPos)}
	}
	return opt
}
