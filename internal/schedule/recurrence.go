package schedule

import (
	"errors"
	"time"

	"github.com/teambition/rrule-go"
)

// Frequency is the repeat unit of a recurrence pattern.
type Frequency string

const (
	Yearly   Frequency = "yearly"
	Monthly  Frequency = "monthly"
	Weekly   Frequency = "weekly"
	Daily    Frequency = "daily"
	Hourly   Frequency = "hourly"
	Minutely Frequency = "minutely"
	Secondly Frequency = "secondly"
)

func (f Frequency) Valid() bool {
	switch f {
	case Yearly, Monthly, Weekly, Daily, Hourly, Minutely, Secondly:
		return true
	}
	return false
}

func (f Frequency) rrule() rrule.Frequency {
	switch f {
	case Yearly:
		return rrule.YEARLY
	case Monthly:
		return rrule.MONTHLY
	case Weekly:
		return rrule.WEEKLY
	case Daily:
		return rrule.DAILY
	case Hourly:
		return rrule.HOURLY
	case Minutely:
		return rrule.MINUTELY
	default:
		return rrule.SECONDLY
	}
}

// WeekdayMask is a bitset of weekdays, bit i = time.Weekday(i).
type WeekdayMask uint8

const (
	OnSunday    WeekdayMask = 1 << time.Sunday
	OnMonday    WeekdayMask = 1 << time.Monday
	OnTuesday   WeekdayMask = 1 << time.Tuesday
	OnWednesday WeekdayMask = 1 << time.Wednesday
	OnThursday  WeekdayMask = 1 << time.Thursday
	OnFriday    WeekdayMask = 1 << time.Friday
	OnSaturday  WeekdayMask = 1 << time.Saturday

	allWeekdays WeekdayMask = 1<<7 - 1
)

func (m WeekdayMask) Has(d time.Weekday) bool { return m&(1<<uint(d)) != 0 }

func (m WeekdayMask) With(d time.Weekday) WeekdayMask { return m | 1<<uint(d) }

func (m WeekdayMask) IsEmpty() bool { return m == 0 }

func (m WeekdayMask) Valid() bool { return m <= allWeekdays }

// Weekdays returns the set members in Sunday..Saturday order.
func (m WeekdayMask) Weekdays() []time.Weekday {
	var out []time.Weekday
	for d := time.Sunday; d <= time.Saturday; d++ {
		if m.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

// MonthMask is a bitset of months, bit i = time.Month(i) (bit 0 unused).
type MonthMask uint16

const (
	InJanuary   MonthMask = 1 << time.January
	InFebruary  MonthMask = 1 << time.February
	InMarch     MonthMask = 1 << time.March
	InApril     MonthMask = 1 << time.April
	InMay       MonthMask = 1 << time.May
	InJune      MonthMask = 1 << time.June
	InJuly      MonthMask = 1 << time.July
	InAugust    MonthMask = 1 << time.August
	InSeptember MonthMask = 1 << time.September
	InOctober   MonthMask = 1 << time.October
	InNovember  MonthMask = 1 << time.November
	InDecember  MonthMask = 1 << time.December

	allMonths MonthMask = 1<<13 - 2
)

func (m MonthMask) Has(month time.Month) bool { return m&(1<<uint(month)) != 0 }

func (m MonthMask) With(month time.Month) MonthMask { return m | 1<<uint(month) }

func (m MonthMask) IsEmpty() bool { return m == 0 }

func (m MonthMask) Valid() bool { return m&^allMonths == 0 }

// Months returns the set members in January..December order.
func (m MonthMask) Months() []time.Month {
	var out []time.Month
	for month := time.January; month <= time.December; month++ {
		if m.Has(month) {
			out = append(out, month)
		}
	}
	return out
}

// SetPos selects one weekday instance per month: 1..5 for the nth, Last for
// the final one regardless of month length.
type SetPos int

const Last SetPos = -1

func (p SetPos) Valid() bool { return p == Last || (p >= 1 && p <= 5) }

// Pattern is the value encoding of a repeat rule. The bound is exactly one of
// Count or Until.
type Pattern struct {
	Frequency Frequency
	Interval  int
	Weekdays  WeekdayMask
	Months    MonthMask
	MonthDay  *int
	SetPos    *SetPos
	Count     *int
	Until     *time.Time
}

var (
	ErrBadFrequency   = errors.New("recurrence: unknown frequency")
	ErrBadInterval    = errors.New("recurrence: interval must be >= 1")
	ErrBadWeekdayMask = errors.New("recurrence: weekday mask out of range")
	ErrBadMonthMask   = errors.New("recurrence: month mask out of range")
	ErrBadMonthDay    = errors.New("recurrence: monthday must be in 1..31")
	ErrBadSetPos      = errors.New("recurrence: setpos must be 1..5 or last")
	ErrSetPosConflict = errors.New("recurrence: setpos and monthday are mutually exclusive")
	ErrBoundMissing   = errors.New("recurrence: one of count or until is required")
	ErrBoundConflict  = errors.New("recurrence: count and until are mutually exclusive")
	ErrBadCount       = errors.New("recurrence: count must be >= 1")
)

// Validate checks the pattern as a unit.
func (p Pattern) Validate() error {
	if !p.Frequency.Valid() {
		return ErrBadFrequency
	}
	if p.Interval < 1 {
		return ErrBadInterval
	}
	if !p.Weekdays.Valid() {
		return ErrBadWeekdayMask
	}
	if !p.Months.Valid() {
		return ErrBadMonthMask
	}
	if p.MonthDay != nil && (*p.MonthDay < 1 || *p.MonthDay > 31) {
		return ErrBadMonthDay
	}
	if p.SetPos != nil && !p.SetPos.Valid() {
		return ErrBadSetPos
	}
	if p.SetPos != nil && p.MonthDay != nil {
		return ErrSetPosConflict
	}
	if p.Count == nil && p.Until == nil {
		return ErrBoundMissing
	}
	if p.Count != nil && p.Until != nil {
		return ErrBoundConflict
	}
	if p.Count != nil && *p.Count < 1 {
		return ErrBadCount
	}
	return nil
}

var rruleWeekdays = [7]rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}
