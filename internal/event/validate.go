package event

import (
	"fmt"
	"time"

	"github.com/atalvarez9/events-directory-backend/internal/apierror"
	"github.com/atalvarez9/events-directory-backend/internal/schedule"
)

// Limits carries the validation knobs the handlers and services share.
type Limits struct {
	WorldMin           int
	WorldMax           int
	MaxDuration        time.Duration
	RecurrenceCap      int
	LatestAttendeesCap int
}

// validate checks a create/update payload against the hard limits. List-level
// coordinate filtering is more forgiving (out of bounds means "no such
// place"), but on writes an out-of-bounds position is a client error.
func (req *CreateEventRequest) validate(limits Limits) (*schedule.Pattern, error) {
	if req.Duration < 0 {
		return nil, apierror.Validation("duration must be >= 0")
	}
	if time.Duration(req.Duration)*time.Millisecond > limits.MaxDuration {
		return nil, apierror.Validation(fmt.Sprintf("duration exceeds the maximum of %s", limits.MaxDuration))
	}

	if req.World {
		if req.Server == nil || *req.Server == "" {
			return nil, apierror.Validation("world events require a server name")
		}
		if req.X != nil || req.Y != nil {
			return nil, apierror.Validation("world events cannot carry a land position")
		}
	} else {
		if req.Server != nil {
			return nil, apierror.Validation("server is only valid for world events")
		}
		if req.X == nil || req.Y == nil {
			return nil, apierror.Validation("land events require a position")
		}
		if !inBounds(*req.X, *req.Y, limits) {
			return nil, apierror.Validation(fmt.Sprintf(
				"position (%d,%d) is outside world limits [%d,%d]",
				*req.X, *req.Y, limits.WorldMin, limits.WorldMax,
			))
		}
	}

	if !req.Recurrent {
		if req.Count != nil || req.Until != nil {
			return nil, apierror.Validation("recurrence bounds require recurrent=true")
		}
		return nil, nil
	}

	pattern, err := req.RecurrenceRequest.pattern()
	if err != nil {
		return nil, apierror.Validation(err.Error())
	}
	return pattern, nil
}

// pattern converts the flat wire fields into the schedule value type.
func (r *RecurrenceRequest) pattern() (*schedule.Pattern, error) {
	if r.Frequency == nil {
		return nil, schedule.ErrBadFrequency
	}
	// Range-check the wire ints before the narrowing casts; 256 would
	// otherwise truncate to an empty uint8 mask and validate.
	if r.WeekdayMask < 0 || r.WeekdayMask > 0x7F {
		return nil, schedule.ErrBadWeekdayMask
	}
	if r.MonthMask < 0 || r.MonthMask >= 1<<13 {
		return nil, schedule.ErrBadMonthMask
	}

	p := schedule.Pattern{
		Frequency: schedule.Frequency(*r.Frequency),
		Interval:  r.Interval,
		Weekdays:  schedule.WeekdayMask(r.WeekdayMask),
		Months:    schedule.MonthMask(r.MonthMask),
		MonthDay:  r.Monthday,
		Count:     r.Count,
		Until:     r.Until,
	}
	if r.Setpos != nil {
		sp := schedule.SetPos(*r.Setpos)
		p.SetPos = &sp
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func inBounds(x, y int, limits Limits) bool {
	return x >= limits.WorldMin && x <= limits.WorldMax &&
		y >= limits.WorldMin && y <= limits.WorldMax
}
