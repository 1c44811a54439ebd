package event

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atalvarez9/events-directory-backend/internal/apierror"
)

// List modes.
const (
	ListAll      = "all"
	ListActive   = "active"
	ListLive     = "live"
	ListUpcoming = "upcoming"
)

const (
	maxLimit     = 500
	defaultLimit = 100

	// Below this many word characters a search is too unselective to run.
	minSearchRunes = 3
)

// Caller is the optional authenticated identity a list/detail request carries.
type Caller struct {
	Address string
	Admin   bool
}

// FilterRequest is the validated query surface of the list endpoint.
type FilterRequest struct {
	List         string   `form:"list"`
	Creator      string   `form:"creator"`
	Search       string   `form:"search"`
	World        *bool    `form:"world"`
	X            *int     `form:"x"`
	Y            *int     `form:"y"`
	Positions    []string `form:"positions"` // "x,y" pairs
	EstateID     string   `form:"estate_id"`
	Schedule     string   `form:"schedule"`
	WorldNames   []string `form:"world_names"`
	PlaceIDs     []string `form:"place_ids"`
	OnlyAttendee bool     `form:"only_attendee"`
	Limit        *int     `form:"limit"`
	Offset       int      `form:"offset"`
	Order        string   `form:"order"`
}

// Predicate is one typed filter clause. The repository folds them with AND in
// the order they were emitted.
type Predicate struct {
	SQL  string
	Args []interface{}
}

// CompiledQuery is the single-round-trip query plan for a list request.
type CompiledQuery struct {
	Predicates []Predicate
	Join       string
	JoinArgs   []interface{}
	OrderBy    string
	Limit      int
	Offset     int

	// Search holds the sanitized term whose rank expression must be selected;
	// empty when no ranking applies.
	Search string

	// Empty short-circuits to a zero-row result without touching the store.
	Empty bool
}

// Compile folds the filter request into a predicate set plus ranking and
// ordering strategy. Every filter is conjunctive; the rejected-events
// exclusion is always the first predicate regardless of anything else.
func Compile(f FilterRequest, caller *Caller, limits Limits, now time.Time) (*CompiledQuery, error) {
	if f.OnlyAttendee && caller == nil {
		return nil, apierror.Unauthorized("only_attendee requires authentication")
	}
	if f.Offset < 0 {
		return nil, apierror.Validation("offset must be >= 0")
	}

	q := &CompiledQuery{Offset: f.Offset}

	q.Limit = defaultLimit
	if f.Limit != nil {
		switch {
		case *f.Limit < 0:
			return nil, apierror.Validation("limit must be >= 0")
		case *f.Limit == 0:
			q.Empty = true
			return q, nil
		case *f.Limit > maxLimit:
			q.Limit = maxLimit
		default:
			q.Limit = *f.Limit
		}
	}

	q.where("events.rejected = FALSE")

	switch f.List {
	case "", ListActive:
		q.where("events.next_finish_at > ?", now)
	case ListLive:
		q.where("events.next_start_at <= ? AND events.next_finish_at > ?", now, now)
	case ListUpcoming:
		q.where("events.next_start_at > ?", now)
	case ListAll:
		// no temporal restriction
	default:
		return nil, apierror.Validation("list must be one of all, active, live, upcoming")
	}

	if caller == nil {
		q.where("events.approved = TRUE")
	} else if !caller.Admin {
		q.where("(events.approved = TRUE OR events.user = ?)", strings.ToLower(caller.Address))
	}

	if f.Creator != "" {
		q.where("events.user = ?", strings.ToLower(f.Creator))
	}

	if f.World != nil {
		q.where("events.world = ?", *f.World)
	}

	// An exact position overrides the positions list when both are present.
	switch {
	case f.X != nil && f.Y != nil:
		if !inBounds(*f.X, *f.Y, limits) {
			// No such place at the list level, not a bad request.
			q.Empty = true
			return q, nil
		}
		q.where("events.x = ? AND events.y = ?", *f.X, *f.Y)
	case len(f.Positions) > 0:
		pred, empty, err := positionsPredicate(f.Positions, limits)
		if err != nil {
			return nil, err
		}
		if empty {
			q.Empty = true
			return q, nil
		}
		q.Predicates = append(q.Predicates, pred)
	}

	if f.EstateID != "" {
		q.where("events.estate_id = ?", f.EstateID)
	}
	if f.Schedule != "" {
		q.where("events.schedules @> ?::jsonb", fmt.Sprintf(`[%q]`, f.Schedule))
	}
	if len(f.WorldNames) > 0 {
		q.where("events.server IN ?", f.WorldNames)
	}
	if len(f.PlaceIDs) > 0 {
		q.where("events.place_id IN ?", f.PlaceIDs)
	}

	if f.OnlyAttendee {
		// Left join so the null-check composes with visibility instead of
		// silently narrowing it the way an inner join would.
		q.Join = "LEFT JOIN attendees ON attendees.event_id = events.id AND attendees.user = ?"
		q.JoinArgs = []interface{}{strings.ToLower(caller.Address)}
		q.where("attendees.user IS NOT NULL")
	}

	if f.Search != "" {
		term := sanitizeSearch(f.Search)
		if wordRunes(term) < minSearchRunes {
			// Too unselective to be worth a scan.
			q.Empty = true
			return q, nil
		}
		q.Search = term
		q.where("ts_rank(events.search_vector, websearch_to_tsquery('english', ?)) > 0", term)
	}

	q.OrderBy = orderBy(q.Search != "", f.Order)
	return q, nil
}

func (q *CompiledQuery) where(sql string, args ...interface{}) {
	q.Predicates = append(q.Predicates, Predicate{SQL: sql, Args: args})
}

// orderBy keeps column selection a function of the active predicates; the
// order parameter only flips direction.
func orderBy(searching bool, order string) string {
	column, direction := "events.next_start_at", "ASC"
	if searching {
		column, direction = "rank", "DESC"
	}
	switch strings.ToLower(order) {
	case "asc":
		direction = "ASC"
	case "desc":
		direction = "DESC"
	}
	return column + " " + direction
}

// positionsPredicate builds the membership test over coordinate pairs,
// dropping pairs outside the world limits. A list with no usable pair mirrors
// the exact-position case: empty result, not an error.
func positionsPredicate(raw []string, limits Limits) (Predicate, bool, error) {
	var tuples []string
	var args []interface{}
	for _, pair := range raw {
		parts := strings.SplitN(pair, ",", 2)
		if len(parts) != 2 {
			return Predicate{}, false, apierror.Validation("positions entries must be x,y pairs")
		}
		x, errX := strconv.Atoi(strings.TrimSpace(parts[0]))
		y, errY := strconv.Atoi(strings.TrimSpace(parts[1]))
		if errX != nil || errY != nil {
			return Predicate{}, false, apierror.Validation("positions entries must be x,y pairs")
		}
		if !inBounds(x, y, limits) {
			continue
		}
		tuples = append(tuples, "(?,?)")
		args = append(args, x, y)
	}
	if len(tuples) == 0 {
		return Predicate{}, true, nil
	}
	sql := "(events.x, events.y) IN (" + strings.Join(tuples, ",") + ")"
	return Predicate{SQL: sql, Args: args}, false, nil
}

func wordRunes(s string) int {
	n := 0
	for _, r := range s {
		if r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') {
			n++
		}
	}
	return n
}
