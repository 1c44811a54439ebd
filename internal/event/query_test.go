package event

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/atalvarez9/events-directory-backend/internal/apierror"
)

var testLimits = Limits{
	WorldMin:           -150,
	WorldMax:           150,
	MaxDuration:        24 * time.Hour,
	RecurrenceCap:      10,
	LatestAttendeesCap: 10,
}

var testNow = time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)

func compile(t *testing.T, f FilterRequest, caller *Caller) *CompiledQuery {
	t.Helper()
	q, err := Compile(f, caller, testLimits, testNow)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	return q
}

func hasPredicate(q *CompiledQuery, fragment string) bool {
	for _, p := range q.Predicates {
		if strings.Contains(p.SQL, fragment) {
			return true
		}
	}
	return false
}

// The rejected exclusion is unconditional and always first.
func TestCompileRejectedExcludedFirst(t *testing.T) {
	cases := []FilterRequest{
		{},
		{List: ListAll},
		{Creator: "0xABC", World: boolPtr(true)},
		{Search: "music festival"},
	}
	for _, f := range cases {
		q := compile(t, f, &Caller{Address: "0xabc", Admin: true})
		if len(q.Predicates) == 0 || q.Predicates[0].SQL != "events.rejected = FALSE" {
			t.Errorf("filters %+v: first predicate = %v", f, q.Predicates)
		}
	}
}

func TestCompileVisibility(t *testing.T) {
	// Anonymous callers only see approved events.
	q := compile(t, FilterRequest{}, nil)
	if !hasPredicate(q, "events.approved = TRUE") || hasPredicate(q, "events.user = ?") {
		t.Errorf("anonymous visibility predicates: %v", q.Predicates)
	}

	// An authenticated caller additionally sees their own.
	q = compile(t, FilterRequest{}, &Caller{Address: "0xAbC123"})
	found := false
	for _, p := range q.Predicates {
		if strings.Contains(p.SQL, "events.approved = TRUE OR events.user = ?") {
			found = true
			if p.Args[0] != "0xabc123" {
				t.Errorf("owner address not lower-cased: %v", p.Args[0])
			}
		}
	}
	if !found {
		t.Errorf("authenticated visibility predicate missing: %v", q.Predicates)
	}

	// Admins see everything except rejected.
	q = compile(t, FilterRequest{}, &Caller{Address: "0xadmin", Admin: true})
	if hasPredicate(q, "approved") {
		t.Errorf("admin should have no approval predicate: %v", q.Predicates)
	}
}

func TestCompileListModes(t *testing.T) {
	cases := []struct {
		list     string
		fragment string
	}{
		{"", "events.next_finish_at > ?"},
		{ListActive, "events.next_finish_at > ?"},
		{ListLive, "events.next_start_at <= ? AND events.next_finish_at > ?"},
		{ListUpcoming, "events.next_start_at > ?"},
	}
	for _, tc := range cases {
		q := compile(t, FilterRequest{List: tc.list}, nil)
		if !hasPredicate(q, tc.fragment) {
			t.Errorf("list=%q: missing %q in %v", tc.list, tc.fragment, q.Predicates)
		}
	}

	q := compile(t, FilterRequest{List: ListAll}, nil)
	if hasPredicate(q, "next_finish_at") || hasPredicate(q, "next_start_at >") {
		t.Errorf("list=all should have no temporal predicate: %v", q.Predicates)
	}

	if _, err := Compile(FilterRequest{List: "soonish"}, nil, testLimits, testNow); !apierror.IsClient(err) {
		t.Errorf("unknown list mode should be a client error, got %v", err)
	}
}

// A sub-3-word-character search never reaches the store; a real term adds the
// rank predicate and flips ordering to rank descending.
func TestCompileSearch(t *testing.T) {
	q := compile(t, FilterRequest{Search: "ab"}, nil)
	if !q.Empty {
		t.Error("2-character search should short-circuit to an empty result")
	}

	q = compile(t, FilterRequest{Search: "party"}, nil)
	if q.Empty {
		t.Fatal("valid search should not short-circuit")
	}
	if !hasPredicate(q, "ts_rank(events.search_vector, websearch_to_tsquery('english', ?)) > 0") {
		t.Errorf("rank predicate missing: %v", q.Predicates)
	}
	if q.OrderBy != "rank DESC" {
		t.Errorf("OrderBy = %q, want rank DESC", q.OrderBy)
	}
	if q.Search != "party" {
		t.Errorf("Search = %q", q.Search)
	}

	// tsquery operators are stripped, not interpreted.
	q = compile(t, FilterRequest{Search: "party & friends!"}, nil)
	if strings.ContainsAny(q.Search, "&!") {
		t.Errorf("operators survived sanitization: %q", q.Search)
	}
}

func TestCompileOnlyAttendee(t *testing.T) {
	// Unauthenticated: a client error, not an empty result.
	_, err := Compile(FilterRequest{OnlyAttendee: true}, nil, testLimits, testNow)
	var apiErr *apierror.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != apierror.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}

	q := compile(t, FilterRequest{OnlyAttendee: true}, &Caller{Address: "0xAbc"})
	if !strings.Contains(q.Join, "LEFT JOIN attendees") {
		t.Errorf("expected a left join, got %q", q.Join)
	}
	if len(q.JoinArgs) != 1 || q.JoinArgs[0] != "0xabc" {
		t.Errorf("join args = %v", q.JoinArgs)
	}
	if !hasPredicate(q, "attendees.user IS NOT NULL") {
		t.Errorf("null-check predicate missing: %v", q.Predicates)
	}
}

func TestCompileCoordinates(t *testing.T) {
	// Out-of-bounds exact position: empty result, not an error.
	q := compile(t, FilterRequest{X: intPtr(9999), Y: intPtr(0)}, nil)
	if !q.Empty {
		t.Error("out-of-bounds position should produce an empty result")
	}

	// Exact position overrides the positions list.
	q = compile(t, FilterRequest{
		X: intPtr(10), Y: intPtr(-20),
		Positions: []string{"1,1", "2,2"},
	}, nil)
	if !hasPredicate(q, "events.x = ? AND events.y = ?") {
		t.Errorf("exact position predicate missing: %v", q.Predicates)
	}
	if hasPredicate(q, "IN ((?,?)") {
		t.Errorf("positions list should be ignored when x,y present: %v", q.Predicates)
	}

	// Positions membership with invalid pairs dropped.
	q = compile(t, FilterRequest{Positions: []string{"1,1", "9999,0", "2,2"}}, nil)
	found := false
	for _, p := range q.Predicates {
		if strings.HasPrefix(p.SQL, "(events.x, events.y) IN") {
			found = true
			if len(p.Args) != 4 {
				t.Errorf("expected 2 surviving pairs, args = %v", p.Args)
			}
		}
	}
	if !found {
		t.Errorf("positions predicate missing: %v", q.Predicates)
	}

	// Only out-of-bounds pairs: empty result.
	q = compile(t, FilterRequest{Positions: []string{"9999,0"}}, nil)
	if !q.Empty {
		t.Error("all-invalid positions should produce an empty result")
	}

	if _, err := Compile(FilterRequest{Positions: []string{"not-a-pair"}}, nil, testLimits, testNow); !apierror.IsClient(err) {
		t.Errorf("malformed pair should be a client error, got %v", err)
	}
}

func TestCompilePagination(t *testing.T) {
	q := compile(t, FilterRequest{}, nil)
	if q.Limit != defaultLimit || q.Offset != 0 {
		t.Errorf("defaults: limit=%d offset=%d", q.Limit, q.Offset)
	}

	q = compile(t, FilterRequest{Limit: intPtr(10_000)}, nil)
	if q.Limit != maxLimit {
		t.Errorf("limit not clamped: %d", q.Limit)
	}

	q = compile(t, FilterRequest{Limit: intPtr(0)}, nil)
	if !q.Empty {
		t.Error("limit=0 should short-circuit without querying")
	}

	if _, err := Compile(FilterRequest{Offset: -1}, nil, testLimits, testNow); !apierror.IsClient(err) {
		t.Errorf("negative offset should be a client error, got %v", err)
	}
	if _, err := Compile(FilterRequest{Limit: intPtr(-5)}, nil, testLimits, testNow); !apierror.IsClient(err) {
		t.Errorf("negative limit should be a client error, got %v", err)
	}
}

// The order parameter flips direction but never the column.
func TestCompileOrdering(t *testing.T) {
	cases := []struct {
		search string
		order  string
		want   string
	}{
		{"", "", "events.next_start_at ASC"},
		{"", "desc", "events.next_start_at DESC"},
		{"party", "", "rank DESC"},
		{"party", "asc", "rank ASC"},
	}
	for _, tc := range cases {
		q := compile(t, FilterRequest{Search: tc.search, Order: tc.order}, nil)
		if q.OrderBy != tc.want {
			t.Errorf("search=%q order=%q: OrderBy = %q, want %q", tc.search, tc.order, q.OrderBy, tc.want)
		}
	}
}

func TestCompileMembershipFilters(t *testing.T) {
	q := compile(t, FilterRequest{
		Creator:    "0xCreator",
		World:      boolPtr(true),
		EstateID:   "2024",
		Schedule:   "mvfw-2025",
		WorldNames: []string{"foo.eth", "bar.eth"},
		PlaceIDs:   []string{"p1"},
	}, nil)

	for _, fragment := range []string{
		"events.user = ?",
		"events.world = ?",
		"events.estate_id = ?",
		"events.schedules @> ?",
		"events.server IN ?",
		"events.place_id IN ?",
	} {
		if !hasPredicate(q, fragment) {
			t.Errorf("missing %q in %v", fragment, q.Predicates)
		}
	}
}

func boolPtr(b bool) *bool { return &b }
func intPtr(n int) *int    { return &n }
