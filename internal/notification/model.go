package notification

import (
	"time"

	"github.com/google/uuid"
)

// Fact kinds published to the sink.
const (
	KindStartingSoon = "starting_soon"
	KindStarted      = "started"
)

// Fact is one {event, attendee} pair the dispatcher decided qualifies for a
// notification. Transport, rendering and delivery live on the other side of
// the sink.
type Fact struct {
	Kind      string    `json:"kind"`
	EventID   uuid.UUID `json:"event_id"`
	EventName string    `json:"event_name"`
	Attendee  string    `json:"attendee"`
	StartsAt  time.Time `json:"starts_at"`
}
