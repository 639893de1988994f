package entities

import (
	"time"

	"github.com/google/uuid"
)

// Event is a community event submitted by an organizer. It only becomes
// visible (and sellable) once an admin approves it.
type Event struct {
	EventID     uuid.UUID `json:"event_id" db:"event_id"`
	OrganizerID uuid.UUID `json:"organizer_id" db:"organizer_id"`
	Title       string    `json:"title" db:"title"`
	Venue       string    `json:"venue" db:"venue"`
	StartTime   time.Time `json:"start_time" db:"start_time"`
	Capacity    int       `json:"capacity" db:"capacity"`
	TicketPrice Money     `json:"ticket_price" db:"ticket_price"`
	Status      string    `json:"status" db:"status"`
	Reason      string    `json:"reason" db:"reason"`
}

const (
	EventStatusPending  = "pending"
	EventStatusApproved = "approved"
	EventStatusRejected = "rejected"
)

type EventCreateResponse struct {
	EventID uuid.UUID `json:"event_id"`
}
