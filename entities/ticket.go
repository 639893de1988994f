package entities

import (
	"time"

	"github.com/google/uuid"
)

type Ticket struct {
	TicketID    uuid.UUID `json:"ticket_id" db:"ticket_id"`
	EventID     uuid.UUID `json:"event_id" db:"event_id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Price       Money     `json:"price" db:"price"`
	Fee         Money     `json:"fee" db:"fee"`
	Status      string    `json:"status" db:"status"`
	PurchasedAt time.Time `json:"purchased_at" db:"purchased_at"`
}

const (
	TicketStatusConfirmed = "confirmed"
	TicketStatusRefunded  = "refunded"
)

type TicketPurchase struct {
	TicketID uuid.UUID `json:"ticket_id"`
	EventID  uuid.UUID `json:"event_id"`
	UserID   uuid.UUID `json:"user_id"`
}

type TicketPurchaseResponse struct {
	TicketID uuid.UUID `json:"ticket_id"`
	Price    Money     `json:"price"`
	Fee      Money     `json:"fee"`
}
