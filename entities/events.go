package entities

import (
	"time"

	"github.com/google/uuid"
)

type EventHeader struct {
	ID             string    `json:"id"`
	PublishedAt    time.Time `json:"published_at"`
	IdempotencyKey string    `json:"idempotency_key"`
}

func NewEventHeader() EventHeader {
	return EventHeader{
		ID:             uuid.NewString(),
		PublishedAt:    time.Now().UTC(),
		IdempotencyKey: uuid.NewString(),
	}
}

func NewEventHeaderWithIdempotencyKey(idempotencyKey string) EventHeader {
	return EventHeader{
		ID:             uuid.NewString(),
		PublishedAt:    time.Now().UTC(),
		IdempotencyKey: idempotencyKey,
	}
}

type IEvent interface {
	IsInternal() bool
}

type UserRegistered_v1 struct {
	Header EventHeader `json:"header"`

	UserID   uuid.UUID `json:"user_id"`
	WalletID uuid.UUID `json:"wallet_id"`
	Email    string    `json:"email"`
}

func (e UserRegistered_v1) IsInternal() bool { return false }

type KycSubmitted_v1 struct {
	Header EventHeader `json:"header"`

	ApplicationID uuid.UUID `json:"application_id"`
	UserID        uuid.UUID `json:"user_id"`
}

func (e KycSubmitted_v1) IsInternal() bool { return false }

type KycApproved_v1 struct {
	Header EventHeader `json:"header"`

	ApplicationID uuid.UUID `json:"application_id"`
	UserID        uuid.UUID `json:"user_id"`
}

func (e KycApproved_v1) IsInternal() bool { return false }

type KycRejected_v1 struct {
	Header EventHeader `json:"header"`

	ApplicationID uuid.UUID `json:"application_id"`
	UserID        uuid.UUID `json:"user_id"`
	Reason        string    `json:"reason"`
}

func (e KycRejected_v1) IsInternal() bool { return false }

type TransferCompleted_v1 struct {
	Header EventHeader `json:"header"`

	TransferID uuid.UUID `json:"transfer_id"`
	FromUserID uuid.UUID `json:"from_user_id"`
	ToUserID   uuid.UUID `json:"to_user_id"`
	Gross      Money     `json:"gross"`
	Fee        Money     `json:"fee"`
	Net        Money     `json:"net"`
}

func (e TransferCompleted_v1) IsInternal() bool { return false }

type FeeCollected_v1 struct {
	Header EventHeader `json:"header"`

	UserID      uuid.UUID `json:"user_id"`
	Source      string    `json:"source"`
	ReferenceID string    `json:"reference_id"`
	Amount      Money     `json:"amount"`
}

func (e FeeCollected_v1) IsInternal() bool { return false }

type RedeemCodeUsed_v1 struct {
	Header EventHeader `json:"header"`

	Code   string    `json:"code"`
	PoolID uuid.UUID `json:"pool_id"`
	UserID uuid.UUID `json:"user_id"`
	Amount Money     `json:"amount"`
}

func (e RedeemCodeUsed_v1) IsInternal() bool { return false }

type EventSubmitted_v1 struct {
	Header EventHeader `json:"header"`

	EventID     uuid.UUID `json:"event_id"`
	OrganizerID uuid.UUID `json:"organizer_id"`
	Title       string    `json:"title"`
}

func (e EventSubmitted_v1) IsInternal() bool { return false }

type EventApproved_v1 struct {
	Header EventHeader `json:"header"`

	EventID uuid.UUID `json:"event_id"`
}

func (e EventApproved_v1) IsInternal() bool { return false }

type EventRejected_v1 struct {
	Header EventHeader `json:"header"`

	EventID uuid.UUID `json:"event_id"`
	Reason  string    `json:"reason"`
}

func (e EventRejected_v1) IsInternal() bool { return false }

type TicketIssued_v1 struct {
	Header EventHeader `json:"header"`

	TicketID    uuid.UUID `json:"ticket_id"`
	EventID     uuid.UUID `json:"event_id"`
	UserID      uuid.UUID `json:"user_id"`
	OrganizerID uuid.UUID `json:"organizer_id"`
	Price       Money     `json:"price"`
	Fee         Money     `json:"fee"`
}

func (e TicketIssued_v1) IsInternal() bool { return false }

type TicketRefunded_v1 struct {
	Header EventHeader `json:"header"`

	TicketID    uuid.UUID `json:"ticket_id"`
	UserID      uuid.UUID `json:"user_id"`
	OrganizerID uuid.UUID `json:"organizer_id"`
	Refund      Money     `json:"refund"`
}

func (e TicketRefunded_v1) IsInternal() bool { return false }

type TicketReceiptStored_v1 struct {
	Header EventHeader `json:"header"`

	TicketID uuid.UUID `json:"ticket_id"`
	FileName string    `json:"file_name"`
	FileURL  string    `json:"file_url"`
}

func (e TicketReceiptStored_v1) IsInternal() bool { return false }

type InvoicePaid_v1 struct {
	Header EventHeader `json:"header"`

	InvoiceID uuid.UUID `json:"invoice_id"`
	IssuerID  uuid.UUID `json:"issuer_id"`
	PayerID   uuid.UUID `json:"payer_id"`
	Gross     Money     `json:"gross"`
	Fee       Money     `json:"fee"`
	Net       Money     `json:"net"`
}

func (e InvoicePaid_v1) IsInternal() bool { return false }

type WithdrawalRequested_v1 struct {
	Header EventHeader `json:"header"`

	WithdrawalID uuid.UUID `json:"withdrawal_id"`
	UserID       uuid.UUID `json:"user_id"`
	Amount       Money     `json:"amount"`
	Fee          Money     `json:"fee"`
}

func (e WithdrawalRequested_v1) IsInternal() bool { return false }

type WithdrawalPaid_v1 struct {
	Header EventHeader `json:"header"`

	WithdrawalID uuid.UUID `json:"withdrawal_id"`
	UserID       uuid.UUID `json:"user_id"`
	Amount       Money     `json:"amount"`
	Fee          Money     `json:"fee"`
}

func (e WithdrawalPaid_v1) IsInternal() bool { return false }

type WithdrawalRejected_v1 struct {
	Header EventHeader `json:"header"`

	WithdrawalID uuid.UUID `json:"withdrawal_id"`
	UserID       uuid.UUID `json:"user_id"`
	Reason       string    `json:"reason"`
}

func (e WithdrawalRejected_v1) IsInternal() bool { return false }

// EventLogEntry is a raw row of the append-only event log.
type EventLogEntry struct {
	EventID     uuid.UUID `json:"event_id" db:"event_id"`
	PublishedAt time.Time `json:"published_at" db:"published_at"`
	EventName   string    `json:"event_name" db:"event_name"`
	Payload     []byte    `json:"payload" db:"event_payload"`
}
