package entities

import (
	"time"

	"github.com/google/uuid"
)

// OpsAccount is the admin back-office projection of one member: balance,
// KYC state and activity, rebuilt purely from events.
type OpsAccount struct {
	UserID       uuid.UUID `json:"user_id"`
	Email        string    `json:"email"`
	KycStatus    string    `json:"kyc_status"`
	BalanceCents int64     `json:"balance_cents"`
	Currency     string    `json:"currency"`

	FeesPaidCents int64 `json:"fees_paid_cents"`
	TicketCount   int   `json:"ticket_count"`

	// Entries holds one row per balance-affecting event, keyed by event ID
	// so replays overwrite instead of duplicating.
	Entries map[string]OpsAccountEntry `json:"entries"`

	RegisteredAt time.Time `json:"registered_at"`
	LastUpdate   time.Time `json:"last_update"`
}

type OpsAccountEntry struct {
	Kind        string    `json:"kind"`
	AmountCents int64     `json:"amount_cents"`
	ReferenceID string    `json:"reference_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (a OpsAccount) WithEntry(eventID string, kind string, amountCents int64, referenceID string, occurredAt time.Time) OpsAccount {
	if a.Entries == nil {
		a.Entries = map[string]OpsAccountEntry{}
	}
	a.Entries[eventID] = OpsAccountEntry{
		Kind:        kind,
		AmountCents: amountCents,
		ReferenceID: referenceID,
		OccurredAt:  occurredAt,
	}
	return a
}
