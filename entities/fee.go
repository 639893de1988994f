package entities

import (
	"time"

	"github.com/google/uuid"
)

// FeeLedgerEntry records one collected platform fee.
type FeeLedgerEntry struct {
	FeeID       uuid.UUID `json:"fee_id" db:"fee_id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Source      string    `json:"source" db:"source"`
	ReferenceID string    `json:"reference_id" db:"reference_id"`
	Amount      Money     `json:"amount" db:"amount"`
	CollectedAt time.Time `json:"collected_at" db:"collected_at"`
}
