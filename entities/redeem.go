package entities

import (
	"time"

	"github.com/google/uuid"
)

// RedeemPool is a batch of one-time codes, each crediting a wallet with the
// same fixed amount.
type RedeemPool struct {
	PoolID    uuid.UUID `json:"pool_id" db:"pool_id"`
	Amount    Money     `json:"amount" db:"amount"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedBy uuid.UUID `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type RedeemCode struct {
	Code     string     `json:"code" db:"code"`
	PoolID   uuid.UUID  `json:"pool_id" db:"pool_id"`
	Status   string     `json:"status" db:"status"`
	UsedBy   *uuid.UUID `json:"used_by,omitempty" db:"used_by"`
	UsedAt   *time.Time `json:"used_at,omitempty" db:"used_at"`
}

const (
	RedeemCodeStatusUnused = "unused"
	RedeemCodeStatusUsed   = "used"
)

type RedeemPoolCreateResponse struct {
	PoolID uuid.UUID `json:"pool_id"`
	Codes  []string  `json:"codes"`
}

type RedeemPoolView struct {
	Pool      RedeemPool `json:"pool"`
	Remaining int        `json:"remaining"`
}

type RedeemResponse struct {
	Amount Money `json:"amount"`
}
