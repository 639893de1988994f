package entities

import (
	"time"

	"github.com/google/uuid"
)

type Invoice struct {
	InvoiceID uuid.UUID  `json:"invoice_id" db:"invoice_id"`
	IssuerID  uuid.UUID  `json:"issuer_id" db:"issuer_id"`
	PayerID   uuid.UUID  `json:"payer_id" db:"payer_id"`
	Amount    Money      `json:"amount" db:"amount"`
	Memo      string     `json:"memo" db:"memo"`
	Status    string     `json:"status" db:"status"`
	IssuedAt  time.Time  `json:"issued_at" db:"issued_at"`
	PaidAt    *time.Time `json:"paid_at,omitempty" db:"paid_at"`
}

const (
	InvoiceStatusIssued = "issued"
	InvoiceStatusPaid   = "paid"
	InvoiceStatusVoid   = "void"
)

type InvoiceCreateResponse struct {
	InvoiceID uuid.UUID `json:"invoice_id"`
}

type InvoicePayResponse struct {
	InvoiceID uuid.UUID `json:"invoice_id"`
	Fee       Money     `json:"fee"`
	Net       Money     `json:"net"`
}
