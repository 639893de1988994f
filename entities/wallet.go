package entities

import (
	"time"

	"github.com/google/uuid"
)

type Wallet struct {
	WalletID  uuid.UUID `json:"wallet_id" db:"wallet_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Balance   Money     `json:"balance" db:"balance"`
	Suspended bool      `json:"suspended" db:"suspended"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type WalletView struct {
	Wallet  Wallet        `json:"wallet"`
	Entries []LedgerEntry `json:"entries"`
}

// LedgerEntry is one line of a wallet's history. Amount is signed: credits
// are positive, debits negative.
type LedgerEntry struct {
	EntryID     uuid.UUID `json:"entry_id" db:"entry_id"`
	WalletID    uuid.UUID `json:"wallet_id" db:"wallet_id"`
	Kind        string    `json:"kind" db:"kind"`
	Amount      Money     `json:"amount" db:"amount"`
	ReferenceID string    `json:"reference_id" db:"reference_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

const (
	LedgerKindTransferIn  = "transfer_in"
	LedgerKindTransferOut = "transfer_out"
	LedgerKindRedeem      = "redeem"
	LedgerKindTicket      = "ticket"
	LedgerKindRefund      = "refund"
	LedgerKindInvoiceIn   = "invoice_in"
	LedgerKindInvoiceOut  = "invoice_out"
	LedgerKindWithdrawal  = "withdrawal"
)

type Transfer struct {
	TransferID uuid.UUID `json:"transfer_id"`
	FromUserID uuid.UUID `json:"from_user_id"`
	ToUserID   uuid.UUID `json:"to_user_id"`
	Amount     Money     `json:"amount"`
}

type TransferResponse struct {
	TransferID uuid.UUID `json:"transfer_id"`
	Fee        Money     `json:"fee"`
	Net        Money     `json:"net"`
}

type Withdrawal struct {
	WithdrawalID uuid.UUID  `json:"withdrawal_id" db:"withdrawal_id"`
	UserID       uuid.UUID  `json:"user_id" db:"user_id"`
	Amount       Money      `json:"amount" db:"amount"`
	Fee          Money      `json:"fee" db:"fee"`
	Status       string     `json:"status" db:"status"`
	RequestedAt  time.Time  `json:"requested_at" db:"requested_at"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty" db:"reviewed_at"`
}

const (
	WithdrawalStatusRequested = "requested"
	WithdrawalStatusPaid      = "paid"
	WithdrawalStatusRejected  = "rejected"
)

type WithdrawalCreateResponse struct {
	WithdrawalID uuid.UUID `json:"withdrawal_id"`
	Fee          Money     `json:"fee"`
}
