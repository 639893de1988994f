package entities

// SystemSettings is the single admin-editable row of platform parameters.
// Fee percentages are kept in basis points so fee math stays on integers.
type SystemSettings struct {
	P2PFeeBps           int64 `json:"p2p_fee_bps" db:"p2p_fee_bps"`
	TicketFeeBps        int64 `json:"ticket_fee_bps" db:"ticket_fee_bps"`
	InvoiceFeeBps       int64 `json:"invoice_fee_bps" db:"invoice_fee_bps"`
	WithdrawalFeeBps    int64 `json:"withdrawal_fee_bps" db:"withdrawal_fee_bps"`
	MinWithdrawalAmount Money `json:"min_withdrawal_amount" db:"min_withdrawal_amount"`
}

const (
	FeeSourceP2P        = "p2p"
	FeeSourceTicket     = "ticket"
	FeeSourceInvoice    = "invoice"
	FeeSourceWithdrawal = "withdrawal"
)
