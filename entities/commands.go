package entities

import "github.com/google/uuid"

type RefundTicket struct {
	Header EventHeader `json:"header"`

	TicketID uuid.UUID `json:"ticket_id"`
}

type ProcessWithdrawal struct {
	Header EventHeader `json:"header"`

	WithdrawalID uuid.UUID `json:"withdrawal_id"`
}
