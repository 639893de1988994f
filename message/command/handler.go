package command

import (
	"context"

	"github.com/google/uuid"
)

type TicketRepository interface {
	Refund(ctx context.Context, ticketID uuid.UUID) error
}

type WithdrawalRepository interface {
	Payout(ctx context.Context, withdrawalID uuid.UUID) error
}

type Handler struct {
	ticketRepo     TicketRepository
	withdrawalRepo WithdrawalRepository
}

func NewHandler(ticketRepo TicketRepository, withdrawalRepo WithdrawalRepository) Handler {
	if ticketRepo == nil {
		panic("ticketRepo is required")
	}
	if withdrawalRepo == nil {
		panic("withdrawalRepo is required")
	}

	return Handler{
		ticketRepo:     ticketRepo,
		withdrawalRepo: withdrawalRepo,
	}
}
