package command

import (
	"context"
	"fmt"

	"portal/entities"
)

// RefundTicket reverses a ticket purchase. The repository does the money
// movement and publishes TicketRefunded_v1 through the outbox; re-delivery
// is safe because already refunded tickets are a no-op.
func (h *Handler) RefundTicket(ctx context.Context, cmd *entities.RefundTicket) error {
	err := h.ticketRepo.Refund(ctx, cmd.TicketID)
	if err != nil {
		return fmt.Errorf("failed to refund ticket %s: %w", cmd.TicketID, err)
	}

	return nil
}
