package command

import (
	"context"
	"fmt"

	"portal/entities"
)

func (h *Handler) ProcessWithdrawal(ctx context.Context, cmd *entities.ProcessWithdrawal) error {
	err := h.withdrawalRepo.Payout(ctx, cmd.WithdrawalID)
	if err != nil {
		return fmt.Errorf("failed to process withdrawal %s: %w", cmd.WithdrawalID, err)
	}

	return nil
}
