package http

import (
	"fmt"
	"net/http"

	"portal/entities"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func (h *Handler) GetWallet(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	view, err := h.walletRepo.GetByUserID(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, view)
}

type transferRequest struct {
	FromUserID uuid.UUID      `json:"from_user_id"`
	ToUserID   uuid.UUID      `json:"to_user_id"`
	Amount     entities.Money `json:"amount"`
}

func (h *Handler) PostTransfer(c echo.Context) error {
	var request transferRequest

	err := c.Bind(&request)
	if err != nil {
		return err
	}

	response, err := h.walletRepo.Transfer(c.Request().Context(), entities.Transfer{
		TransferID: uuid.New(),
		FromUserID: request.FromUserID,
		ToUserID:   request.ToUserID,
		Amount:     request.Amount,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, response)
}

func (h *Handler) PutWalletSuspend(c echo.Context) error {
	return h.setWalletSuspended(c, true)
}

func (h *Handler) PutWalletUnsuspend(c echo.Context) error {
	return h.setWalletSuspended(c, false)
}

func (h *Handler) setWalletSuspended(c echo.Context, suspended bool) error {
	walletID, err := uuid.Parse(c.Param("wallet_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid wallet id")
	}

	err = h.walletRepo.SetSuspended(c.Request().Context(), walletID, suspended)
	if err != nil {
		return err
	}

	return c.NoContent(http.StatusOK)
}

type withdrawalRequest struct {
	Amount entities.Money `json:"amount"`
}

func (h *Handler) PostWithdrawal(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	var request withdrawalRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	response, err := h.withdrawalRepo.Request(c.Request().Context(), userID, request.Amount)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, response)
}

func (h *Handler) GetWithdrawals(c echo.Context) error {
	withdrawals, err := h.withdrawalRepo.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return fmt.Errorf("failed getting withdrawals: %w", err)
	}

	return c.JSON(http.StatusOK, withdrawals)
}

// PutWithdrawalReview approves or rejects a requested withdrawal. Approval is
// asynchronous: the payout happens when the ProcessWithdrawal command is
// handled.
func (h *Handler) PutWithdrawalReview(c echo.Context) error {
	withdrawalID, err := uuid.Parse(c.Param("withdrawal_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid withdrawal id")
	}

	var request reviewRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	approve, err := request.approve()
	if err != nil {
		return err
	}

	if !approve {
		if err := h.withdrawalRepo.Reject(c.Request().Context(), withdrawalID, request.Reason); err != nil {
			return err
		}
		return c.NoContent(http.StatusOK)
	}

	cmd := entities.ProcessWithdrawal{
		Header:       entities.NewEventHeaderWithIdempotencyKey(withdrawalID.String()),
		WithdrawalID: withdrawalID,
	}
	if err := h.cmdBus.Send(c.Request().Context(), cmd); err != nil {
		return fmt.Errorf("failed to send process withdrawal command: %w", err)
	}

	return c.NoContent(http.StatusAccepted)
}
