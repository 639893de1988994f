package http

import (
	"net/http"

	"portal/entities"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type redeemPoolRequest struct {
	Amount   entities.Money `json:"amount"`
	Quantity int            `json:"quantity"`
}

func (h *Handler) PostRedeemPools(c echo.Context) error {
	var request redeemPoolRequest

	err := c.Bind(&request)
	if err != nil {
		return err
	}

	if request.Quantity < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "quantity must be greater than 0")
	}

	response, err := h.redeemRepo.CreatePool(c.Request().Context(), entities.RedeemPool{
		PoolID:    uuid.New(),
		Amount:    request.Amount,
		Quantity:  request.Quantity,
		CreatedBy: adminIDFromContext(c),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, response)
}

func (h *Handler) GetRedeemPool(c echo.Context) error {
	poolID, err := uuid.Parse(c.Param("pool_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pool id")
	}

	view, err := h.redeemRepo.PoolByID(c.Request().Context(), poolID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, view)
}

type redeemRequest struct {
	UserID uuid.UUID `json:"user_id"`
	Code   string    `json:"code"`
}

func (h *Handler) PostRedeem(c echo.Context) error {
	var request redeemRequest

	err := c.Bind(&request)
	if err != nil {
		return err
	}

	if request.Code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "code is required")
	}

	response, err := h.redeemRepo.Redeem(c.Request().Context(), request.Code, request.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, response)
}
