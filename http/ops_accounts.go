package http

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func (h *Handler) GetOpsAccounts(c echo.Context) error {
	accounts, err := h.opsAccountsRepo.GetAll(c.Request().Context())
	if err != nil {
		return fmt.Errorf("failed getting ops accounts: %w", err)
	}

	return c.JSON(http.StatusOK, accounts)
}

func (h *Handler) GetOpsAccountByID(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	account, err := h.opsAccountsRepo.GetByID(c.Request().Context(), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return echo.NewHTTPError(http.StatusNotFound, "account not found")
	}
	if err != nil {
		return fmt.Errorf("failed getting ops account: %w", err)
	}

	return c.JSON(http.StatusOK, account)
}
