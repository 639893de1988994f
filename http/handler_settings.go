package http

import (
	"fmt"
	"net/http"

	"portal/entities"

	"github.com/labstack/echo/v4"
)

func (h *Handler) GetSettings(c echo.Context) error {
	settings, err := h.settingsRepo.Get(c.Request().Context())
	if err != nil {
		return fmt.Errorf("failed getting settings: %w", err)
	}

	return c.JSON(http.StatusOK, settings)
}

func (h *Handler) PutSettings(c echo.Context) error {
	var settings entities.SystemSettings

	err := c.Bind(&settings)
	if err != nil {
		return err
	}

	if err := h.settingsRepo.Update(c.Request().Context(), settings); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.NoContent(http.StatusOK)
}

func (h *Handler) GetFees(c echo.Context) error {
	fees, err := h.feeLedgerRepo.List(c.Request().Context(), c.QueryParam("source"))
	if err != nil {
		return fmt.Errorf("failed getting fee ledger: %w", err)
	}

	return c.JSON(http.StatusOK, fees)
}
