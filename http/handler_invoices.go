package http

import (
	"net/http"

	"portal/entities"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type invoiceCreateRequest struct {
	IssuerID uuid.UUID      `json:"issuer_id"`
	PayerID  uuid.UUID      `json:"payer_id"`
	Amount   entities.Money `json:"amount"`
	Memo     string         `json:"memo"`
}

func (h *Handler) PostInvoices(c echo.Context) error {
	var request invoiceCreateRequest

	err := c.Bind(&request)
	if err != nil {
		return err
	}

	response, err := h.invoiceRepo.Create(c.Request().Context(), entities.Invoice{
		InvoiceID: uuid.New(),
		IssuerID:  request.IssuerID,
		PayerID:   request.PayerID,
		Amount:    request.Amount,
		Memo:      request.Memo,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, response)
}

type invoicePayRequest struct {
	PayerID uuid.UUID `json:"payer_id"`
}

func (h *Handler) PostPayInvoice(c echo.Context) error {
	invoiceID, err := uuid.Parse(c.Param("invoice_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid invoice id")
	}

	var request invoicePayRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	response, err := h.invoiceRepo.Pay(c.Request().Context(), invoiceID, request.PayerID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, response)
}

func (h *Handler) GetInvoice(c echo.Context) error {
	invoiceID, err := uuid.Parse(c.Param("invoice_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid invoice id")
	}

	invoice, err := h.invoiceRepo.InvoiceByID(c.Request().Context(), invoiceID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, invoice)
}

func (h *Handler) PutInvoiceVoid(c echo.Context) error {
	invoiceID, err := uuid.Parse(c.Param("invoice_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid invoice id")
	}

	if err := h.invoiceRepo.Void(c.Request().Context(), invoiceID); err != nil {
		return err
	}

	return c.NoContent(http.StatusOK)
}
