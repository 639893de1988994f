package http

import (
	"fmt"
	"net/http"

	"portal/entities"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ticketPurchaseRequest struct {
	UserID uuid.UUID `json:"user_id"`
}

func (h *Handler) PostPurchaseTicket(c echo.Context) error {
	eventID, err := uuid.Parse(c.Param("event_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}

	var request ticketPurchaseRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	response, err := h.ticketRepo.Purchase(c.Request().Context(), entities.TicketPurchase{
		TicketID: uuid.New(),
		EventID:  eventID,
		UserID:   request.UserID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, response)
}

func (h *Handler) PutTicketRefund(c echo.Context) error {
	ticketID, err := uuid.Parse(c.Param("ticket_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid ticket id")
	}

	cmd := entities.RefundTicket{
		Header:   entities.NewEventHeaderWithIdempotencyKey(ticketID.String()),
		TicketID: ticketID,
	}

	if err := h.cmdBus.Send(c.Request().Context(), cmd); err != nil {
		return fmt.Errorf("failed to send refund ticket command: %w", err)
	}

	return c.NoContent(http.StatusAccepted)
}

func (h *Handler) GetTickets(c echo.Context) error {
	userID, err := uuid.Parse(c.QueryParam("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id query param is required")
	}

	tickets, err := h.ticketRepo.GetByUser(c.Request().Context(), userID)
	if err != nil {
		return fmt.Errorf("failed getting tickets: %w", err)
	}

	return c.JSON(http.StatusOK, tickets)
}
