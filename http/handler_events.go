package http

import (
	"fmt"
	"net/http"
	"time"

	"portal/entities"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type eventSubmitRequest struct {
	OrganizerID uuid.UUID      `json:"organizer_id"`
	Title       string         `json:"title"`
	Venue       string         `json:"venue"`
	StartTime   time.Time      `json:"start_time"`
	Capacity    int            `json:"capacity"`
	TicketPrice entities.Money `json:"ticket_price"`
}

func (h *Handler) PostEvents(c echo.Context) error {
	var request eventSubmitRequest

	err := c.Bind(&request)
	if err != nil {
		return err
	}

	if request.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if request.Capacity < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "capacity must be greater than 0")
	}
	if request.StartTime.Before(time.Now()) {
		return echo.NewHTTPError(http.StatusBadRequest, "start_time must be in the future")
	}

	response, err := h.eventRepo.Create(c.Request().Context(), entities.Event{
		EventID:     uuid.New(),
		OrganizerID: request.OrganizerID,
		Title:       request.Title,
		Venue:       request.Venue,
		StartTime:   request.StartTime,
		Capacity:    request.Capacity,
		TicketPrice: request.TicketPrice,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, response)
}

func (h *Handler) GetEvents(c echo.Context) error {
	events, err := h.eventRepo.ListUpcoming(c.Request().Context())
	if err != nil {
		return fmt.Errorf("failed getting events: %w", err)
	}

	return c.JSON(http.StatusOK, events)
}

func (h *Handler) GetAdminEvents(c echo.Context) error {
	events, err := h.eventRepo.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return fmt.Errorf("failed getting events: %w", err)
	}

	return c.JSON(http.StatusOK, events)
}

func (h *Handler) PutEventReview(c echo.Context) error {
	eventID, err := uuid.Parse(c.Param("event_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}

	var request reviewRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	approve, err := request.approve()
	if err != nil {
		return err
	}

	err = h.eventRepo.Review(c.Request().Context(), eventID, approve, request.Reason)
	if err != nil {
		return err
	}

	return c.NoContent(http.StatusOK)
}
