package http

import (
	"net/http"

	"portal/entities"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type userCreateRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

func (h *Handler) PostUsers(c echo.Context) error {
	var request userCreateRequest

	err := c.Bind(&request)
	if err != nil {
		return err
	}

	if request.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}

	currency := request.Currency
	if currency == "" {
		currency = "USD"
	}

	response, err := h.userRepo.Create(c.Request().Context(), entities.User{
		UserID: uuid.New(),
		Email:  request.Email,
		Name:   request.Name,
		Role:   "member",
	}, currency)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, response)
}

func (h *Handler) GetUser(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	user, err := h.userRepo.GetByID(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}
