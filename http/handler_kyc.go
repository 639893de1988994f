package http

import (
	"fmt"
	"net/http"

	"portal/entities"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type kycSubmitRequest struct {
	UserID         uuid.UUID `json:"user_id"`
	FullName       string    `json:"full_name"`
	DocumentNumber string    `json:"document_number"`
	Document       string    `json:"document"`
}

func (h *Handler) PostKyc(c echo.Context) error {
	var request kycSubmitRequest

	err := c.Bind(&request)
	if err != nil {
		return err
	}

	if request.FullName == "" || request.DocumentNumber == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "full_name and document_number are required")
	}
	if request.Document == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "document is required")
	}

	applicationID := uuid.New()

	documentURL, err := h.documentStore.StoreDocument(
		c.Request().Context(),
		applicationID.String()+"-kyc-document",
		request.Document,
	)
	if err != nil {
		return fmt.Errorf("could not store kyc document: %w", err)
	}

	response, err := h.kycRepo.Create(c.Request().Context(), entities.KycApplication{
		ApplicationID:  applicationID,
		UserID:         request.UserID,
		FullName:       request.FullName,
		DocumentNumber: request.DocumentNumber,
		DocumentURL:    documentURL,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, response)
}

type reviewRequest struct {
	Decision string `json:"decision"`
	Reason   string `json:"reason"`
}

func (r reviewRequest) approve() (bool, error) {
	switch r.Decision {
	case "approve":
		return true, nil
	case "reject":
		return false, nil
	default:
		return false, echo.NewHTTPError(http.StatusBadRequest, "decision must be approve or reject")
	}
}

func (h *Handler) PutKycReview(c echo.Context) error {
	applicationID, err := uuid.Parse(c.Param("application_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid application id")
	}

	var request reviewRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	approve, err := request.approve()
	if err != nil {
		return err
	}

	err = h.kycRepo.Review(c.Request().Context(), applicationID, approve, request.Reason, adminIDFromContext(c))
	if err != nil {
		return err
	}

	return c.NoContent(http.StatusOK)
}

func (h *Handler) GetKycApplications(c echo.Context) error {
	applications, err := h.kycRepo.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return fmt.Errorf("failed getting kyc applications: %w", err)
	}

	return c.JSON(http.StatusOK, applications)
}
