package http

import (
	"fmt"
	"net/http"

	"portal/entities"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type newsCreateRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (h *Handler) PostNews(c echo.Context) error {
	var request newsCreateRequest

	err := c.Bind(&request)
	if err != nil {
		return err
	}

	if request.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}

	response, err := h.newsRepo.Create(c.Request().Context(), entities.NewsPost{
		PostID:   uuid.New(),
		AuthorID: adminIDFromContext(c),
		Title:    request.Title,
		Body:     request.Body,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, response)
}

func (h *Handler) PutNewsPublish(c echo.Context) error {
	postID, err := uuid.Parse(c.Param("post_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post id")
	}

	if err := h.newsRepo.Publish(c.Request().Context(), postID); err != nil {
		return err
	}

	return c.NoContent(http.StatusOK)
}

func (h *Handler) GetNews(c echo.Context) error {
	posts, err := h.newsRepo.ListPublished(c.Request().Context())
	if err != nil {
		return fmt.Errorf("failed getting news posts: %w", err)
	}

	return c.JSON(http.StatusOK, posts)
}
