package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/creativehub/services-hub/internal/core/domain"
	"github.com/creativehub/services-hub/internal/core/ports"
)

const (
	postNotFound  = "Post not found"
	invalidPostID = "Invalid post id"
)

type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// List returns every post, newest first.
//
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Success      200  {object}  Envelope{data=[]domain.Post}
// @Failure      500  {object}  Envelope
// @Router       /api/posts [get]
func (h *PostHandler) List(c echo.Context) error {
	posts, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, posts)
}

// Get returns a single post.
//
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  Envelope{data=domain.Post}
// @Failure      400  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Failure      500  {object}  Envelope
// @Router       /api/posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return Fail(c, http.StatusBadRequest, invalidPostID)
	}

	post, err := h.service.Get(c.Request().Context(), id)
	switch {
	case errors.Is(err, domain.ErrPostNotFound):
		return Fail(c, http.StatusNotFound, postNotFound)
	case errors.Is(err, domain.ErrInvalidPostID):
		return Fail(c, http.StatusBadRequest, invalidPostID)
	case err != nil:
		return err
	}
	return respondData(c, http.StatusOK, post)
}
