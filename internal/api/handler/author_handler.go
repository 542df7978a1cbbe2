package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bibliotech/circulation-api/internal/core/ports"
)

type AuthorHandler struct {
	authorService ports.AuthorService
	flashes       ports.FlashStore
}

func NewAuthorHandler(authorService ports.AuthorService, flashes ports.FlashStore) *AuthorHandler {
	return &AuthorHandler{authorService: authorService, flashes: flashes}
}

// List returns all authors sorted by name.
//
// @Summary      List authors
// @Tags         authors
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Author
// @Router       /v1/authors [get]
func (h *AuthorHandler) List(c echo.Context) error {
	authors, err := h.authorService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authors)
}

// Get returns one author.
//
// @Summary      Get an author
// @Tags         authors
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "author id"
// @Success      200  {object}  domain.Author
// @Failure      404  {object}  map[string]string
// @Router       /v1/authors/{id} [get]
func (h *AuthorHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	author, err := h.authorService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, author)
}

// Create adds an author.
//
// @Summary      Create an author
// @Tags         authors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  authorRequest  true  "Author details"
// @Success      201  {object}  domain.Author
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /v1/authors [post]
func (h *AuthorHandler) Create(c echo.Context) error {
	var req authorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	author, err := h.authorService.Create(c.Request().Context(), ports.AuthorInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Nationality: req.Nationality,
	})
	if err != nil {
		return err
	}

	flashSuccess(c, h.flashes, "author created")
	return c.JSON(http.StatusCreated, author)
}

// Update rewrites an author.
//
// @Summary      Update an author
// @Tags         authors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int            true  "author id"
// @Param        body  body  authorRequest  true  "Author details"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/authors/{id} [put]
func (h *AuthorHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req authorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authorService.Update(c.Request().Context(), id, ports.AuthorInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Nationality: req.Nationality,
	}); err != nil {
		return err
	}

	flashSuccess(c, h.flashes, "author updated")
	return c.JSON(http.StatusOK, messageResponse{Message: "author updated"})
}

// Delete removes an author with no associated books.
//
// @Summary      Delete an author
// @Tags         authors
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "author id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /v1/authors/{id} [delete]
func (h *AuthorHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.authorService.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	flashSuccess(c, h.flashes, "author deleted")
	return c.JSON(http.StatusOK, messageResponse{Message: "author deleted"})
}
