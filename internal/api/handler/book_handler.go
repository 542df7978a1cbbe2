package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bibliotech/circulation-api/internal/core/ports"
)

type BookHandler struct {
	bookService ports.BookService
	flashes     ports.FlashStore
}

func NewBookHandler(bookService ports.BookService, flashes ports.FlashStore) *BookHandler {
	return &BookHandler{bookService: bookService, flashes: flashes}
}

// List returns the catalog, optionally filtered by title substring.
//
// @Summary      List books
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        title  query  string  false  "case-insensitive title filter"
// @Success      200  {array}  domain.BookListing
// @Router       /v1/books [get]
func (h *BookHandler) List(c echo.Context) error {
	books, err := h.bookService.List(c.Request().Context(), c.QueryParam("title"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, books)
}

// ListAvailable returns id+title of books that can currently be lent.
//
// @Summary      List available books
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.BookRef
// @Router       /v1/books/available [get]
func (h *BookHandler) ListAvailable(c echo.Context) error {
	refs, err := h.bookService.ListAvailable(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, refs)
}

// Get returns one book with its authors.
//
// @Summary      Get a book
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "book id"
// @Success      200  {object}  domain.BookDetail
// @Failure      404  {object}  map[string]string
// @Router       /v1/books/{id} [get]
func (h *BookHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	book, err := h.bookService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, book)
}

// Create adds a book with its author associations.
//
// @Summary      Create a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  bookRequest  true  "Book details"
// @Success      201  {object}  domain.BookDetail
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /v1/books [post]
func (h *BookHandler) Create(c echo.Context) error {
	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	book, err := h.bookService.Create(c.Request().Context(), ports.CreateBookInput{
		Title:       req.Title,
		ISBN:        req.ISBN,
		Year:        req.Year,
		Description: req.Description,
		AuthorIDs:   req.AuthorIDs,
	})
	if err != nil {
		return err
	}

	flashSuccess(c, h.flashes, "book created")
	return c.JSON(http.StatusCreated, book)
}

// Update rewrites a book and replaces its author set.
//
// @Summary      Update a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int          true  "book id"
// @Param        body  body  bookRequest  true  "Book details"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /v1/books/{id} [put]
func (h *BookHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.bookService.Update(c.Request().Context(), ports.UpdateBookInput{
		ID:          id,
		Title:       req.Title,
		ISBN:        req.ISBN,
		Year:        req.Year,
		Description: req.Description,
		AuthorIDs:   req.AuthorIDs,
	}); err != nil {
		return err
	}

	flashSuccess(c, h.flashes, "book updated")
	return c.JSON(http.StatusOK, messageResponse{Message: "book updated"})
}

// Delete removes a book that has no open loan.
//
// @Summary      Delete a book
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "book id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /v1/books/{id} [delete]
func (h *BookHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.bookService.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	flashSuccess(c, h.flashes, "book deleted")
	return c.JSON(http.StatusOK, messageResponse{Message: "book deleted"})
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
