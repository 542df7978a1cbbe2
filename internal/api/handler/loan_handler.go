package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bibliotech/circulation-api/internal/core/ports"
)

type LoanHandler struct {
	loanService ports.LoanService
	flashes     ports.FlashStore
}

func NewLoanHandler(loanService ports.LoanService, flashes ports.FlashStore) *LoanHandler {
	return &LoanHandler{loanService: loanService, flashes: flashes}
}

// Issue lends an available book to a member.
//
// @Summary      Issue a loan
// @Tags         loans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  issueLoanRequest  true  "Loan details"
// @Success      201  {object}  loanResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /v1/loans [post]
func (h *LoanHandler) Issue(c echo.Context) error {
	var req issueLoanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	loanDate, err := parseDate(req.LoanDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid loan_date")
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid due_date")
	}

	view, err := h.loanService.Issue(c.Request().Context(), ports.IssueLoanInput{
		BookID:     req.BookID,
		BorrowerID: req.BorrowerID,
		LoanDate:   loanDate,
		DueDate:    dueDate,
	})
	if err != nil {
		return err
	}

	flashSuccess(c, h.flashes, "loan issued")
	return c.JSON(http.StatusCreated, loanResponseFrom(view))
}

// Return closes an open loan and frees the book.
//
// @Summary      Return a loan
// @Tags         loans
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "loan id"
// @Success      200  {object}  loanResponse
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /v1/loans/{id}/return [post]
func (h *LoanHandler) Return(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	view, err := h.loanService.Return(c.Request().Context(), id)
	if err != nil {
		return err
	}

	flashSuccess(c, h.flashes, "loan returned")
	return c.JSON(http.StatusOK, loanResponseFrom(view))
}

// List returns loans visible to the caller. Admins see every loan and may
// filter by status; members always get their own loans only.
//
// @Summary      List loans
// @Tags         loans
// @Produce      json
// @Security     BearerAuth
// @Param        status  query  string  false  "on_loan, overdue or returned"
// @Success      200  {array}  loanResponse
// @Router       /v1/loans [get]
func (h *LoanHandler) List(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	views, err := h.loanService.List(c.Request().Context(), ports.ListLoansInput{
		Role:   session.Role,
		UserID: session.UserID,
		Status: c.QueryParam("status"),
	})
	if err != nil {
		return err
	}

	loans := make([]loanResponse, 0, len(views))
	for i := range views {
		loans = append(loans, loanResponseFrom(&views[i]))
	}
	return c.JSON(http.StatusOK, loans)
}

// Get returns a single loan. Members may only read their own.
//
// @Summary      Get a loan
// @Tags         loans
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "loan id"
// @Success      200  {object}  loanResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/loans/{id} [get]
func (h *LoanHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	view, err := h.loanService.Get(c.Request().Context(), ports.GetLoanInput{
		LoanID: id,
		Role:   session.Role,
		UserID: session.UserID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loanResponseFrom(view))
}
