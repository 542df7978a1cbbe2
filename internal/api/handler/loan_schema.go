package handler

import (
	"time"

	"github.com/bibliotech/circulation-api/internal/core/ports"
)

const dateLayout = "2006-01-02"

type issueLoanRequest struct {
	BookID     int64  `json:"book_id"     validate:"required,gt=0"`
	BorrowerID int64  `json:"borrower_id" validate:"required,gt=0"`
	LoanDate   string `json:"loan_date"   validate:"omitempty,datetime=2006-01-02"`
	DueDate    string `json:"due_date"    validate:"required,datetime=2006-01-02"`
}

type loanResponse struct {
	ID           int64   `json:"id"`
	BookID       int64   `json:"book_id"`
	BookTitle    string  `json:"book_title"`
	BorrowerID   int64   `json:"borrower_id"`
	BorrowerName string  `json:"borrower_name"`
	LoanDate     string  `json:"loan_date"`
	DueDate      string  `json:"due_date"`
	ReturnedAt   *string `json:"returned_at"`
	Status       string  `json:"status"`
}

// loanResponseFrom renders calendar dates without a time component.
func loanResponseFrom(view *ports.LoanView) loanResponse {
	resp := loanResponse{
		ID:           view.ID,
		BookID:       view.BookID,
		BookTitle:    view.BookTitle,
		BorrowerID:   view.BorrowerID,
		BorrowerName: view.BorrowerName,
		LoanDate:     view.LoanDate.Format(dateLayout),
		DueDate:      view.DueDate.Format(dateLayout),
		Status:       view.Status,
	}
	if view.ReturnedAt != nil {
		returned := view.ReturnedAt.Format(dateLayout)
		resp.ReturnedAt = &returned
	}
	return resp
}

// parseDate accepts an empty string as the zero time, letting the service
// apply its default.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, value)
}
