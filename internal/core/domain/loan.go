package domain

import (
	"errors"
	"time"
)

// LoanStatus represents the lifecycle state of a loan.
type LoanStatus string

const (
	StatusOnLoan   LoanStatus = "on_loan"
	StatusOverdue  LoanStatus = "overdue"
	StatusReturned LoanStatus = "returned"
)

// validTransitions defines the allowed state machine transitions.
// "returned" is terminal.
var validTransitions = map[LoanStatus][]LoanStatus{
	StatusOnLoan:  {StatusOverdue, StatusReturned},
	StatusOverdue: {StatusReturned},
}

var ErrLoanNotFound = errors.New("loan not found")
var ErrLoanAlreadyReturned = errors.New("loan already returned")
var ErrBookUnavailable = errors.New("book is not available")
var ErrForbidden = errors.New("access forbidden")

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s LoanStatus) CanTransitionTo(next LoanStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Open reports whether the loan still holds the book (the borrower has not
// returned it yet). Book.Available is false exactly while an open loan exists.
func (s LoanStatus) Open() bool {
	return s == StatusOnLoan || s == StatusOverdue
}

// Loan records a single borrowing of a book by a user.
type Loan struct {
	ID         int64      `json:"id"`
	BookID     int64      `json:"book_id"`
	BorrowerID int64      `json:"borrower_id"`
	LoanDate   time.Time  `json:"loan_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"` // set iff Status == returned
	Status     LoanStatus `json:"status"`
}

// LoanDetail is a loan joined with the display fields a listing needs.
type LoanDetail struct {
	Loan
	BookTitle    string `json:"book_title"`
	BorrowerName string `json:"borrower_name"`
}
