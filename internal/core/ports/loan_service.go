package ports

import (
	"context"
	"time"
)

// IssueLoanInput carries the parameters for issuing a new loan.
type IssueLoanInput struct {
	BookID     int64
	BorrowerID int64
	LoanDate   time.Time
	DueDate    time.Time
}

// ListLoansInput carries listing parameters plus the caller's identity.
// Role and UserID come from the session; members are forced to their own loans.
type ListLoansInput struct {
	Role   string
	UserID int64
	Status string // optional: on_loan, overdue, returned
}

// GetLoanInput identifies a loan plus the caller asking for it.
type GetLoanInput struct {
	LoanID int64
	Role   string
	UserID int64
}

// LoanView is the joined loan representation returned to the transport layer.
type LoanView struct {
	ID           int64
	BookID       int64
	BookTitle    string
	BorrowerID   int64
	BorrowerName string
	LoanDate     time.Time
	DueDate      time.Time
	ReturnedAt   *time.Time
	Status       string
}

// LoanService defines the loan engine use cases.
type LoanService interface {
	Issue(ctx context.Context, input IssueLoanInput) (*LoanView, error)
	Return(ctx context.Context, loanID int64) (*LoanView, error)
	List(ctx context.Context, input ListLoansInput) ([]LoanView, error)
	Get(ctx context.Context, input GetLoanInput) (*LoanView, error)
}
