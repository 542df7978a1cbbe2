package ports

import (
	"context"
	"time"

	"github.com/bibliotech/circulation-api/internal/core/domain"
)

// LoanFilter narrows a loan listing. Zero values mean "no filter".
// BorrowerID is how the service scopes members to their own loans.
type LoanFilter struct {
	BorrowerID int64
	Status     domain.LoanStatus
}

// LoanRepository owns loan rows and is the only writer of books.available.
// Issue and Return are single atomic units: every write inside them commits
// together or not at all.
type LoanRepository interface {
	// Issue inserts an on_loan row and flips the book to unavailable in one
	// transaction. The availability check runs under a row lock on the book,
	// so two concurrent calls for the same book cannot both succeed.
	// Returns domain.ErrBookNotFound, domain.ErrBookUnavailable or
	// domain.ErrUserNotFound on precondition failure.
	Issue(ctx context.Context, bookID, borrowerID int64, loanDate, dueDate time.Time) (*domain.Loan, error)

	// Return marks the loan returned with the given date and restores the
	// book's availability in one transaction. Returns domain.ErrLoanNotFound
	// or domain.ErrLoanAlreadyReturned on precondition failure.
	Return(ctx context.Context, loanID int64, returnedAt time.Time) (*domain.Loan, error)

	// SweepOverdue moves every on_loan row whose due date is before today to
	// overdue. Idempotent. Returns the number of rows transitioned.
	SweepOverdue(ctx context.Context, today time.Time) (int64, error)

	// List returns loans joined with book title and borrower name,
	// newest loan first.
	List(ctx context.Context, filter LoanFilter) ([]domain.LoanDetail, error)

	// FindByID returns a single joined loan or domain.ErrLoanNotFound.
	FindByID(ctx context.Context, id int64) (*domain.LoanDetail, error)
}
