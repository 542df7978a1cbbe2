package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bibliotech/circulation-api/internal/core/domain"
	"github.com/bibliotech/circulation-api/internal/core/ports"
)

const dialectPostgres = "postgres"

var dialect = goqu.Dialect(dialectPostgres)

// LoanRepository implements ports.LoanRepository on Postgres. It is the only
// writer of books.available: the flag changes exclusively inside the Issue
// and Return transactions, so it can never diverge from the loan rows.
type LoanRepository struct {
	pool *pgxpool.Pool
}

func NewLoanRepository(pool *pgxpool.Pool) *LoanRepository {
	return &LoanRepository{pool: pool}
}

// Issue creates an on_loan row and flips the book to unavailable in one
// transaction. SELECT ... FOR UPDATE serializes concurrent issuance against
// the same book: the loser of the race re-reads available=false and fails
// cleanly instead of double-lending.
func (r *LoanRepository) Issue(ctx context.Context, bookID, borrowerID int64, loanDate, dueDate time.Time) (*domain.Loan, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var available bool
	err = tx.QueryRow(ctx, `SELECT available FROM books WHERE id = $1 FOR UPDATE`, bookID).Scan(&available)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock book: %w", err)
	}
	if !available {
		return nil, domain.ErrBookUnavailable
	}

	var borrowerExists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, borrowerID).Scan(&borrowerExists); err != nil {
		return nil, fmt.Errorf("check borrower: %w", err)
	}
	if !borrowerExists {
		return nil, domain.ErrUserNotFound
	}

	loan := &domain.Loan{
		BookID:     bookID,
		BorrowerID: borrowerID,
		LoanDate:   loanDate,
		DueDate:    dueDate,
		Status:     domain.StatusOnLoan,
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO loans (book_id, borrower_id, loan_date, due_date, status)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		bookID, borrowerID, loanDate, dueDate, loan.Status,
	).Scan(&loan.ID)
	if err != nil {
		return nil, fmt.Errorf("insert loan: %w", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE books SET available = FALSE WHERE id = $1`, bookID); err != nil {
		return nil, fmt.Errorf("update availability: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return loan, nil
}

// Return closes the loan and restores the book's availability in one
// transaction. The loan row is locked first so a concurrent return of the
// same loan observes the terminal state and is rejected.
func (r *LoanRepository) Return(ctx context.Context, loanID int64, returnedAt time.Time) (*domain.Loan, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	loan := &domain.Loan{ID: loanID}
	err = tx.QueryRow(ctx,
		`SELECT book_id, borrower_id, loan_date, due_date, status
		 FROM loans WHERE id = $1 FOR UPDATE`, loanID,
	).Scan(&loan.BookID, &loan.BorrowerID, &loan.LoanDate, &loan.DueDate, &loan.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrLoanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock loan: %w", err)
	}
	if !loan.Status.Open() {
		return nil, domain.ErrLoanAlreadyReturned
	}

	if _, err := tx.Exec(ctx,
		`UPDATE loans SET returned_at = $1, status = $2 WHERE id = $3`,
		returnedAt, domain.StatusReturned, loanID,
	); err != nil {
		return nil, fmt.Errorf("update loan: %w", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE books SET available = TRUE WHERE id = $1`, loan.BookID); err != nil {
		return nil, fmt.Errorf("update availability: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	loan.Status = domain.StatusReturned
	loan.ReturnedAt = &returnedAt
	return loan, nil
}

// SweepOverdue is a pure function of the given date and safe to run
// repeatedly: rows already overdue no longer match the predicate.
func (r *LoanRepository) SweepOverdue(ctx context.Context, today time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE loans SET status = $1 WHERE status = $2 AND due_date < $3`,
		domain.StatusOverdue, domain.StatusOnLoan, today,
	)
	if err != nil {
		return 0, fmt.Errorf("sweep overdue: %w", err)
	}
	return tag.RowsAffected(), nil
}

// List returns loans joined with book title and borrower username,
// newest loan first.
func (r *LoanRepository) List(ctx context.Context, filter ports.LoanFilter) ([]domain.LoanDetail, error) {
	ds := dialect.
		From(goqu.T("loans").As("l")).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("l.book_id").Eq(goqu.I("b.id")))).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("l.borrower_id").Eq(goqu.I("u.id")))).
		Select(
			goqu.I("l.id"), goqu.I("l.book_id"), goqu.I("b.title"),
			goqu.I("l.borrower_id"), goqu.I("u.username"),
			goqu.I("l.loan_date"), goqu.I("l.due_date"), goqu.I("l.returned_at"), goqu.I("l.status"),
		).
		Order(goqu.I("l.loan_date").Desc(), goqu.I("l.id").Desc())

	if filter.BorrowerID != 0 {
		ds = ds.Where(goqu.I("l.borrower_id").Eq(filter.BorrowerID))
	}
	if filter.Status != "" {
		ds = ds.Where(goqu.I("l.status").Eq(string(filter.Status)))
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build loan query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	defer rows.Close()

	var loans []domain.LoanDetail
	for rows.Next() {
		var l domain.LoanDetail
		if err := rows.Scan(
			&l.ID, &l.BookID, &l.BookTitle,
			&l.BorrowerID, &l.BorrowerName,
			&l.LoanDate, &l.DueDate, &l.ReturnedAt, &l.Status,
		); err != nil {
			return nil, fmt.Errorf("scan loan: %w", err)
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

// FindByID returns a single joined loan or domain.ErrLoanNotFound.
func (r *LoanRepository) FindByID(ctx context.Context, id int64) (*domain.LoanDetail, error) {
	var l domain.LoanDetail
	err := r.pool.QueryRow(ctx,
		`SELECT l.id, l.book_id, b.title, l.borrower_id, u.username,
		        l.loan_date, l.due_date, l.returned_at, l.status
		 FROM loans l
		 JOIN books b ON l.book_id = b.id
		 JOIN users u ON l.borrower_id = u.id
		 WHERE l.id = $1`, id,
	).Scan(
		&l.ID, &l.BookID, &l.BookTitle,
		&l.BorrowerID, &l.BorrowerName,
		&l.LoanDate, &l.DueDate, &l.ReturnedAt, &l.Status,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrLoanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find loan: %w", err)
	}
	return &l, nil
}
