package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bibliotech/circulation-api/internal/api/metrics"
	"github.com/bibliotech/circulation-api/internal/core/domain"
	"github.com/bibliotech/circulation-api/internal/core/ports"
)

// LoanService implements the loan engine. All multi-row mutations happen
// inside a single repository transaction; the service owns validation,
// member scoping and the lazy overdue sweep.
type LoanService struct {
	repo ports.LoanRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewLoanService(repo ports.LoanRepository, log zerolog.Logger) *LoanService {
	return &LoanService{repo: repo, log: log, now: time.Now}
}

// Issue lends a book to a borrower. The availability re-check runs inside the
// repository transaction, so a book can never be lent twice concurrently.
func (s *LoanService) Issue(ctx context.Context, input ports.IssueLoanInput) (*ports.LoanView, error) {
	if input.BookID <= 0 || input.BorrowerID <= 0 {
		return nil, domain.ErrInvalidInput
	}

	loanDate := dateOnly(input.LoanDate)
	if loanDate.IsZero() {
		loanDate = dateOnly(s.now())
	}
	dueDate := dateOnly(input.DueDate)
	if dueDate.IsZero() || dueDate.Before(loanDate) {
		return nil, domain.ErrInvalidInput
	}

	loan, err := s.repo.Issue(ctx, input.BookID, input.BorrowerID, loanDate, dueDate)
	if err != nil {
		return nil, fmt.Errorf("issue loan: %w", err)
	}

	metrics.LoansIssuedTotal.Inc()
	s.log.Info().
		Int64("loan_id", loan.ID).
		Int64("book_id", loan.BookID).
		Int64("borrower_id", loan.BorrowerID).
		Time("due_date", loan.DueDate).
		Msg("loan issued")

	view := loanToView(domain.LoanDetail{Loan: *loan})
	return &view, nil
}

// Return closes an open loan and makes the book available again.
// Already-returned loans are rejected, not crashed on.
func (s *LoanService) Return(ctx context.Context, loanID int64) (*ports.LoanView, error) {
	if loanID <= 0 {
		return nil, domain.ErrInvalidInput
	}

	loan, err := s.repo.Return(ctx, loanID, dateOnly(s.now()))
	if err != nil {
		return nil, fmt.Errorf("record return: %w", err)
	}

	metrics.LoansReturnedTotal.Inc()
	s.log.Info().
		Int64("loan_id", loan.ID).
		Int64("book_id", loan.BookID).
		Msg("loan returned")

	view := loanToView(domain.LoanDetail{Loan: *loan})
	return &view, nil
}

// List returns loans newest-first. The overdue sweep runs before the query so
// statuses are current at read time; members only ever see their own loans.
func (s *LoanService) List(ctx context.Context, input ports.ListLoansInput) ([]ports.LoanView, error) {
	s.sweep(ctx)

	filter := ports.LoanFilter{Status: domain.LoanStatus(input.Status)}
	if input.Role != domain.RoleAdmin {
		filter.BorrowerID = input.UserID
	}

	loans, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}

	views := make([]ports.LoanView, 0, len(loans))
	for _, l := range loans {
		views = append(views, loanToView(l))
	}
	return views, nil
}

// Get returns one loan. Members may only see loans they borrowed.
func (s *LoanService) Get(ctx context.Context, input ports.GetLoanInput) (*ports.LoanView, error) {
	s.sweep(ctx)

	loan, err := s.repo.FindByID(ctx, input.LoanID)
	if err != nil {
		return nil, fmt.Errorf("get loan: %w", err)
	}

	if input.Role != domain.RoleAdmin && loan.BorrowerID != input.UserID {
		return nil, domain.ErrForbidden
	}

	view := loanToView(*loan)
	return &view, nil
}

// sweep lazily transitions due loans to overdue. A sweep failure must not
// block the read; the listing then shows the last known statuses.
func (s *LoanService) sweep(ctx context.Context) {
	n, err := s.repo.SweepOverdue(ctx, dateOnly(s.now()))
	if err != nil {
		s.log.Warn().Err(err).Msg("overdue sweep failed, serving stale statuses")
		return
	}
	if n > 0 {
		metrics.LoansMarkedOverdueTotal.Add(float64(n))
		s.log.Info().Int64("count", n).Msg("loans marked overdue")
	}
}

func loanToView(l domain.LoanDetail) ports.LoanView {
	return ports.LoanView{
		ID:           l.ID,
		BookID:       l.BookID,
		BookTitle:    l.BookTitle,
		BorrowerID:   l.BorrowerID,
		BorrowerName: l.BorrowerName,
		LoanDate:     l.LoanDate,
		DueDate:      l.DueDate,
		ReturnedAt:   l.ReturnedAt,
		Status:       string(l.Status),
	}
}

// dateOnly truncates to a calendar date in UTC; loan bookkeeping ignores
// the time of day.
func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
