package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bibliotech/circulation-api/internal/api/metrics"
	"github.com/bibliotech/circulation-api/internal/core/domain"
	"github.com/bibliotech/circulation-api/internal/core/ports"
)

// BookService implements the catalog use cases for books. The atomic
// book+associations writes live in the repository; validation lives here.
type BookService struct {
	repo ports.BookRepository
	log  zerolog.Logger
}

func NewBookService(repo ports.BookRepository, log zerolog.Logger) *BookService {
	return &BookService{repo: repo, log: log}
}

func (s *BookService) Create(ctx context.Context, input ports.CreateBookInput) (*domain.BookDetail, error) {
	if err := validateBookInput(input.Title, input.ISBN, input.Year, input.AuthorIDs); err != nil {
		return nil, err
	}

	book := &domain.Book{
		Title:       strings.TrimSpace(input.Title),
		ISBN:        strings.TrimSpace(input.ISBN),
		Year:        input.Year,
		Description: strings.TrimSpace(input.Description),
		Available:   true,
	}

	id, err := s.repo.Create(ctx, book, input.AuthorIDs)
	if err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	metrics.BooksCreatedTotal.Inc()
	s.log.Info().Int64("book_id", id).Str("isbn", book.ISBN).Msg("book created")

	return s.repo.FindByID(ctx, id)
}

// Update rewrites the book columns and replaces its author set wholesale.
// Full replace over diffing: author sets are small.
func (s *BookService) Update(ctx context.Context, input ports.UpdateBookInput) error {
	if input.ID <= 0 {
		return domain.ErrInvalidInput
	}
	if err := validateBookInput(input.Title, input.ISBN, input.Year, input.AuthorIDs); err != nil {
		return err
	}

	book := &domain.Book{
		ID:          input.ID,
		Title:       strings.TrimSpace(input.Title),
		ISBN:        strings.TrimSpace(input.ISBN),
		Year:        input.Year,
		Description: strings.TrimSpace(input.Description),
	}

	if err := s.repo.Update(ctx, book, input.AuthorIDs); err != nil {
		return fmt.Errorf("update book: %w", err)
	}

	s.log.Info().Int64("book_id", input.ID).Msg("book updated")
	return nil
}

// Delete refuses while an open loan (on_loan or overdue) references the book.
func (s *BookService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ErrInvalidInput
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	s.log.Info().Int64("book_id", id).Msg("book deleted")
	return nil
}

func (s *BookService) List(ctx context.Context, titleFilter string) ([]domain.BookListing, error) {
	books, err := s.repo.List(ctx, strings.TrimSpace(titleFilter))
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

func (s *BookService) Get(ctx context.Context, id int64) (*domain.BookDetail, error) {
	if id <= 0 {
		return nil, domain.ErrBookNotFound
	}
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

func (s *BookService) ListAvailable(ctx context.Context) ([]domain.BookRef, error) {
	refs, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("list available books: %w", err)
	}
	return refs, nil
}

func validateBookInput(title, isbn string, year int, authorIDs []int64) error {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(isbn) == "" {
		return domain.ErrInvalidInput
	}
	if year <= 0 {
		return domain.ErrInvalidInput
	}
	if len(authorIDs) == 0 {
		return domain.ErrInvalidInput
	}
	for _, id := range authorIDs {
		if id <= 0 {
			return domain.ErrInvalidInput
		}
	}
	return nil
}
