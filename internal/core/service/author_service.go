package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bibliotech/circulation-api/internal/core/domain"
	"github.com/bibliotech/circulation-api/internal/core/ports"
)

// AuthorService implements the catalog use cases for authors.
type AuthorService struct {
	repo ports.AuthorRepository
	log  zerolog.Logger
}

func NewAuthorService(repo ports.AuthorRepository, log zerolog.Logger) *AuthorService {
	return &AuthorService{repo: repo, log: log}
}

func (s *AuthorService) Create(ctx context.Context, input ports.AuthorInput) (*domain.Author, error) {
	author, err := authorFromInput(0, input)
	if err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, author)
	if err != nil {
		return nil, fmt.Errorf("create author: %w", err)
	}
	author.ID = id

	s.log.Info().Int64("author_id", id).Str("last_name", author.LastName).Msg("author created")
	return author, nil
}

func (s *AuthorService) Update(ctx context.Context, id int64, input ports.AuthorInput) error {
	if id <= 0 {
		return domain.ErrInvalidInput
	}
	author, err := authorFromInput(id, input)
	if err != nil {
		return err
	}

	if err := s.repo.Update(ctx, author); err != nil {
		return fmt.Errorf("update author: %w", err)
	}

	s.log.Info().Int64("author_id", id).Msg("author updated")
	return nil
}

// Delete refuses while any book still references the author.
func (s *AuthorService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ErrInvalidInput
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete author: %w", err)
	}

	s.log.Info().Int64("author_id", id).Msg("author deleted")
	return nil
}

func (s *AuthorService) List(ctx context.Context) ([]domain.Author, error) {
	authors, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return authors, nil
}

func (s *AuthorService) Get(ctx context.Context, id int64) (*domain.Author, error) {
	if id <= 0 {
		return nil, domain.ErrAuthorNotFound
	}
	author, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get author: %w", err)
	}
	return author, nil
}

func authorFromInput(id int64, input ports.AuthorInput) (*domain.Author, error) {
	first := strings.TrimSpace(input.FirstName)
	last := strings.TrimSpace(input.LastName)
	if first == "" || last == "" {
		return nil, domain.ErrInvalidInput
	}
	return &domain.Author{
		ID:          id,
		FirstName:   first,
		LastName:    last,
		Nationality: strings.TrimSpace(input.Nationality),
	}, nil
}
