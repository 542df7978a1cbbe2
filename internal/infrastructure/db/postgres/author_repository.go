package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bibliotech/circulation-api/internal/core/domain"
)

// AuthorRepository implements ports.AuthorRepository on Postgres.
type AuthorRepository struct {
	pool *pgxpool.Pool
}

func NewAuthorRepository(pool *pgxpool.Pool) *AuthorRepository {
	return &AuthorRepository{pool: pool}
}

// Create maps a (first_name, last_name) unique violation to
// domain.ErrAuthorExists.
func (r *AuthorRepository) Create(ctx context.Context, author *domain.Author) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO authors (first_name, last_name, nationality)
		 VALUES ($1, $2, $3) RETURNING id`,
		author.FirstName, author.LastName, author.Nationality,
	).Scan(&id)
	if isUniqueViolation(err) {
		return 0, domain.ErrAuthorExists
	}
	if err != nil {
		return 0, fmt.Errorf("insert author: %w", err)
	}
	return id, nil
}

func (r *AuthorRepository) Update(ctx context.Context, author *domain.Author) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE authors SET first_name = $1, last_name = $2, nationality = $3
		 WHERE id = $4`,
		author.FirstName, author.LastName, author.Nationality, author.ID,
	)
	if isUniqueViolation(err) {
		return domain.ErrAuthorExists
	}
	if err != nil {
		return fmt.Errorf("update author: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAuthorNotFound
	}
	return nil
}

// Delete refuses while any book still references the author. The guard runs
// in the same transaction as the delete so a concurrent association insert
// either blocks behind the row lock or fails on the foreign key afterwards.
func (r *AuthorRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM authors WHERE id = $1 FOR UPDATE)`, id,
	).Scan(&exists); err != nil {
		return fmt.Errorf("lock author: %w", err)
	}
	if !exists {
		return domain.ErrAuthorNotFound
	}

	var books int64
	if err := tx.QueryRow(ctx,
		`SELECT count(*) FROM book_authors WHERE author_id = $1`, id,
	).Scan(&books); err != nil {
		return fmt.Errorf("count associations: %w", err)
	}
	if books > 0 {
		return domain.ErrAuthorHasBooks
	}

	if _, err := tx.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete author: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// List returns all authors sorted by last name, then first name.
func (r *AuthorRepository) List(ctx context.Context) ([]domain.Author, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, first_name, last_name, nationality
		 FROM authors ORDER BY last_name, first_name, id`)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	defer rows.Close()

	var authors []domain.Author
	for rows.Next() {
		var a domain.Author
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Nationality); err != nil {
			return nil, fmt.Errorf("scan author: %w", err)
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

func (r *AuthorRepository) FindByID(ctx context.Context, id int64) (*domain.Author, error) {
	var a domain.Author
	err := r.pool.QueryRow(ctx,
		`SELECT id, first_name, last_name, nationality FROM authors WHERE id = $1`, id,
	).Scan(&a.ID, &a.FirstName, &a.LastName, &a.Nationality)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAuthorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find author: %w", err)
	}
	return &a, nil
}
