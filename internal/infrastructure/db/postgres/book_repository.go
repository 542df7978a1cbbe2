package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bibliotech/circulation-api/internal/core/domain"
)

// authorNames concatenates the authors of a book into a single display
// string, comma separated and ordered by last name.
const authorNames = `COALESCE(string_agg(a.first_name || ' ' || a.last_name, ', ' ORDER BY a.last_name, a.first_name), '')`

// BookRepository implements ports.BookRepository on Postgres.
type BookRepository struct {
	pool *pgxpool.Pool
}

func NewBookRepository(pool *pgxpool.Pool) *BookRepository {
	return &BookRepository{pool: pool}
}

// Create inserts the book row and its author associations in one transaction.
// A unique violation on isbn maps to domain.ErrDuplicateISBN, a foreign key
// violation on the association rows to domain.ErrAuthorNotFound.
func (r *BookRepository) Create(ctx context.Context, book *domain.Book, authorIDs []int64) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO books (title, isbn, publication_year, description, available)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		book.Title, book.ISBN, book.Year, book.Description, book.Available,
	).Scan(&id)
	if isUniqueViolation(err) {
		return 0, domain.ErrDuplicateISBN
	}
	if err != nil {
		return 0, fmt.Errorf("insert book: %w", err)
	}

	if err := insertAssociations(ctx, tx, id, authorIDs); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// Update rewrites the book columns and replaces the full author set.
func (r *BookRepository) Update(ctx context.Context, book *domain.Book, authorIDs []int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`UPDATE books SET title = $1, isbn = $2, publication_year = $3, description = $4
		 WHERE id = $5`,
		book.Title, book.ISBN, book.Year, book.Description, book.ID,
	)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateISBN
	}
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM book_authors WHERE book_id = $1`, book.ID); err != nil {
		return fmt.Errorf("clear associations: %w", err)
	}
	if err := insertAssociations(ctx, tx, book.ID, authorIDs); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Delete removes the book and its associations. The open-loan guard runs
// inside the transaction so a loan issued concurrently either blocks the
// delete or arrives after the book row is gone.
func (r *BookRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM books WHERE id = $1 FOR UPDATE)`, id,
	).Scan(&exists); err != nil {
		return fmt.Errorf("lock book: %w", err)
	}
	if !exists {
		return domain.ErrBookNotFound
	}

	var openLoans int64
	if err := tx.QueryRow(ctx,
		`SELECT count(*) FROM loans WHERE book_id = $1 AND status IN ($2, $3)`,
		id, domain.StatusOnLoan, domain.StatusOverdue,
	).Scan(&openLoans); err != nil {
		return fmt.Errorf("count open loans: %w", err)
	}
	if openLoans > 0 {
		return domain.ErrBookOnLoan
	}

	if _, err := tx.Exec(ctx, `DELETE FROM book_authors WHERE book_id = $1`, id); err != nil {
		return fmt.Errorf("delete associations: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM loans WHERE book_id = $1`, id); err != nil {
		return fmt.Errorf("delete loan history: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM books WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// List returns the catalog with aggregated author names, sorted by title.
func (r *BookRepository) List(ctx context.Context, titleFilter string) ([]domain.BookListing, error) {
	ds := dialect.
		From(goqu.T("books").As("b")).
		LeftJoin(goqu.T("book_authors").As("ba"), goqu.On(goqu.I("b.id").Eq(goqu.I("ba.book_id")))).
		LeftJoin(goqu.T("authors").As("a"), goqu.On(goqu.I("ba.author_id").Eq(goqu.I("a.id")))).
		Select(
			goqu.I("b.id"), goqu.I("b.title"), goqu.I("b.isbn"),
			goqu.I("b.publication_year"), goqu.I("b.description"),
			goqu.I("b.available"), goqu.I("b.created_at"),
			goqu.L(authorNames),
		).
		GroupBy(goqu.I("b.id")).
		Order(goqu.I("b.title").Asc(), goqu.I("b.id").Asc())

	if titleFilter != "" {
		ds = ds.Where(goqu.I("b.title").ILike("%" + titleFilter + "%"))
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build book query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var books []domain.BookListing
	for rows.Next() {
		var b domain.BookListing
		if err := rows.Scan(
			&b.ID, &b.Title, &b.ISBN, &b.Year, &b.Description,
			&b.Available, &b.CreatedAt, &b.Authors,
		); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// FindByID returns the book with its author names and raw author ids.
func (r *BookRepository) FindByID(ctx context.Context, id int64) (*domain.BookDetail, error) {
	var b domain.BookDetail
	err := r.pool.QueryRow(ctx,
		`SELECT b.id, b.title, b.isbn, b.publication_year, b.description,
		        b.available, b.created_at,
		        `+authorNames+`,
		        COALESCE(array_agg(a.id ORDER BY a.last_name, a.first_name)
		                 FILTER (WHERE a.id IS NOT NULL), '{}')
		 FROM books b
		 LEFT JOIN book_authors ba ON b.id = ba.book_id
		 LEFT JOIN authors a ON ba.author_id = a.id
		 WHERE b.id = $1
		 GROUP BY b.id`, id,
	).Scan(
		&b.ID, &b.Title, &b.ISBN, &b.Year, &b.Description,
		&b.Available, &b.CreatedAt, &b.Authors, &b.AuthorIDs,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find book: %w", err)
	}
	if b.AuthorIDs == nil {
		b.AuthorIDs = []int64{}
	}
	return &b, nil
}

// ListAvailable returns id and title of every available book, sorted by title.
func (r *BookRepository) ListAvailable(ctx context.Context) ([]domain.BookRef, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title FROM books WHERE available ORDER BY title, id`)
	if err != nil {
		return nil, fmt.Errorf("list available books: %w", err)
	}
	defer rows.Close()

	var refs []domain.BookRef
	for rows.Next() {
		var ref domain.BookRef
		if err := rows.Scan(&ref.ID, &ref.Title); err != nil {
			return nil, fmt.Errorf("scan book ref: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func insertAssociations(ctx context.Context, tx pgx.Tx, bookID int64, authorIDs []int64) error {
	for _, authorID := range authorIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO book_authors (book_id, author_id) VALUES ($1, $2)`,
			bookID, authorID,
		)
		if isForeignKeyViolation(err) {
			return domain.ErrAuthorNotFound
		}
		if err != nil {
			return fmt.Errorf("insert association: %w", err)
		}
	}
	return nil
}
