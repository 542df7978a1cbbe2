package ports

import (
	"context"

	"github.com/bibliotech/circulation-api/internal/core/domain"
)

// BookRepository persists books and their author associations.
// Create, Update and Delete are single atomic units.
type BookRepository interface {
	// Create inserts the book and one association row per author id.
	// Returns domain.ErrDuplicateISBN on a unique violation and
	// domain.ErrAuthorNotFound when an association references a missing author.
	Create(ctx context.Context, book *domain.Book, authorIDs []int64) (int64, error)

	// Update rewrites the book columns and replaces the full association set
	// (delete all, insert new) in one transaction.
	Update(ctx context.Context, book *domain.Book, authorIDs []int64) error

	// Delete removes the associations and the book row. Returns
	// domain.ErrBookOnLoan while an open loan references the book.
	Delete(ctx context.Context, id int64) error

	// List returns books with concatenated author names, sorted by title.
	// A non-empty titleFilter applies a case-insensitive substring match.
	List(ctx context.Context, titleFilter string) ([]domain.BookListing, error)

	// FindByID returns the joined book plus its raw author ids,
	// or domain.ErrBookNotFound.
	FindByID(ctx context.Context, id int64) (*domain.BookDetail, error)

	// ListAvailable returns id+title of available books sorted by title.
	ListAvailable(ctx context.Context) ([]domain.BookRef, error)
}

// AuthorRepository persists authors.
type AuthorRepository interface {
	// Create returns domain.ErrAuthorExists when the (first, last) name pair
	// is already taken.
	Create(ctx context.Context, author *domain.Author) (int64, error)
	Update(ctx context.Context, author *domain.Author) error

	// Delete refuses with domain.ErrAuthorHasBooks while any association row
	// references the author.
	Delete(ctx context.Context, id int64) error

	// List returns all authors sorted by last name, then first name.
	List(ctx context.Context) ([]domain.Author, error)
	FindByID(ctx context.Context, id int64) (*domain.Author, error)
}
