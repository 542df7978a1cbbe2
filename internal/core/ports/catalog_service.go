package ports

import (
	"context"

	"github.com/bibliotech/circulation-api/internal/core/domain"
)

// CreateBookInput carries everything needed to create a catalog entry.
type CreateBookInput struct {
	Title       string
	ISBN        string
	Year        int
	Description string
	AuthorIDs   []int64
}

// UpdateBookInput mirrors CreateBookInput plus the target id. The author set
// is replaced wholesale.
type UpdateBookInput struct {
	ID          int64
	Title       string
	ISBN        string
	Year        int
	Description string
	AuthorIDs   []int64
}

// BookService defines the catalog use cases for books.
type BookService interface {
	Create(ctx context.Context, input CreateBookInput) (*domain.BookDetail, error)
	Update(ctx context.Context, input UpdateBookInput) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, titleFilter string) ([]domain.BookListing, error)
	Get(ctx context.Context, id int64) (*domain.BookDetail, error)
	ListAvailable(ctx context.Context) ([]domain.BookRef, error)
}

// AuthorInput carries author fields for create and update.
type AuthorInput struct {
	FirstName   string
	LastName    string
	Nationality string
}

// AuthorService defines the catalog use cases for authors.
type AuthorService interface {
	Create(ctx context.Context, input AuthorInput) (*domain.Author, error)
	Update(ctx context.Context, id int64, input AuthorInput) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.Author, error)
	Get(ctx context.Context, id int64) (*domain.Author, error)
}
