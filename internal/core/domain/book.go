package domain

import (
	"errors"
	"time"
)

var ErrBookNotFound = errors.New("book not found")
var ErrDuplicateISBN = errors.New("isbn already in use")
var ErrBookOnLoan = errors.New("book has an open loan")

// Book is a catalog entry. Available is derived-but-stored state owned by the
// loan engine: false exactly while an open loan references the book.
type Book struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	ISBN        string    `json:"isbn"`
	Year        int       `json:"publication_year"`
	Description string    `json:"description,omitempty"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"created_at"`
}

// BookListing is a book row joined with a comma-separated author display string.
type BookListing struct {
	Book
	Authors string `json:"authors"`
}

// BookDetail additionally exposes the raw author ids, used to pre-populate
// edit forms. Empty slice when the book has no authors, never nil.
type BookDetail struct {
	Book
	Authors   string  `json:"authors"`
	AuthorIDs []int64 `json:"author_ids"`
}

// BookRef is the minimal id+title pair used to populate selection lists.
type BookRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}
