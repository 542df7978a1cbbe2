package domain

import "errors"

var ErrAuthorNotFound = errors.New("author not found")
var ErrAuthorExists = errors.New("author already exists")
var ErrAuthorHasBooks = errors.New("author has associated books")

// Author identity is the (FirstName, LastName) pair; duplicates are rejected.
type Author struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Nationality string `json:"nationality,omitempty"`
}
