package handler

type bookRequest struct {
	Title       string  `json:"title"            validate:"required"`
	ISBN        string  `json:"isbn"             validate:"required"`
	Year        int     `json:"publication_year" validate:"required,gt=0"`
	Description string  `json:"description"`
	AuthorIDs   []int64 `json:"author_ids"       validate:"required,min=1,dive,gt=0"`
}
