package handler

type authorRequest struct {
	FirstName   string `json:"first_name"  validate:"required"`
	LastName    string `json:"last_name"   validate:"required"`
	Nationality string `json:"nationality"`
}
