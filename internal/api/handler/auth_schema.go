package handler

import "github.com/bibliotech/circulation-api/internal/core/domain"

type registerRequest struct {
	Username        string `json:"username"         validate:"required,min=3"`
	Email           string `json:"email"            validate:"required,email"`
	Password        string `json:"password"         validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

type loginRequest struct {
	Credential string `json:"credential" validate:"required"`
	Password   string `json:"password"   validate:"required"`
}

type loginResponse struct {
	Token    string `json:"token"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type registerResponse struct {
	User *domain.User `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}
