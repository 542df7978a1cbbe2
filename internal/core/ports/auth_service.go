package ports

import (
	"context"

	"github.com/bibliotech/circulation-api/internal/core/domain"
)

// RegisterInput carries the self-service signup fields.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
}

// AuthService defines registration, login and session teardown.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)

	// Login matches credential against username or email and verifies the
	// password. Unknown credential and wrong password are indistinguishable:
	// both return domain.ErrInvalidCredentials. On success a server-side
	// session is created and a signed token referencing it is returned.
	Login(ctx context.Context, credential, password string) (string, *domain.Session, error)

	// Logout destroys the session record, revoking its token immediately.
	Logout(ctx context.Context, sessionID string) error

	// ListMembers returns all accounts; used by admins to pick a borrower.
	ListMembers(ctx context.Context) ([]domain.User, error)
}
