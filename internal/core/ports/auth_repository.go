package ports

import (
	"context"

	"github.com/bibliotech/circulation-api/internal/core/domain"
)

// AuthRepository defines the interface for user persistence.
type AuthRepository interface {
	// Create inserts the user and returns it with its assigned id.
	// Returns domain.ErrUserExists on a username or email unique violation;
	// the database constraint is the authoritative duplicate guard.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	// FindByCredential matches the credential against username OR email.
	FindByCredential(ctx context.Context, credential string) (*domain.User, error)

	FindByID(ctx context.Context, id int64) (*domain.User, error)

	// Exists is the advisory pre-check run before Create; it narrows the
	// window for a duplicate-signup race but does not close it.
	Exists(ctx context.Context, username, email string) (bool, error)

	// List returns all users sorted by username.
	List(ctx context.Context) ([]domain.User, error)
}

// SessionStore persists server-side sessions.
type SessionStore interface {
	Create(ctx context.Context, session *domain.Session) error
	// Get returns domain.ErrSessionNotFound for unknown or revoked ids.
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

// Flash is a one-shot notification surfaced on the next read, then discarded.
type Flash struct {
	Kind    string `json:"kind"` // "success" or "error"
	Message string `json:"message"`
}

// FlashStore implements write-once read-once notifications per session.
type FlashStore interface {
	Set(ctx context.Context, sessionID string, flash Flash) error
	// Pop returns and clears the pending flash, or (nil, nil) when none is set.
	Pop(ctx context.Context, sessionID string) (*Flash, error)
}
