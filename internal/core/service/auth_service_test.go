package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/bibliotech/circulation-api/internal/core/domain"
	"github.com/bibliotech/circulation-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubAuthRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{users: make(map[int64]*domain.User), nextID: 1}
}

func (r *stubAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		// Mirrors the unique constraints on username and email.
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	clone := *user
	clone.ID = r.nextID
	r.nextID++
	r.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubAuthRepo) FindByCredential(_ context.Context, credential string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == credential || u.Email == credential {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubAuthRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubAuthRepo) Exists(_ context.Context, username, email string) (bool, error) {
	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubAuthRepo) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

type stubSessionStore struct {
	sessions  map[string]*domain.Session
	createErr error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]*domain.Session)}
}

func (s *stubSessionStore) Create(_ context.Context, session *domain.Session) error {
	if s.createErr != nil {
		return s.createErr
	}
	clone := *session
	s.sessions[session.ID] = &clone
	return nil
}

func (s *stubSessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	clone := *sess
	return &clone, nil
}

func (s *stubSessionStore) Delete(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newAuthSvc(repo *stubAuthRepo, sessions *stubSessionStore) *AuthService {
	return NewAuthService(repo, sessions, "secret", time.Hour, zerolog.Nop())
}

func registerInput(username string) ports.RegisterInput {
	return ports.RegisterInput{
		Username:        username,
		Email:           username + "@example.com",
		Password:        "s3cret",
		PasswordConfirm: "s3cret",
	}
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newAuthSvc(repo, newStubSessionStore())

	user, err := svc.Register(context.Background(), registerInput("alice"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Role != domain.RoleMember {
		t.Errorf("registration must default to member role, got %s", user.Role)
	}
	if user.PasswordHash == "s3cret" {
		t.Fatal("password must be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newAuthSvc(newStubAuthRepo(), newStubSessionStore())

	cases := []struct {
		name  string
		input ports.RegisterInput
	}{
		{"empty username", ports.RegisterInput{Email: "a@b.c", Password: "x", PasswordConfirm: "x"}},
		{"empty email", ports.RegisterInput{Username: "a", Password: "x", PasswordConfirm: "x"}},
		{"empty password", ports.RegisterInput{Username: "a", Email: "a@b.c", PasswordConfirm: "x"}},
		{"mismatched confirmation", ports.RegisterInput{Username: "a", Email: "a@b.c", Password: "x", PasswordConfirm: "y"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tc.input); !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newAuthSvc(repo, newStubSessionStore())

	if _, err := svc.Register(context.Background(), registerInput("bob")); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), registerInput("bob")); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestAuthService_Login_ByUsernameAndEmail(t *testing.T) {
	repo := newStubAuthRepo()
	sessions := newStubSessionStore()
	svc := newAuthSvc(repo, sessions)

	if _, err := svc.Register(context.Background(), registerInput("carol")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	for _, credential := range []string{"carol", "carol@example.com"} {
		token, session, err := svc.Login(context.Background(), credential, "s3cret")
		if err != nil {
			t.Fatalf("login with %q failed: %v", credential, err)
		}
		if session.Username != "carol" || session.Role != domain.RoleMember {
			t.Errorf("unexpected session: %+v", session)
		}
		if _, ok := sessions.sessions[session.ID]; !ok {
			t.Error("session record must exist server-side")
		}

		claims := jwt.MapClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
			return []byte("secret"), nil
		})
		if err != nil || !parsed.Valid {
			t.Fatalf("token invalid: %v", err)
		}
		if claims["sid"] != session.ID {
			t.Errorf("token must carry the session id, got %v", claims["sid"])
		}
		if _, leaked := claims["role"]; leaked {
			t.Error("token must not carry role claims; the session record owns them")
		}
	}
}

func TestAuthService_Login_NoEnumerationSignal(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newAuthSvc(repo, newStubSessionStore())

	if _, err := svc.Register(context.Background(), registerInput("dave")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Unknown user and wrong password must be indistinguishable.
	_, _, unknownErr := svc.Login(context.Background(), "nosuchuser", "x")
	_, _, wrongPassErr := svc.Login(context.Background(), "dave", "wrongsecret")

	if !errors.Is(unknownErr, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", unknownErr)
	}
	if !errors.Is(wrongPassErr, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPassErr)
	}
	if unknownErr.Error() != wrongPassErr.Error() {
		t.Error("failure messages must not distinguish the two cases")
	}
}

func TestAuthService_Login_EmptyInput(t *testing.T) {
	svc := newAuthSvc(newStubAuthRepo(), newStubSessionStore())

	if _, _, err := svc.Login(context.Background(), "", "x"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "x", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_SessionStoreFailure(t *testing.T) {
	repo := newStubAuthRepo()
	sessions := newStubSessionStore()
	sessions.createErr = errors.New("redis unavailable")
	svc := newAuthSvc(repo, sessions)

	if _, err := svc.Register(context.Background(), registerInput("erin")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, err := svc.Login(context.Background(), "erin", "s3cret")
	if err == nil || !strings.Contains(err.Error(), "create session") {
		t.Fatalf("expected session creation error, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Logout
// ---------------------------------------------------------------------------

func TestAuthService_Logout_RevokesSession(t *testing.T) {
	repo := newStubAuthRepo()
	sessions := newStubSessionStore()
	svc := newAuthSvc(repo, sessions)

	if _, err := svc.Register(context.Background(), registerInput("frank")); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	_, session, err := svc.Login(context.Background(), "frank", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := svc.Logout(context.Background(), session.ID); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := sessions.Get(context.Background(), session.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("session must be gone after logout, got %v", err)
	}
}
