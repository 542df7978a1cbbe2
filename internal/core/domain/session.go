package domain

import "errors"

var ErrSessionNotFound = errors.New("session not found")

// Session is the server-side record created on login and destroyed on logout.
// The bearer token only carries the session id; everything the request
// pipeline needs about the caller lives here.
type Session struct {
	ID       string `json:"-"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// IsAdmin reports whether the session carries elevated privileges.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}
