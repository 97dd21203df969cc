// Package auth holds the identity, session and current-user types shared by
// the login flow and the session panel. It has no I/O.
package auth

import (
	"errors"
	"strings"
	"time"
)

// ErrSessionNotFound reports that no live session exists for an ID.
// Session stores return it (or wrap it) for unknown and expired sessions.
var ErrSessionNotFound = errors.New("session not found")

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
type Role string

const (
	RoleMember Role = "member"
	RoleGuest  Role = "guest"
)

// Identity represents the authenticated principal returned by an IdP.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID    string // stable user identifier (sub)
	FullName  string // display name as reported by the IdP, may be empty
	FirstName string
	LastName  string
	Email     string
	Groups    []string
	ExpiresAt time.Time // absolute expiry from IdP token
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FullName  string    `json:"full_name"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewSession records a signed-in identity under id with the mapped role.
// The session lives as long as the IdP token.
func NewSession(id string, who Identity, role Role) Session {
	return Session{
		ID:        id,
		UserID:    who.UserID,
		FullName:  who.FullName,
		FirstName: who.FirstName,
		LastName:  who.LastName,
		Email:     who.Email,
		Role:      role,
		ExpiresAt: who.ExpiresAt,
	}
}

// IsGuest returns true if the session role is guest.
func (s Session) IsGuest() bool { return s.Role == RoleGuest }

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool { return now.After(s.ExpiresAt) }

// CurrentUser is the read-only user summary the web shell displays.
// Empty fields mean the value is absent.
type CurrentUser struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// CurrentUser projects the session into the summary shown in the shell.
// FullName falls back to "First Last" when the IdP did not supply one.
func (s Session) CurrentUser() CurrentUser {
	name := strings.TrimSpace(s.FullName)
	if name == "" {
		name = strings.TrimSpace(strings.TrimSpace(s.FirstName) + " " + strings.TrimSpace(s.LastName))
	}
	return CurrentUser{FullName: name, Email: s.Email}
}
