package shell

import (
	"strings"
	"unicode/utf8"

	domainauth "github.com/financehub/financehub-web/internal/domain/auth"
)

const (
	FallbackDisplayName    = "User"
	FallbackDisplayInitial = "U"
)

// SessionPanel is the display-safe summary of the signed-in user.
type SessionPanel struct {
	DisplayName    string
	DisplayInitial string
	Email          string
	Loaded         bool // a user record was available for this render
}

// NewSessionPanel derives panel values from user, which may be nil while the
// user is loading or when nobody is signed in.
func NewSessionPanel(user *domainauth.CurrentUser) SessionPanel {
	if user == nil {
		return SessionPanel{
			DisplayName:    FallbackDisplayName,
			DisplayInitial: FallbackDisplayInitial,
		}
	}
	return SessionPanel{
		DisplayName:    DisplayName(user),
		DisplayInitial: DisplayInitial(user),
		Email:          user.Email,
		Loaded:         true,
	}
}

// DisplayName returns the user's full name, or "User" when absent or empty.
func DisplayName(user *domainauth.CurrentUser) string {
	if user == nil || user.FullName == "" {
		return FallbackDisplayName
	}
	return user.FullName
}

// DisplayInitial returns the upper-cased first character of the full name, or "U".
func DisplayInitial(user *domainauth.CurrentUser) string {
	if user == nil || user.FullName == "" {
		return FallbackDisplayInitial
	}
	r, _ := utf8.DecodeRuneInString(user.FullName)
	if r == utf8.RuneError {
		return FallbackDisplayInitial
	}
	return strings.ToUpper(string(r))
}
