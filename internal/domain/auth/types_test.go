package auth

import (
	"testing"
	"time"
)

func TestSession_IsGuest(t *testing.T) {
	s := Session{Role: RoleGuest}
	if !s.IsGuest() {
		t.Fatalf("expected guest")
	}
	if (Session{Role: RoleMember}).IsGuest() {
		t.Fatalf("did not expect guest")
	}
}

func TestNewSession(t *testing.T) {
	exp := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	who := Identity{
		UserID:    "u-1",
		FullName:  "Ada Lovelace",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Groups:    []string{"financehub-members"},
		ExpiresAt: exp,
	}

	got := NewSession("sess-1", who, RoleMember)
	want := Session{
		ID:        "sess-1",
		UserID:    "u-1",
		FullName:  "Ada Lovelace",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Role:      RoleMember,
		ExpiresAt: exp,
	}
	if got != want {
		t.Fatalf("NewSession = %+v, want %+v", got, want)
	}

	if got.Expired(exp) {
		t.Fatal("session should still be live at its expiry instant")
	}
	if !got.Expired(exp.Add(time.Nanosecond)) {
		t.Fatal("session should be expired after its expiry")
	}
}

func TestSession_CurrentUser(t *testing.T) {
	tests := []struct {
		name string
		sess Session
		want CurrentUser
	}{
		{
			name: "full name wins",
			sess: Session{FullName: "Alice Doe", FirstName: "A", LastName: "D", Email: "a@x.com"},
			want: CurrentUser{FullName: "Alice Doe", Email: "a@x.com"},
		},
		{
			name: "first and last joined",
			sess: Session{FirstName: "Bob", LastName: "Ray", Email: "b@x.com"},
			want: CurrentUser{FullName: "Bob Ray", Email: "b@x.com"},
		},
		{
			name: "first only",
			sess: Session{FirstName: " Cy "},
			want: CurrentUser{FullName: "Cy"},
		},
		{
			name: "nothing",
			sess: Session{},
			want: CurrentUser{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sess.CurrentUser(); got != tt.want {
				t.Fatalf("CurrentUser() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
