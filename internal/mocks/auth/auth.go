// Package auth holds in-memory doubles for the auth ports, for tests that
// want real behavior without Redis or an IdP.
package auth

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	domainauth "github.com/financehub/financehub-web/internal/domain/auth"
	"github.com/financehub/financehub-web/internal/ports"
)

var (
	_ ports.AuthProvider     = (*MockAuthProvider)(nil)
	_ ports.SessionStore     = (*MemorySessionStore)(nil)
	_ ports.RoleMapper       = StaticRoleMapper{}
	_ ports.CurrentUserCache = (*MemoryUserCache)(nil)
)

// ErrNotFound is what MemorySessionStore returns for unknown IDs.
var ErrNotFound = domainauth.ErrSessionNotFound

const mockAuthURL = "https://mock-idp/auth"

// MockAuthProvider is a deterministic IdP. Begin numbers its state and nonce
// ("state-1", "nonce-1", ...). Exchange returns DefaultUser valid for an hour.
// Either can be replaced through BeginFunc or ExchangeFunc.
type MockAuthProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)

	AuthURL     string
	DefaultUser domainauth.Identity

	mu     sync.Mutex
	begins int
}

// NewMockAuthProvider returns a provider for a signed-in member named "Mock User".
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		AuthURL: mockAuthURL,
		DefaultUser: domainauth.Identity{
			UserID:    "mock-user-1",
			FullName:  "Mock User",
			FirstName: "Mock",
			LastName:  "User",
			Email:     "mock.user@example.com",
			Groups:    []string{"members"},
		},
	}
}

func (m *MockAuthProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}

	m.mu.Lock()
	m.begins++
	n := strconv.Itoa(m.begins)
	m.mu.Unlock()

	authURL := m.AuthURL
	if authURL == "" {
		authURL = mockAuthURL
	}
	return authURL, "state-" + n, "nonce-" + n, nil
}

func (m *MockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}
	who := m.DefaultUser
	if who.UserID == "" {
		who = NewMockAuthProvider().DefaultUser
	}
	who.ExpiresAt = time.Now().Add(time.Hour)
	return who, nil
}

// StaticRoleMapper grants RoleMember to members of MemberGroup, or to
// everyone when MemberGroup is empty.
type StaticRoleMapper struct {
	MemberGroup string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	if m.MemberGroup == "" {
		return domainauth.RoleMember
	}
	for _, g := range groups {
		if g == m.MemberGroup {
			return domainauth.RoleMember
		}
	}
	return domainauth.RoleGuest
}

// memory is a mutex-guarded map keyed by session ID.
type memory[V any] struct {
	mu    sync.Mutex
	items map[string]V
}

func (m *memory[V]) load(id string) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[id]
	return v, ok
}

func (m *memory[V]) store(id string, v V) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items == nil {
		m.items = make(map[string]V)
	}
	m.items[id] = v
}

func (m *memory[V]) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
}

func (m *memory[V]) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// MemorySessionStore keeps sessions in memory and ignores expiry.
type MemorySessionStore struct {
	sessions memory[domainauth.Session]
	// DeleteErr, when set, is returned by Delete.
	DeleteErr error
}

// NewMemorySessionStore creates an empty store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (s *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	s.sessions.store(sess.ID, sess)
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	sess, ok := s.sessions.load(id)
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	s.sessions.remove(id)
	return nil
}

// Len returns the number of stored sessions.
func (s *MemorySessionStore) Len() int { return s.sessions.count() }

// MemoryUserCache is a CurrentUserCache that ignores TTLs.
type MemoryUserCache struct {
	users memory[domainauth.CurrentUser]
	// GetErr, when set, is returned by Get.
	GetErr error
}

// NewMemoryUserCache creates an empty cache.
func NewMemoryUserCache() *MemoryUserCache {
	return &MemoryUserCache{}
}

func (c *MemoryUserCache) Get(_ context.Context, sessionID string) (*domainauth.CurrentUser, error) {
	if c.GetErr != nil {
		return nil, c.GetErr
	}
	u, ok := c.users.load(sessionID)
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (c *MemoryUserCache) Set(_ context.Context, sessionID string, user domainauth.CurrentUser, _ time.Duration) error {
	c.users.store(sessionID, user)
	return nil
}

func (c *MemoryUserCache) Delete(_ context.Context, sessionID string) error {
	c.users.remove(sessionID)
	return nil
}
