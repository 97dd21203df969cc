// Package mocks provides gomock implementations of the FinanceHub ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	users := mocks.NewMockCurrentUserSource(ctrl)
//	users.EXPECT().FetchCurrentUser(gomock.Any(), "sess-1").Return(nil, errBoom)
package mocks

// Generate mock for CurrentUserSource interface from internal/ports package.
// This creates MockCurrentUserSource with methods for all CurrentUserSource interface methods:
// FetchCurrentUser
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=current_user_source_mock.go github.com/financehub/financehub-web/internal/ports CurrentUserSource

// Generate mock for SessionStore interface from internal/ports package.
// This creates MockSessionStore with methods for all SessionStore interface methods:
// Save, Get, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_store_mock.go github.com/financehub/financehub-web/internal/ports SessionStore
