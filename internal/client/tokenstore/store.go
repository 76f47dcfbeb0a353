// Package tokenstore keeps the client's single bearer token.
//
// At most one token exists at a time. Set replaces it, Clear removes it and
// Get reports "" when there is none. The SQLite implementation survives
// process restarts; Memory is for tests and throwaway sessions.
package tokenstore

import "context"

// TokenKey is the well-known storage key the token lives under.
const TokenKey = "auth_token"

// Store is the token persistence contract used by the API client and the
// session controller.
type Store interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}
