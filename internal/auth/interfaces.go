package auth

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/credential_manager_mock.go -package=mock

// CredentialManager owns the OAuth2 token lifecycle: interactive login,
// encrypted persistence, refresh, and logout. Tokens never leave the manager;
// collaborators only ever see the bearer access token string returned by
// AccessToken.
type CredentialManager interface {
	// Login runs the interactive browser-based authorization-code flow and
	// persists the resulting token set. Fails with [ErrAuthDenied] if the
	// user declines consent, [ErrNoCredentials] if client id/secret were
	// never configured, [ErrLoginTimeout] if no callback arrives within the
	// login window, and [ErrExchangeFailed] if the token endpoint rejects
	// the authorization code.
	Login(ctx context.Context) error

	// AccessToken returns a bearer token valid for at least the expiry
	// buffer. If the cached token expires sooner, a single refresh-token
	// exchange is performed; concurrent callers share that one in-flight
	// refresh. Fails with [ErrNotAuthenticated] if no refresh token is held
	// and [ErrRefreshRejected] if the provider declines the refresh.
	AccessToken(ctx context.Context) (string, error)

	// Logout discards in-memory tokens and deletes the persisted encrypted
	// token file. Safe to call when not logged in.
	Logout() error

	// IsAuthenticated reports whether a non-empty refresh token is held.
	IsAuthenticated() bool

	// UserEmail returns the authenticated account's email address extracted
	// from the identity token, or "" when unknown.
	UserEmail() string
}
