package auth

import "errors"

var (
	// ErrNoCredentials indicates client id/secret were never configured.
	// The caller should prompt for re-configuration, not re-login.
	ErrNoCredentials = errors.New("oauth client credentials not configured")
	// ErrAuthDenied indicates the user declined consent in the browser.
	ErrAuthDenied = errors.New("authorization denied by user")
	// ErrLoginTimeout indicates no callback arrived within the login window.
	ErrLoginTimeout = errors.New("authorization callback timed out")
	// ErrExchangeFailed indicates the token endpoint rejected the
	// authorization code.
	ErrExchangeFailed = errors.New("authorization code exchange failed")
	// ErrNotAuthenticated indicates no refresh token is held.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrRefreshRejected indicates the provider declined the refresh token.
	// The session is no longer renewable; the caller should prompt re-login.
	ErrRefreshRejected = errors.New("token refresh rejected by provider")
)
