// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// OAuthTokens is the credential set obtained from the provider's token
// endpoint. It is owned exclusively by the credential manager: persisted
// encrypted at rest, replaced wholesale on refresh, deleted on logout, and
// never handed out beyond the bearer access token string.
type OAuthTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	// ExpiresAt is the access token expiry as Unix epoch milliseconds.
	ExpiresAt int64  `json:"expiresAt"`
	TokenType string `json:"tokenType"`
	Scope     string `json:"scope"`
	// IDToken is the raw OpenID Connect identity token, when the provider
	// issued one. Used only to extract the account email for display.
	IDToken string `json:"idToken,omitempty"`
}

// ExpiresWithin reports whether the access token expires before now+buffer.
// A zero ExpiresAt counts as already expired.
func (t OAuthTokens) ExpiresWithin(now time.Time, buffer time.Duration) bool {
	if t.ExpiresAt <= 0 {
		return true
	}
	expiry := time.UnixMilli(t.ExpiresAt)
	return !expiry.After(now.Add(buffer))
}

// HasRefreshToken reports whether a renewal credential is held. This is the
// authentication criterion: an expired access token with a refresh token is
// still an authenticated session.
func (t OAuthTokens) HasRefreshToken() bool {
	return t.RefreshToken != ""
}
