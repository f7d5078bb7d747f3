// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package auth implements the OAuth2 credential lifecycle for the sync
// subsystem: a loopback-listener authorization-code flow, refresh with an
// expiry buffer and a single-refresher guarantee, and encrypted token
// persistence through the crypto vault collaborator.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-clip-sync/internal/crypto"
	"github.com/MKhiriev/go-clip-sync/internal/logger"
	"github.com/MKhiriev/go-clip-sync/internal/utils"
	"github.com/MKhiriev/go-clip-sync/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	// expiryBuffer is how close to expiry a cached access token may get
	// before a refresh is forced. Five minutes leaves room for clock skew
	// and a slow upload using the token near its end of life.
	expiryBuffer = 5 * time.Minute

	// loginTimeout bounds how long Login waits for the browser callback.
	loginTimeout = 5 * time.Minute

	// tokenPurpose namespaces the vault key derivation for the token file.
	tokenPurpose = "sync-tokens"
)

// Config carries the provider endpoints and user-supplied client credentials.
type Config struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	// Scopes is a space-separated scope list requested at consent.
	Scopes string
	// TokenPath is where the encrypted token file lives.
	TokenPath string
}

// inflightRefresh represents one refresh-token exchange in progress. Callers
// that find it non-nil wait on done instead of starting their own exchange,
// which is what keeps at most one refresh in flight.
type inflightRefresh struct {
	done  chan struct{}
	token string
	err   error
}

type credentialManager struct {
	cfg    Config
	vault  crypto.TokenVault
	client *resty.Client
	log    *logger.Logger

	// openBrowser points the user's browser at the consent URL. Injected so
	// tests can drive the callback themselves.
	openBrowser func(url string) error
	now         func() time.Time

	mu        sync.Mutex
	tokens    models.OAuthTokens
	hasTokens bool
	inflight  *inflightRefresh
}

// NewCredentialManager constructs a [CredentialManager] and restores any
// previously persisted token set from the vault. A missing token file means a
// fresh install; a token file that fails to decrypt is logged and treated as
// "not authenticated", forcing re-login rather than crashing.
func NewCredentialManager(cfg Config, vault crypto.TokenVault, log *logger.Logger) CredentialManager {
	m := &credentialManager{
		cfg:         cfg,
		vault:       vault,
		client:      resty.New().SetTimeout(30 * time.Second),
		log:         log,
		openBrowser: openBrowser,
		now:         time.Now,
	}

	var tokens models.OAuthTokens
	err := vault.ReadAndDecrypt(cfg.TokenPath, tokenPurpose, &tokens)
	switch {
	case err == nil:
		m.tokens = tokens
		m.hasTokens = true
	case errors.Is(err, crypto.ErrNotFound):
		// fresh install
	case errors.Is(err, crypto.ErrDecryptFailed):
		log.Warn().Err(err).Msg("persisted tokens unreadable, re-login required")
	default:
		log.Warn().Err(err).Msg("restore persisted tokens failed")
	}

	return m
}

// tokenEndpointResponse is the provider's token endpoint payload for both
// the authorization_code and refresh_token grants.
type tokenEndpointResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
	IDToken      string `json:"id_token"`
}

// callbackResult is what the loopback listener extracts from the provider's
// redirect back to 127.0.0.1.
type callbackResult struct {
	code string
	err  error
}

// Login implements [CredentialManager].
func (m *credentialManager) Login(ctx context.Context) error {
	if m.cfg.ClientID == "" || m.cfg.ClientSecret == "" {
		return ErrNoCredentials
	}

	// Ephemeral loopback listener: the OS picks the port, the redirect URI
	// is derived from the bound address.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("start callback listener: %w", err)
	}
	defer ln.Close()

	redirectURI := fmt.Sprintf("http://%s/callback", ln.Addr().String())
	state := uuid.NewString()
	results := make(chan callbackResult, 1)

	router := chi.NewRouter()
	router.Get("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		if got := q.Get("state"); got != state {
			_, _ = utils.WriteHTML(w, "<p>Authorization rejected.</p>", http.StatusBadRequest)
			results <- callbackResult{err: fmt.Errorf("%w: state mismatch", ErrAuthDenied)}
			return
		}
		if errCode := q.Get("error"); errCode != "" {
			_, _ = utils.WriteHTML(w, "<p>Authorization was declined. You may close this window.</p>", http.StatusOK)
			results <- callbackResult{err: fmt.Errorf("%w: %s", ErrAuthDenied, errCode)}
			return
		}
		code := q.Get("code")
		if code == "" {
			_, _ = utils.WriteHTML(w, "<p>Authorization failed: no code received.</p>", http.StatusBadRequest)
			results <- callbackResult{err: fmt.Errorf("%w: callback carried no code", ErrAuthDenied)}
			return
		}

		_, _ = utils.WriteHTML(w, "<p>Signed in. You may close this window.</p>", http.StatusOK)
		results <- callbackResult{code: code}
	})

	server := &http.Server{Handler: router}
	go func() { _ = server.Serve(ln) }()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	consentURL := m.oauthConfig(redirectURI).AuthCodeURL(
		state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
	if err := m.openBrowser(consentURL); err != nil {
		return fmt.Errorf("open browser for consent: %w", err)
	}

	m.log.Info().Str("redirect_uri", redirectURI).Msg("waiting for authorization callback")

	var result callbackResult
	select {
	case result = <-results:
	case <-time.After(loginTimeout):
		return ErrLoginTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
	if result.err != nil {
		return result.err
	}

	tokens, err := m.exchangeAuthorizationCode(ctx, result.code, redirectURI)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = tokens
	m.hasTokens = true
	if err := m.persistLocked(); err != nil {
		return err
	}

	m.log.Info().Msg("login complete, tokens persisted")
	return nil
}

// AccessToken implements [CredentialManager].
func (m *credentialManager) AccessToken(ctx context.Context) (string, error) {
	m.mu.Lock()

	if !m.hasTokens || !m.tokens.HasRefreshToken() {
		m.mu.Unlock()
		return "", ErrNotAuthenticated
	}

	if !m.tokens.ExpiresWithin(m.now(), expiryBuffer) {
		token := m.tokens.AccessToken
		m.mu.Unlock()
		return token, nil
	}

	// Refresh needed. Either join the in-flight exchange or become it.
	if fl := m.inflight; fl != nil {
		m.mu.Unlock()
		select {
		case <-fl.done:
			return fl.token, fl.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	fl := &inflightRefresh{done: make(chan struct{})}
	m.inflight = fl
	refreshToken := m.tokens.RefreshToken
	m.mu.Unlock()

	tokens, err := m.exchangeRefreshToken(ctx, refreshToken)

	m.mu.Lock()
	if err == nil {
		m.tokens = tokens
		m.hasTokens = true
		if persistErr := m.persistLocked(); persistErr != nil {
			// The refreshed token is valid even if the disk write failed;
			// log and carry on with the in-memory copy.
			m.log.Warn().Err(persistErr).Msg("persist refreshed tokens failed")
		}
		fl.token = tokens.AccessToken
	}
	fl.err = err
	m.inflight = nil
	m.mu.Unlock()

	close(fl.done)
	return fl.token, fl.err
}

// Logout implements [CredentialManager].
func (m *credentialManager) Logout() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tokens = models.OAuthTokens{}
	m.hasTokens = false

	if err := m.vault.Remove(m.cfg.TokenPath); err != nil {
		return fmt.Errorf("delete persisted tokens: %w", err)
	}
	return nil
}

// IsAuthenticated implements [CredentialManager].
func (m *credentialManager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hasTokens && m.tokens.HasRefreshToken()
}

// UserEmail implements [CredentialManager]. The identity token is parsed
// without signature verification: it arrived over TLS directly from the
// token endpoint, and the email is display-only.
func (m *credentialManager) UserEmail() string {
	m.mu.Lock()
	idToken := m.tokens.IDToken
	m.mu.Unlock()

	if idToken == "" {
		return ""
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(idToken, jwt.MapClaims{})
	if err != nil {
		return ""
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	email, _ := claims["email"].(string)
	return email
}

func (m *credentialManager) oauthConfig(redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     m.cfg.ClientID,
		ClientSecret: m.cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  m.cfg.AuthURL,
			TokenURL: m.cfg.TokenURL,
		},
		RedirectURL: redirectURI,
		Scopes:      strings.Fields(m.cfg.Scopes),
	}
}

func (m *credentialManager) exchangeAuthorizationCode(ctx context.Context, code, redirectURI string) (models.OAuthTokens, error) {
	form := map[string]string{
		"grant_type":    "authorization_code",
		"code":          code,
		"client_id":     m.cfg.ClientID,
		"client_secret": m.cfg.ClientSecret,
		"redirect_uri":  redirectURI,
	}

	tokens, err := m.callTokenEndpoint(ctx, form)
	if err != nil {
		return models.OAuthTokens{}, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	if !tokens.HasRefreshToken() {
		return models.OAuthTokens{}, fmt.Errorf("%w: provider returned no refresh token", ErrExchangeFailed)
	}
	return tokens, nil
}

func (m *credentialManager) exchangeRefreshToken(ctx context.Context, refreshToken string) (models.OAuthTokens, error) {
	form := map[string]string{
		"grant_type":    "refresh_token",
		"refresh_token": refreshToken,
		"client_id":     m.cfg.ClientID,
		"client_secret": m.cfg.ClientSecret,
	}

	tokens, err := m.callTokenEndpoint(ctx, form)
	if err != nil {
		return models.OAuthTokens{}, fmt.Errorf("%w: %v", ErrRefreshRejected, err)
	}
	if tokens.RefreshToken == "" {
		// Providers commonly omit the refresh token on renewal; the one we
		// hold stays valid in that case.
		tokens.RefreshToken = refreshToken
	}
	return tokens, nil
}

func (m *credentialManager) callTokenEndpoint(ctx context.Context, form map[string]string) (models.OAuthTokens, error) {
	var payload tokenEndpointResponse

	resp, err := m.client.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(&payload).
		Post(m.cfg.TokenURL)
	if err != nil {
		return models.OAuthTokens{}, fmt.Errorf("token endpoint request: %w", err)
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		body := strings.TrimSpace(string(resp.Body()))
		if body == "" {
			body = http.StatusText(resp.StatusCode())
		}
		return models.OAuthTokens{}, fmt.Errorf("token endpoint http %d: %s", resp.StatusCode(), body)
	}
	if payload.AccessToken == "" {
		return models.OAuthTokens{}, errors.New("token endpoint returned no access token")
	}

	return models.OAuthTokens{
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
		ExpiresAt:    m.now().Add(time.Duration(payload.ExpiresIn) * time.Second).UnixMilli(),
		TokenType:    payload.TokenType,
		Scope:        payload.Scope,
		IDToken:      payload.IDToken,
	}, nil
}

// persistLocked writes the current token set through the vault. Caller must
// hold mu.
func (m *credentialManager) persistLocked() error {
	if err := m.vault.EncryptAndPersist(m.cfg.TokenPath, m.tokens, tokenPurpose); err != nil {
		return fmt.Errorf("persist tokens: %w", err)
	}
	return nil
}
