// Package client provides HTTP client utilities for calling the external
// member/session platform and other downstream services.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Jimmeey2323/smart-ticket-manager/internal/models"
)

// tokenEndpointPath is the platform's token-grant endpoint relative to the
// configured base URL.
const tokenEndpointPath = "/oauth/token"

// Credentials is the fixed credential set for the member platform. It is
// immutable after configuration load; an incomplete set disables all
// authenticated operations.
type Credentials struct {
	BaseURL    string
	BasicToken string
	Username   string
	Password   string
}

// Complete reports whether all credential fields required for the password
// grant are present.
func (c Credentials) Complete() bool {
	return c.BasicToken != "" && c.Username != "" && c.Password != ""
}

// TokenManager owns the bearer-token lifecycle for the member platform:
// acquisition via password grant and renewal via refresh-token grant.
// Refresh is never proactive; it is triggered reactively by a 401 on a
// data call.
type TokenManager interface {
	// Authenticate obtains a fresh token pair via the password grant.
	// It fails fast without a network call when credentials are incomplete.
	Authenticate(ctx context.Context) error
	// Refresh replaces the access token using the stored refresh token.
	Refresh(ctx context.Context) error
	// Token returns the current access token, or "" when unauthenticated.
	Token() string
	// Invalidate clears the stored token pair.
	Invalidate()
	// Configured reports whether the credential set is complete.
	Configured() bool
}

// tokenManager is the concrete implementation of TokenManager.
type tokenManager struct {
	mu          sync.RWMutex
	credentials Credentials
	httpClient  *http.Client
	logger      *logrus.Logger

	accessToken  string
	refreshToken string
}

// tokenResponse represents the platform's token-grant response. The refresh
// token arrives under either of two field spellings depending on the grant;
// both are accepted on decode.
type tokenResponse struct {
	AccessToken     string `json:"access_token"`
	RefreshToken    string `json:"refresh_token"`
	RefreshTokenAlt string `json:"refreshToken"`
	TokenType       string `json:"token_type"`
}

// refresh returns the refresh token from whichever field the response used,
// preferring the canonical snake_case spelling.
func (r tokenResponse) refresh() string {
	if r.RefreshToken != "" {
		return r.RefreshToken
	}
	return r.RefreshTokenAlt
}

// NewTokenManager creates a TokenManager for the given credential set.
//
// Parameters:
//   - credentials: Platform base URL, Basic-auth token, username, password
//   - timeout: HTTP request timeout for grant calls
//   - logger: Structured logger for token operations
func NewTokenManager(
	credentials Credentials,
	timeout time.Duration,
	logger *logrus.Logger,
) TokenManager {
	return &tokenManager{
		credentials: credentials,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Configured reports whether the full credential set is present.
func (t *tokenManager) Configured() bool {
	return t.credentials.Complete()
}

// Token returns the current access token without triggering any grant.
func (t *tokenManager) Token() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.accessToken
}

// Invalidate clears the stored token pair so the next operation must
// authenticate from scratch.
func (t *tokenManager) Invalidate() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.accessToken = ""
	t.refreshToken = ""

	t.logger.Debug("Platform token invalidated, will authenticate on next request")
}

// Authenticate obtains a new token pair using the password grant. On
// failure the existing token state, if any, is left untouched.
func (t *tokenManager) Authenticate(ctx context.Context) error {
	if !t.credentials.Complete() {
		return models.ErrNotConfigured
	}

	data := url.Values{}
	data.Set("grant_type", "password")
	data.Set("username", t.credentials.Username)
	data.Set("password", t.credentials.Password)

	tokenResp, err := t.requestGrant(ctx, data)
	if err != nil {
		return fmt.Errorf("password grant failed: %w", err)
	}

	t.mu.Lock()
	t.accessToken = tokenResp.AccessToken
	t.refreshToken = tokenResp.refresh()
	t.mu.Unlock()

	t.logger.Debug("Platform authentication succeeded")
	return nil
}

// Refresh replaces the access token in place using the stored refresh
// token. A refresh response without a refresh token keeps the existing one
// so the renewal credential is never lost.
func (t *tokenManager) Refresh(ctx context.Context) error {
	t.mu.RLock()
	refreshToken := t.refreshToken
	t.mu.RUnlock()

	if refreshToken == "" {
		return fmt.Errorf("no refresh token held")
	}

	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", refreshToken)

	tokenResp, err := t.requestGrant(ctx, data)
	if err != nil {
		return fmt.Errorf("refresh grant failed: %w", err)
	}

	t.mu.Lock()
	t.accessToken = tokenResp.AccessToken
	if newRefresh := tokenResp.refresh(); newRefresh != "" {
		t.refreshToken = newRefresh
	}
	t.mu.Unlock()

	t.logger.Debug("Platform access token refreshed")
	return nil
}

// requestGrant executes a form-encoded token-grant request with the
// configured Basic authorization.
func (t *tokenManager) requestGrant(ctx context.Context, data url.Values) (*tokenResponse, error) {
	tokenURL := t.credentials.BaseURL + tokenEndpointPath

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		tokenURL,
		strings.NewReader(data.Encode()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+t.credentials.BasicToken)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.logger.WithFields(logrus.Fields{
			"status":     resp.StatusCode,
			"grant_type": data.Get("grant_type"),
		}).Warn("Token grant request rejected")
		return nil, fmt.Errorf("token request failed with status %d", resp.StatusCode)
	}

	var tokenResp tokenResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&tokenResp); decodeErr != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", decodeErr)
	}

	return &tokenResp, nil
}
