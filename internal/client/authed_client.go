package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/Jimmeey2323/smart-ticket-manager/internal/models"
)

// maxAuthRetries bounds the refresh-and-retry loop: a 401 triggers exactly
// one refresh attempt and at most one retry. A second consecutive 401 is
// returned to the caller.
const maxAuthRetries = 1

// AuthedClient extends BaseClient with bearer-token authentication against
// the member platform. It injects the access token on every request and
// runs a bounded refresh-and-retry loop on 401 responses.
type AuthedClient struct {
	*BaseClient // Embedded - inherits all BaseClient methods

	tokenManager TokenManager
}

// NewAuthedClient creates a new bearer-authenticated HTTP client.
//
// Parameters:
//   - baseClient: Base HTTP client for core operations
//   - tokenManager: Token manager owning the platform token lifecycle
func NewAuthedClient(
	baseClient *BaseClient,
	tokenManager TokenManager,
) *AuthedClient {
	return &AuthedClient{
		BaseClient:   baseClient,
		tokenManager: tokenManager,
	}
}

// DoWithAuth executes an HTTP request with bearer authentication.
// When no token is held it authenticates first; on a 401 response it
// refreshes the token and retries the identical request exactly once.
// Returns models.ErrNotConfigured without network I/O when the credential
// set is incomplete, and models.ErrUnauthorized when the platform rejects
// the request even after the retry.
//
// Returns the HTTP response. Caller is responsible for closing response body.
func (c *AuthedClient) DoWithAuth(
	ctx context.Context,
	method string,
	path string,
	query url.Values,
	body interface{},
) (*http.Response, error) {
	if !c.tokenManager.Configured() {
		return nil, models.ErrNotConfigured
	}

	if c.tokenManager.Token() == "" {
		if err := c.tokenManager.Authenticate(ctx); err != nil {
			return nil, fmt.Errorf("initial authentication failed: %w", err)
		}
	}

	// Bounded retry loop instead of recursion: at most one refresh+retry.
	for attempt := 0; ; attempt++ {
		resp, err := c.doWithToken(ctx, method, path, query, body, c.tokenManager.Token())
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusUnauthorized {
			return resp, nil
		}

		_ = resp.Body.Close() // Explicitly ignore error on close before retry

		if attempt >= maxAuthRetries {
			return nil, models.ErrUnauthorized
		}

		c.logger.Debug("Received 401 Unauthorized, refreshing platform token and retrying")
		if refreshErr := c.tokenManager.Refresh(ctx); refreshErr != nil {
			c.logger.WithError(refreshErr).Warn("Platform token refresh failed")
			return nil, fmt.Errorf("%w: %v", models.ErrUnauthorized, refreshErr)
		}
	}
}

// doWithToken executes an HTTP request with the provided bearer token.
func (c *AuthedClient) doWithToken(
	ctx context.Context,
	method string,
	path string,
	query url.Values,
	body interface{},
	token string,
) (*http.Response, error) {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"method": method,
			"url":    req.URL.String(),
			"error":  err,
		}).Error("Authenticated HTTP request failed")
		return nil, fmt.Errorf("authenticated HTTP request failed: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"method": method,
		"url":    req.URL.String(),
		"status": resp.StatusCode,
	}).Debug("Received HTTP response for authenticated request")

	return resp, nil
}
