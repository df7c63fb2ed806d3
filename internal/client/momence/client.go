// Package momence provides the typed client for the external member/session
// platform: member search and detail, membership and session fetches, the
// paginated session aggregation engine, and the pure normalization of raw
// platform payloads into the service's canonical shapes.
package momence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Jimmeey2323/smart-ticket-manager/internal/client"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/models"
)

// Client provides methods for interacting with the member/session platform.
// Every operation returns its zero value together with a typed error on any
// failure; nothing here panics or escalates past the client boundary.
type Client struct {
	*client.AuthedClient // Embedded - inherits authenticated request execution

	pageSize  int
	maxPages  int
	locations map[string]string
	logger    *logrus.Logger
}

// Options tunes the aggregation engine and location resolution.
type Options struct {
	// PageSize is the fixed page size for session listing (200 in this system).
	PageSize int
	// MaxPages caps the pages fetched by one aggregation call.
	MaxPages int
	// Locations maps human-readable studio names to provider location ids.
	Locations map[string]string
}

// NewClient creates a new member/session platform client.
//
// Parameters:
//   - authedClient: Bearer-authenticated HTTP client
//   - opts: Aggregation and location settings
//   - logger: Structured logger for platform operations
func NewClient(
	authedClient *client.AuthedClient,
	opts Options,
	logger *logrus.Logger,
) *Client {
	if opts.PageSize <= 0 {
		opts.PageSize = 200
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = 10
	}
	return &Client{
		AuthedClient: authedClient,
		pageSize:     opts.PageSize,
		maxPages:     opts.MaxPages,
		locations:    opts.Locations,
		logger:       logger,
	}
}

// SearchMembers queries members by free text. The client accepts any query
// string; the minimum-length rule is enforced at the inbound surface.
func (c *Client) SearchMembers(
	ctx context.Context,
	query string,
	page, pageSize int,
) (*MemberPage, error) {
	if pageSize <= 0 {
		pageSize = c.pageSize
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))
	q.Set("sortOrder", "desc")
	q.Set("sortBy", "createdAt")

	var memberPage MemberPage
	if err := c.getJSON(ctx, "searchMembers", "/members", q, &memberPage); err != nil {
		return nil, err
	}
	if memberPage.Payload == nil {
		memberPage.Payload = []RawMember{}
	}
	return &memberPage, nil
}

// GetMemberByID fetches a member's detail record, including nested
// memberships and sessions, normalized to the canonical shape.
func (c *Client) GetMemberByID(ctx context.Context, memberID string) (*models.Member, error) {
	var raw RawMember
	path := "/members/" + url.PathEscape(memberID)
	if err := c.getJSON(ctx, "getMemberById", path, nil, &raw); err != nil {
		return nil, err
	}

	member := NormalizeMember(raw)
	return &member, nil
}

// GetMemberSessions fetches a member's past sessions. With no explicit time
// bound the platform is asked for non-cancelled sessions starting before
// now.
func (c *Client) GetMemberSessions(ctx context.Context, memberID string) ([]models.Session, error) {
	q := url.Values{}
	q.Set("startBefore", time.Now().UTC().Format(time.RFC3339))
	q.Set("includeCancelled", "false")

	var raw []RawSession
	path := "/members/" + url.PathEscape(memberID) + "/sessions"
	if err := c.getJSON(ctx, "getMemberSessions", path, q, &raw); err != nil {
		return nil, err
	}

	sessions := make([]models.Session, 0, len(raw))
	for _, r := range raw {
		sessions = append(sessions, NormalizeSession(r))
	}
	return sessions, nil
}

// GetMemberMemberships fetches a member's active memberships.
func (c *Client) GetMemberMemberships(ctx context.Context, memberID string) ([]models.Membership, error) {
	var raw []RawMembership
	path := "/members/" + url.PathEscape(memberID) + "/memberships"
	if err := c.getJSON(ctx, "getMemberMemberships", path, nil, &raw); err != nil {
		return nil, err
	}

	memberships := make([]models.Membership, 0, len(raw))
	for _, r := range raw {
		memberships = append(memberships, NormalizeMembership(r))
	}
	return memberships, nil
}

// ListSessions fetches one page of the session listing. startsBefore and
// locationID are optional filters; zero values mean unfiltered.
func (c *Client) ListSessions(
	ctx context.Context,
	page, pageSize int,
	startsBefore time.Time,
	locationID string,
) (*SessionPage, error) {
	if pageSize <= 0 {
		pageSize = c.pageSize
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))
	q.Set("sortOrder", "desc")
	q.Set("sortBy", "startsAt")
	if !startsBefore.IsZero() {
		q.Set("startsBefore", startsBefore.UTC().Format(time.RFC3339))
	}
	if locationID != "" {
		q.Set("locationId", locationID)
	}

	var sessionPage SessionPage
	if err := c.getJSON(ctx, "getSessions", "/sessions", q, &sessionPage); err != nil {
		return nil, err
	}
	if sessionPage.Payload == nil {
		sessionPage.Payload = []RawSession{}
	}
	return &sessionPage, nil
}

// GetSessionByID fetches a session's detail record.
func (c *Client) GetSessionByID(ctx context.Context, sessionID string) (*RawSessionDetail, error) {
	var raw RawSessionDetail
	path := "/sessions/" + url.PathEscape(sessionID)
	if err := c.getJSON(ctx, "getSessionDetails", path, nil, &raw); err != nil {
		return nil, err
	}
	return &raw, nil
}

// getJSON executes an authenticated GET and decodes the JSON payload into
// out. Non-2xx statuses other than 401 become UpstreamError; 401 handling
// lives in the embedded AuthedClient.
func (c *Client) getJSON(
	ctx context.Context,
	operation string,
	path string,
	query url.Values,
	out interface{},
) error {
	resp, err := c.DoWithAuth(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"operation": operation,
			"error":     err,
		}).Warn("Platform request failed")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WithFields(logrus.Fields{
			"operation": operation,
			"status":    resp.StatusCode,
		}).Warn("Platform request returned non-success status")
		return models.NewUpstreamError(operation, resp.StatusCode)
	}

	if decodeErr := json.NewDecoder(resp.Body).Decode(out); decodeErr != nil {
		return fmt.Errorf("failed to decode %s response: %w", operation, decodeErr)
	}

	return nil
}
