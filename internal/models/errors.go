package models

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the member-platform client layer. They let
// callers distinguish "legitimately no data" from the different degradation
// paths while handlers keep the user-facing behavior of returning empty
// results instead of hard failures.
var (
	// ErrNotConfigured indicates the member-platform credentials are
	// incomplete. Operations short-circuit before any network call.
	ErrNotConfigured = errors.New("member platform credentials are not configured")

	// ErrUnauthorized indicates the platform rejected the request with 401
	// even after the single refresh-and-retry attempt.
	ErrUnauthorized = errors.New("member platform rejected credentials after token refresh")
)

// UpstreamError represents a non-success response from the member platform
// other than 401.
type UpstreamError struct {
	// StatusCode is the HTTP status returned by the platform.
	StatusCode int
	// Operation is the client operation that failed (e.g. "searchMembers").
	Operation string
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s failed with upstream status %d", e.Operation, e.StatusCode)
}

// NewUpstreamError creates an UpstreamError for the given operation and status.
func NewUpstreamError(operation string, statusCode int) *UpstreamError {
	return &UpstreamError{StatusCode: statusCode, Operation: operation}
}

// IsUpstreamError reports whether err is (or wraps) an UpstreamError.
func IsUpstreamError(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
