package apiclient

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthExpired is returned when the session has expired and could not
	// be refreshed
	ErrAuthExpired = errors.New("authentication expired")

	// ErrForbidden is returned for permission failures
	ErrForbidden = errors.New("forbidden")

	// ErrAIDisabled is returned when AI features are disabled for the
	// organization; it matches ErrForbidden under errors.Is
	ErrAIDisabled = fmt.Errorf("ai disabled: %w", ErrForbidden)

	// ErrRateLimited is returned when the backend rate limit is hit
	ErrRateLimited = errors.New("rate limited")

	// ErrQuotaExceeded is returned when the organization AI quota is
	// exhausted; it matches ErrRateLimited under errors.Is
	ErrQuotaExceeded = fmt.Errorf("quota exceeded: %w", ErrRateLimited)

	// ErrRequestFailed is returned for any other client or server error
	ErrRequestFailed = errors.New("request failed")

	// ErrMissingBaseURL is returned when the client is constructed without a
	// backend origin
	ErrMissingBaseURL = errors.New("base URL is required")
)

// APIError carries the classified outcome of a failed request. The message
// is the single human-readable string extracted from the response; status
// and retry-after are retained as auxiliary context.
type APIError struct {
	// StatusCode is the HTTP status of the failed response.
	StatusCode int

	// Message is the human-readable message extracted from the response body.
	Message string

	// RetryAfter is the resolved wait in seconds for rate-limited responses
	// (0 otherwise).
	RetryAfter int

	kind error
}

func (e *APIError) Error() string {
	return e.Message
}

// Unwrap reports the sentinel category of the error, so callers can use
// errors.Is(err, apiclient.ErrRateLimited) and friends.
func (e *APIError) Unwrap() error {
	return e.kind
}
