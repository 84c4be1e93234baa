package apiclient

import (
	"context"
	"net/http"
	"time"
)

// QuotaErrorDetails describes an organization-level AI quota that has been
// exhausted, as reported by the backend on a 429 response.
type QuotaErrorDetails struct {
	OrganizationID int    `json:"organizationId"`
	QuotaType      string `json:"quotaType"`
	CurrentUsage   int    `json:"currentUsage"`
	MaxLimit       int    `json:"maxLimit"`
	TierName       string `json:"tierName"`
}

// AIDisabledDetails describes an organization whose AI features have been
// administratively disabled, as reported by the backend on a 403 response.
type AIDisabledDetails struct {
	OrganizationID int    `json:"organizationId"`
	Reason         string `json:"reason"`
}

// SessionRefresher re-establishes an expired authentication session.
// Implemented by the auth module; the pipeline calls it at most once
// concurrently, regardless of how many requests observe an expired session.
type SessionRefresher interface {
	// RefreshSession attempts to renew the session cookie.
	// It returns nil on success and an error if the session cannot be renewed.
	RefreshSession(ctx context.Context) error
}

// Notifier is the toast sink surfaced to the user on request failures.
type Notifier interface {
	Notify(title, description string)
}

// Telemetry receives server-side failures for external error collection.
type Telemetry interface {
	CaptureError(err error, context map[string]string)
}

// Navigator performs client-side navigation, used to send the user to the
// login route when session refresh fails.
type Navigator interface {
	Navigate(path string)
}

// AuthEvents is notified when the session is terminally expired, so that
// auth-state observers outside the request call stack can react.
type AuthEvents interface {
	SessionExpired()
}

// ValidatorStore persists the last-seen ETag validator per endpoint for
// conditional GET requests. Implementations must be safe for concurrent use.
type ValidatorStore interface {
	// Get returns the cached validator for an endpoint, or "" if none.
	Get(ctx context.Context, endpoint string) (string, error)

	// Set stores or overwrites the validator for an endpoint.
	Set(ctx context.Context, endpoint, validator string) error

	// Delete removes the validator for an endpoint.
	Delete(ctx context.Context, endpoint string) error

	// Clear removes all validators.
	Clear(ctx context.Context) error
}

// Config holds client configuration.
type Config struct {
	// BaseURL is the backend origin, e.g. "https://app.intellipm.io" (required).
	BaseURL string

	// APIVersion is the version segment used when normalizing endpoints
	// (default: 1).
	APIVersion int

	// HTTPClient issues the actual requests. Callers supply a client whose
	// cookie jar carries the session cookie (default: http.Client with a
	// 30 second timeout).
	HTTPClient *http.Client

	// Refresher renews the session on auth expiry. If nil, expired sessions
	// are surfaced to callers without a refresh attempt.
	Refresher SessionRefresher

	// Validators caches ETag validators for conditional GETs. If nil,
	// conditional caching is disabled.
	Validators ValidatorStore

	// Notifier receives user-facing failure notifications (default: no-op).
	Notifier Notifier

	// Telemetry receives server errors for external collection (default: no-op).
	Telemetry Telemetry

	// Navigator performs the redirect to LoginPath when refresh fails
	// (default: no-op).
	Navigator Navigator

	// AuthEvents observes terminal session expiry (default: no-op).
	AuthEvents AuthEvents

	// SessionProbePath is the current-session lookup route. A 401 on this
	// route never triggers refresh or redirect (default: "/api/auth/me").
	SessionProbePath string

	// LoginPath is the navigation target when refresh fails (default: "/login").
	LoginPath string

	// Logger is used for structured logging (default: NoopLogger).
	Logger Logger

	// Metrics is used for tracking request outcomes (default: NoopMetrics).
	Metrics Metrics
}

// RequestOption represents a per-call option.
type RequestOption func(*requestOptions)

type requestOptions struct {
	skipCache bool
	headers   http.Header
}

// WithoutCache disables conditional caching for a single call. The
// endpoint's cached validator is evicted first, guaranteeing a full fetch.
func WithoutCache() RequestOption {
	return func(opts *requestOptions) {
		opts.skipCache = true
	}
}

// WithHeader sets an extra request header for a single call.
func WithHeader(key, value string) RequestOption {
	return func(opts *requestOptions) {
		if opts.headers == nil {
			opts.headers = make(http.Header)
		}
		opts.headers.Set(key, value)
	}
}

const defaultHTTPTimeout = 30 * time.Second
