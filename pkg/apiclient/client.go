// Package apiclient implements the shared HTTP request pipeline that every
// IntelliPM API wrapper funnels through: endpoint versioning, conditional
// GETs via ETag validators, coordinated session refresh on auth expiry, and
// classification of the backend's heterogeneous error shapes. Quota and
// AI-disabled error details are kept in a shared registry for UI consumption.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAPIVersion       = 1
	defaultSessionProbePath = "/api/auth/me"
	defaultLoginPath        = "/login"
)

// Client is the single entry point for all backend calls. It is safe for
// concurrent use; construct one instance and share it.
type Client struct {
	baseURL    string
	apiVersion int
	httpClient *http.Client
	cache      conditionalCache
	refresh    *refreshCoordinator
	state      errorState
	notifier   Notifier
	telemetry  Telemetry
	probePath  string
	logger     Logger
	metrics    Metrics
}

// New creates a client from the given configuration. BaseURL is required;
// every other collaborator defaults to a no-op implementation.
func New(config Config) (*Client, error) {
	baseURL := strings.TrimSpace(config.BaseURL)
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	if config.APIVersion <= 0 {
		config.APIVersion = defaultAPIVersion
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	if config.SessionProbePath == "" {
		config.SessionProbePath = defaultSessionProbePath
	}
	if config.LoginPath == "" {
		config.LoginPath = defaultLoginPath
	}
	if config.Logger == nil {
		config.Logger = &NoopLogger{}
	}
	if config.Metrics == nil {
		config.Metrics = &NoopMetrics{}
	}
	if config.Notifier == nil {
		config.Notifier = noopNotifier{}
	}
	if config.Telemetry == nil {
		config.Telemetry = noopTelemetry{}
	}
	if config.Navigator == nil {
		config.Navigator = noopNavigator{}
	}
	if config.AuthEvents == nil {
		config.AuthEvents = noopAuthEvents{}
	}

	client := &Client{
		baseURL:    baseURL,
		apiVersion: config.APIVersion,
		httpClient: config.HTTPClient,
		cache:      conditionalCache{store: config.Validators, logger: config.Logger},
		notifier:   config.Notifier,
		telemetry:  config.Telemetry,
		probePath:  normalizeEndpoint(config.SessionProbePath, config.APIVersion),
		logger:     config.Logger,
		metrics:    config.Metrics,
	}

	if config.Refresher != nil {
		client.refresh = &refreshCoordinator{
			refresher: config.Refresher,
			navigator: config.Navigator,
			events:    config.AuthEvents,
			loginPath: config.LoginPath,
			logger:    config.Logger,
			metrics:   config.Metrics,
		}
	}

	return client, nil
}

// Get issues a GET request, attaching a conditional header when a validator
// is cached for the endpoint. A 304 response yields an empty object; the
// caller's own cache holds the data.
func (c *Client) Get(ctx context.Context, endpoint string, opts ...RequestOption) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, endpoint, nil, opts...)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, endpoint string, body interface{}, opts ...RequestOption) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPost, endpoint, body, opts...)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, endpoint string, body interface{}, opts ...RequestOption) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPut, endpoint, body, opts...)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, endpoint string, body interface{}, opts ...RequestOption) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPatch, endpoint, body, opts...)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, endpoint string, opts ...RequestOption) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodDelete, endpoint, nil, opts...)
}

// Do is the request primitive the per-resource wrappers map onto. The
// endpoint is normalized, classified outcomes other than success reject with
// an *APIError, and an expired session is recovered through at most one
// coordinated refresh-and-retry.
func (c *Client) Do(ctx context.Context, method, endpoint string, body interface{}, opts ...RequestOption) (json.RawMessage, error) {
	var options requestOptions
	for _, opt := range opts {
		opt(&options)
	}
	normalized := normalizeEndpoint(endpoint, c.apiVersion)

	// The retry budget covers exactly one retry after a successful refresh.
	return c.attempt(ctx, method, normalized, body, options, 1)
}

func (c *Client) attempt(ctx context.Context, method, endpoint string, payload interface{}, options requestOptions, retries int) (json.RawMessage, error) {
	start := time.Now()
	isGet := method == http.MethodGet

	if isGet && options.skipCache {
		c.cache.evict(ctx, endpoint)
	}

	req, conditional, err := c.newRequest(ctx, method, endpoint, payload, options)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	// 304 carries no body; skip the read so no parse is ever attempted.
	var respBody []byte
	if resp.StatusCode != http.StatusNotModified {
		respBody, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response from %s: %w", endpoint, err)
		}
	}

	result := classify(method, resp.StatusCode, resp.Header, respBody)
	c.metrics.RecordRequest(method, endpoint, resp.StatusCode, time.Since(start))
	c.metrics.RecordOutcome(outcomeCategory(result))

	switch result.kind {
	case outcomeNotModified:
		c.metrics.RecordCacheHit()
		c.logger.Debug("not modified", Field{Key: "endpoint", Value: endpoint})
		return result.body, nil

	case outcomeSuccess:
		// The validator is stored only after classification confirms
		// success, so a failed request never poisons the cache.
		if isGet {
			if conditional != "" {
				c.metrics.RecordCacheMiss()
			}
			if !options.skipCache {
				c.cache.remember(ctx, endpoint, resp.Header.Get("ETag"))
			}
		}
		return result.body, nil

	case outcomeAuthExpired:
		return c.recoverAuth(ctx, method, endpoint, payload, options, result, retries)

	default:
		return nil, c.reject(result, endpoint)
	}
}

// recoverAuth handles an AuthExpired outcome: auth probes and exhausted
// retry budgets are terminal, everything else goes through one coordinated
// refresh and a single retry of the original request.
func (c *Client) recoverAuth(ctx context.Context, method, endpoint string, payload interface{}, options requestOptions, result outcome, retries int) (json.RawMessage, error) {
	authErr := &APIError{StatusCode: result.status, Message: result.message, kind: ErrAuthExpired}

	if endpoint == c.probePath {
		// Probing the session must never trigger the refresh it would loop on.
		return nil, authErr
	}
	if c.refresh == nil || retries <= 0 {
		return nil, authErr
	}

	if err := c.refresh.await(ctx); err != nil {
		// Refresh failed; the coordinator has already redirected to login.
		// Reject with the originally extracted message, no notification.
		return nil, authErr
	}

	return c.attempt(ctx, method, endpoint, payload, options, retries-1)
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, payload interface{}, options requestOptions) (*http.Request, string, error) {
	var body io.Reader = http.NoBody
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range options.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	conditional := ""
	if method == http.MethodGet && !options.skipCache {
		conditional = c.cache.validator(ctx, endpoint)
		if conditional != "" {
			req.Header.Set("If-None-Match", conditional)
		}
	}

	return req, conditional, nil
}

// reject converts a classified failure into an *APIError and dispatches its
// side effects: registry updates, the user-facing notification, and server
// error telemetry. Classification itself stays pure.
func (c *Client) reject(result outcome, endpoint string) error {
	apiErr := &APIError{
		StatusCode: result.status,
		Message:    result.message,
		RetryAfter: result.retryAfter,
		kind:       errorKind(result),
	}

	if result.aiDisabled != nil {
		c.state.setAIDisabledError(result.aiDisabled)
	}
	if result.quota != nil {
		c.state.setQuotaError(result.quota)
	}

	c.notifier.Notify(notificationTitle(result), result.message)

	if result.status >= 500 {
		c.logger.Error("server error",
			Field{Key: "endpoint", Value: endpoint},
			Field{Key: "status", Value: result.status})
		c.telemetry.CaptureError(apiErr, map[string]string{
			"endpoint": endpoint,
			"status":   strconv.Itoa(result.status),
		})
	}

	return apiErr
}

// QuotaError returns the most recent quota-exceeded details, or nil.
func (c *Client) QuotaError() *QuotaErrorDetails {
	return c.state.quotaError()
}

// AIDisabledError returns the most recent AI-disabled details, or nil.
func (c *Client) AIDisabledError() *AIDisabledDetails {
	return c.state.aiDisabledError()
}

// ClearQuotaError clears the quota-exceeded slot.
func (c *Client) ClearQuotaError() {
	c.state.clearQuotaError()
}

// ClearAIDisabledError clears the AI-disabled slot.
func (c *Client) ClearAIDisabledError() {
	c.state.clearAIDisabledError()
}

// ClearValidators removes cached validators for the given endpoints, or all
// validators when none are given.
func (c *Client) ClearValidators(ctx context.Context, endpoints ...string) {
	if len(endpoints) == 0 {
		c.cache.clear(ctx)
		return
	}
	for _, endpoint := range endpoints {
		c.cache.evict(ctx, normalizeEndpoint(endpoint, c.apiVersion))
	}
}

func errorKind(result outcome) error {
	switch result.kind {
	case outcomeForbidden:
		if result.aiDisabled != nil {
			return ErrAIDisabled
		}
		return ErrForbidden
	case outcomeRateLimited:
		if result.quota != nil {
			return ErrQuotaExceeded
		}
		return ErrRateLimited
	default:
		return ErrRequestFailed
	}
}

func notificationTitle(result outcome) string {
	switch result.kind {
	case outcomeForbidden:
		if result.aiDisabled != nil {
			return "AI features disabled"
		}
		return "Access denied"
	case outcomeRateLimited:
		if result.quota != nil {
			return "Quota exceeded"
		}
		return "Too many requests"
	default:
		if result.status >= 500 {
			return "Server error"
		}
		return "Request error"
	}
}

func outcomeCategory(result outcome) string {
	switch result.kind {
	case outcomeSuccess:
		return "success"
	case outcomeNotModified:
		return "not_modified"
	case outcomeAuthExpired:
		return "auth_expired"
	case outcomeForbidden:
		if result.aiDisabled != nil {
			return "ai_disabled"
		}
		return "forbidden"
	case outcomeRateLimited:
		if result.quota != nil {
			return "quota_exceeded"
		}
		return "rate_limited"
	default:
		if result.status >= 500 {
			return "server_error"
		}
		return "client_error"
	}
}

type noopNotifier struct{}

func (noopNotifier) Notify(title, description string) {}

type noopTelemetry struct{}

func (noopTelemetry) CaptureError(err error, context map[string]string) {}

type noopNavigator struct{}

func (noopNavigator) Navigate(path string) {}

type noopAuthEvents struct{}

func (noopAuthEvents) SessionExpired() {}
