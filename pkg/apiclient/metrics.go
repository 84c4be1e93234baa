package apiclient

import "time"

// Metrics defines the interface for tracking request pipeline operations.
type Metrics interface {
	// RecordRequest records a completed request with its final status.
	RecordRequest(method, endpoint string, status int, duration time.Duration)

	// RecordOutcome records a classified outcome category (e.g. "success",
	// "auth_expired", "quota_exceeded", "server_error").
	RecordOutcome(category string)

	// RecordCacheHit records a conditional GET answered with 304 Not Modified.
	RecordCacheHit()

	// RecordCacheMiss records a conditional GET that returned a full response.
	RecordCacheMiss()

	// RecordRefresh records a session refresh attempt and its result.
	RecordRefresh(success bool)
}

// NoopMetrics is a no-op implementation of the Metrics interface.
type NoopMetrics struct{}

func (n *NoopMetrics) RecordRequest(method, endpoint string, status int, duration time.Duration) {}
func (n *NoopMetrics) RecordOutcome(category string)                                             {}
func (n *NoopMetrics) RecordCacheHit()                                                           {}
func (n *NoopMetrics) RecordCacheMiss()                                                          {}
func (n *NoopMetrics) RecordRefresh(success bool)                                                {}
