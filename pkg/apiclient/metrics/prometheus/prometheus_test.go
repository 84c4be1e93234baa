package prommetrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestMetrics_RecordRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg, "test")

	metrics.RecordRequest("GET", "/api/v1/projects", 200, 50*time.Millisecond)
	metrics.RecordRequest("POST", "/api/v1/tasks", 400, 10*time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	if len(families) == 0 {
		t.Error("expected request metrics to be recorded")
	}
}

func TestMetrics_RecordOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg, "test")

	metrics.RecordOutcome("success")
	metrics.RecordOutcome("quota_exceeded")
	metrics.RecordOutcome("quota_exceeded")

	value := counterValue(t, reg, "test_api_outcomes_total", "category", "quota_exceeded")
	if value != 2 {
		t.Errorf("expected 2 quota_exceeded outcomes, got %v", value)
	}
}

func TestMetrics_RecordCacheHitMiss(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg, "test")

	metrics.RecordCacheHit()
	metrics.RecordCacheHit()
	metrics.RecordCacheMiss()

	if value := counterValue(t, reg, "test_conditional_cache_hits_total", "", ""); value != 2 {
		t.Errorf("expected 2 cache hits, got %v", value)
	}
	if value := counterValue(t, reg, "test_conditional_cache_misses_total", "", ""); value != 1 {
		t.Errorf("expected 1 cache miss, got %v", value)
	}
}

func TestMetrics_RecordRefresh(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg, "test")

	metrics.RecordRefresh(true)
	metrics.RecordRefresh(false)
	metrics.RecordRefresh(false)

	if value := counterValue(t, reg, "test_session_refresh_total", "success", "false"); value != 2 {
		t.Errorf("expected 2 failed refreshes, got %v", value)
	}
}

// counterValue gathers the registry and returns the value of the named
// counter, optionally matched on a single label pair.
func counterValue(t *testing.T, reg *prometheus.Registry, name, labelName, labelValue string) float64 {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			if labelName == "" || hasLabel(metric, labelName, labelValue) {
				return metric.GetCounter().GetValue()
			}
		}
	}

	t.Fatalf("counter %s{%s=%q} not found", name, labelName, labelValue)
	return 0
}

func hasLabel(metric *dto.Metric, name, value string) bool {
	for _, label := range metric.GetLabel() {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
