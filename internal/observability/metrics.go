package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Tool call outcomes.
const (
	ToolOutcomeSuccess = "success"
	ToolOutcomeError   = "error"
)

// Metrics holds the service's prometheus collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errors          *prometheus.CounterVec
	toolCalls       *prometheus.CounterVec
	toolDuration    *prometheus.HistogramVec
}

// NewMetrics registers the collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "zendesk_mcp_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "zendesk_mcp_http_request_duration_seconds",
			Help:    "HTTP request latency by route and method. Streams count until they close.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "zendesk_mcp_http_errors_total",
			Help: "HTTP error responses by route, method and error code.",
		}, []string{"route", "method", "code"}),
		toolCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "zendesk_mcp_tool_calls_total",
			Help: "Tool invocations by tool and outcome.",
		}, []string{"tool", "outcome"}),
		toolDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "zendesk_mcp_tool_duration_seconds",
			Help:    "Tool invocation latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"tool"}),
	}
}

// RecordRequest counts a request and observes its latency.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(route, method, code).Inc()
}

// RecordToolCall counts one tool invocation.
func (m *Metrics) RecordToolCall(tool, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.toolCalls.WithLabelValues(tool, outcome).Inc()
	m.toolDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
