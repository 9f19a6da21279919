package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "weather_mcp"

// Metrics holds the Prometheus collectors for the upstream client, the tool
// surface and the lookup-event publisher.
type Metrics struct {
	// Upstream NWS API metrics.
	UpstreamRequests *prometheus.CounterVec   // labels: endpoint={alerts,points,forecast}, outcome={success,http_error,network_error}
	UpstreamRetries  *prometheus.CounterVec   // labels: endpoint
	UpstreamDuration *prometheus.HistogramVec // labels: endpoint

	// Tool invocation metrics.
	ToolCalls    *prometheus.CounterVec   // labels: tool, outcome={ok,<error code>}
	ToolDuration *prometheus.HistogramVec // labels: tool

	EventsPublished *prometheus.CounterVec // labels: result={success,error}
	ServerRunning   prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates metrics registered with reg. One-shot CLI lookups
// pass a throwaway registry.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(
		m.UpstreamRequests,
		m.UpstreamRetries,
		m.UpstreamDuration,
		m.ToolCalls,
		m.ToolDuration,
		m.EventsPublished,
		m.ServerRunning,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "NWS API request attempts by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		UpstreamRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_retries_total",
			Help:      "Backoff waits before re-sending an NWS API request.",
		}, []string{"endpoint"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of a single NWS API request attempt.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
		ToolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Tool invocations by tool and outcome.",
		}, []string{"tool", "outcome"}),
		ToolDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_call_duration_seconds",
			Help:      "End-to-end duration of a tool invocation, including retries.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"tool"}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_events_published_total",
			Help:      "Lookup events handed to the Kafka writer by delivery result.",
		}, []string{"result"}),
		ServerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "server_running",
			Help:      "1 while the MCP server is serving, 0 otherwise.",
		}),
	}
}
