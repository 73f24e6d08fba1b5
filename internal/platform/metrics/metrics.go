package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// BotMetrics collects bot-level counters and provider request latency.
type BotMetrics struct {
	registry *prometheus.Registry

	searches        *prometheus.CounterVec
	pages           *prometheus.CounterVec
	providerLatency *prometheus.HistogramVec
}

// NewBotMetrics creates a new BotMetrics with its own registry.
func NewBotMetrics() *BotMetrics {
	reg := prometheus.NewRegistry()

	searches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_searches_total",
		Help: "Total number of free-text searches by outcome.",
	}, []string{"outcome"})

	pages := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_pages_rendered_total",
		Help: "Total number of history/stats pages rendered.",
	}, []string{"source"})

	providerLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "provider_request_duration_seconds",
		Help:    "Movie provider request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "status"})

	reg.MustRegister(searches, pages, providerLatency)

	return &BotMetrics{
		registry:        reg,
		searches:        searches,
		pages:           pages,
		providerLatency: providerLatency,
	}
}

// RecordSearch counts one search outcome (found, not_found, rate_limited, error).
func (m *BotMetrics) RecordSearch(outcome string) {
	if m == nil || m.searches == nil {
		return
	}
	m.searches.WithLabelValues(outcome).Inc()
}

// RecordPage counts one rendered list page.
func (m *BotMetrics) RecordPage(source string) {
	if m == nil || m.pages == nil {
		return
	}
	m.pages.WithLabelValues(source).Inc()
}

// ObserveProviderRequest records provider call latency. A status of zero
// means the request never produced a response.
func (m *BotMetrics) ObserveProviderRequest(endpoint string, status int, elapsed time.Duration) {
	if m == nil || m.providerLatency == nil {
		return
	}
	m.providerLatency.WithLabelValues(endpoint, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler returns a Prometheus handler that serves this registry.
func (m *BotMetrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
