package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics holds the collectors of one Handler. Each Handler has its own
// registry so several can live in one process (tests).
type metrics struct {
	registry *prometheus.Registry

	authOutcomes    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rateLimited     prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		authOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vaultscribe",
			Name:      "auth_outcomes_total",
			Help:      "Authentication workflow steps by step and outcome.",
		}, []string{"step", "outcome"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vaultscribe",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vaultscribe",
			Name:      "http_rate_limited_total",
			Help:      "Requests rejected by the authentication rate limit.",
		}),
	}

	m.registry.MustRegister(
		m.authOutcomes,
		m.requestDuration,
		m.rateLimited,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// observeAuth counts one workflow step. Outcome is "success", "rejected" for
// client errors or "error" for server failures.
func (m *metrics) observeAuth(step string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "rejected"
		if statusFromError(err) >= http.StatusInternalServerError {
			outcome = "error"
		}
	}
	m.authOutcomes.WithLabelValues(step, outcome).Inc()
}

func (m *metrics) observeRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
