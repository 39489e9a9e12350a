package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPMetrics provides observability for the indexer's HTTP transport.
//
// The interface is optional: the server accepts nil and falls back to the
// no-op implementation.
type HTTPMetrics interface {
	// RecordRequest records a completed request with the route class it
	// hit ("listing", "file", "thumb", ...), the response status code
	// and the time taken.
	RecordRequest(route string, status int, duration time.Duration)

	// RecordRequestStart and RecordRequestEnd track in-flight requests.
	RecordRequestStart()
	RecordRequestEnd()
}

// NewHTTPMetrics creates a Prometheus-backed HTTPMetrics, or a no-op
// implementation when metrics are disabled.
func NewHTTPMetrics() HTTPMetrics {
	if !IsEnabled() {
		return NoopHTTPMetrics{}
	}

	reg := GetRegistry()

	return &httpMetrics{
		requestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "webindexer_http_requests_total",
				Help: "Total number of HTTP requests by route and status",
			},
			[]string{"route", "status"},
		),
		requestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webindexer_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{0.001, 0.01, 0.1, 1, 10},
			},
			[]string{"route"},
		),
		requestsInFlight: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "webindexer_http_requests_in_flight",
				Help: "Current number of HTTP requests being processed",
			},
		),
	}
}

// httpMetrics is the Prometheus implementation of HTTPMetrics.
type httpMetrics struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge
}

func (m *httpMetrics) RecordRequest(route string, status int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func (m *httpMetrics) RecordRequestStart() {
	m.requestsInFlight.Inc()
}

func (m *httpMetrics) RecordRequestEnd() {
	m.requestsInFlight.Dec()
}

// NoopHTTPMetrics discards all observations.
type NoopHTTPMetrics struct{}

func (NoopHTTPMetrics) RecordRequest(string, int, time.Duration) {}
func (NoopHTTPMetrics) RecordRequestStart()                      {}
func (NoopHTTPMetrics) RecordRequestEnd()                        {}
