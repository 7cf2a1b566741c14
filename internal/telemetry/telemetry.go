package telemetry

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// outboundRequestsTotal counts outbound HTTP requests by result.
	outboundRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outbound_requests_total",
			Help: "Total number of outbound http requests.",
		},
		[]string{"method", "path", "status"},
	)

	// outboundRequestDuration is a histogram for outbound request latencies.
	outboundRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "outbound_request_duration_seconds",
			Help: "Duration of outbound HTTP requests.",
		},
		[]string{"method", "path"},
	)
)

// Transport is an http.RoundTripper that records Prometheus metrics and logs
// every request it forwards to Next.
type Transport struct {
	Next   http.RoundTripper
	Logger *slog.Logger
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(r *http.Request) (*http.Response, error) {
	next := t.Next
	if next == nil {
		next = http.DefaultTransport
	}
	logger := t.Logger
	if logger == nil {
		logger = slog.Default()
	}

	startTime := time.Now()
	resp, err := next.RoundTrip(r)
	duration := time.Since(startTime)

	status := "error"
	if err == nil {
		status = http.StatusText(resp.StatusCode)
	}
	outboundRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration.Seconds())
	outboundRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()

	if err != nil {
		logger.Warn("request failed",
			"method", r.Method,
			"url", r.URL.Redacted(),
			"duration", duration,
			"error", err,
		)
		return nil, err
	}

	logger.Info("request sent",
		"method", r.Method,
		"url", r.URL.Redacted(),
		"status", resp.StatusCode,
		"duration", duration,
	)
	return resp, nil
}

// Client returns an http.Client whose requests go through a Transport.
func Client(logger *slog.Logger, timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &Transport{Logger: logger},
		Timeout:   timeout,
	}
}
