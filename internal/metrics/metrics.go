// Package metrics collects and exposes Prometheus metrics for review-front.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records request and profile-fetch metrics
type Collector struct {
	httpRequests   *prometheus.CounterVec
	httpLatency    *prometheus.HistogramVec
	profileLoaded  prometheus.Counter
	profileErrors  *prometheus.CounterVec
	signInRedirect prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "review_front_http_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "review_front_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		profileLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "review_front_profile_loaded_total",
			Help: "Dashboard profile fetches that reached the loaded state",
		}),
		profileErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "review_front_profile_errors_total",
			Help: "Dashboard profile fetches that reached the error state, by reason",
		}, []string{"reason"}),
		signInRedirect: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "review_front_signin_redirects_total",
			Help: "Requests redirected to sign-in for lack of a session token",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.profileLoaded,
		c.profileErrors,
		c.signInRedirect,
	)
	return c
}

// RecordRequest records a completed HTTP request
func (c *Collector) RecordRequest(route string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(route, strconv.Itoa(statusCode)).Inc()
	c.httpLatency.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordProfileLoaded records a successful profile fetch
func (c *Collector) RecordProfileLoaded() {
	c.profileLoaded.Inc()
}

// RecordProfileError records a failed profile fetch.
// reason is one of "request_failed" or "network".
func (c *Collector) RecordProfileError(reason string) {
	c.profileErrors.WithLabelValues(reason).Inc()
}

// RecordSignInRedirect records a silent redirect to sign-in
func (c *Collector) RecordSignInRedirect() {
	c.signInRedirect.Inc()
}

// NewHandler returns the /metrics endpoint handler for the given registry
func NewHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
