// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector registers and records the service's metrics. All methods are safe
// on a nil receiver so wiring stays optional in tests.
type Collector struct {
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	authFailures  *prometheus.CounterVec
	registrations prometheus.Counter
	logins        prometheus.Counter
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "account_http_requests_total",
			Help: "HTTP requests by method, route pattern, and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "account_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "account_auth_failures_total",
			Help: "Authentication rejections by error code.",
		}, []string{"code"}),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "account_registrations_total",
			Help: "Successful account registrations.",
		}),
		logins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "account_logins_total",
			Help: "Successful logins.",
		}),
	}

	reg.MustRegister(c.httpRequests, c.httpDuration, c.authFailures, c.registrations, c.logins)
	return c
}

func (c *Collector) RecordRequest(method string, route string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) RecordAuthFailure(code string) {
	if c == nil {
		return
	}
	c.authFailures.WithLabelValues(code).Inc()
}

func (c *Collector) RecordRegistration() {
	if c == nil {
		return
	}
	c.registrations.Inc()
}

func (c *Collector) RecordLogin() {
	if c == nil {
		return
	}
	c.logins.Inc()
}

// Handler serves the registry, including the standard Go runtime collectors.
func Handler(reg *prometheus.Registry) http.Handler {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
