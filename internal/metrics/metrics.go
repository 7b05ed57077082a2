// Package metrics collects and exposes Prometheus metrics for the login
// server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records login-flow and request metrics.
type Collector struct {
	loginAttempts   prometheus.Counter
	loginSuccess    prometheus.Counter
	loginFailure    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers its metrics with the given
// registry. sessionCount, when non-nil, is exported as a live gauge.
func NewCollector(reg prometheus.Registerer, sessionCount func() int) *Collector {
	c := &Collector{
		loginAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "login_server_login_attempts_total",
			Help: "Total number of login flows started",
		}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "login_server_login_success_total",
			Help: "Total number of completed logins",
		}),
		loginFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "login_server_login_failure_total",
			Help: "Total number of failed logins by reason",
		}, []string{"reason"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "login_server_request_duration_seconds",
			Help:    "HTTP request latency by route and status code",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status_code"}),
	}

	reg.MustRegister(
		c.loginAttempts,
		c.loginSuccess,
		c.loginFailure,
		c.requestDuration,
	)

	if sessionCount != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "login_server_active_sessions",
			Help: "Number of live sessions in the store",
		}, func() float64 {
			return float64(sessionCount())
		}))
	}

	return c
}

func (c *Collector) RecordLoginAttempt() {
	c.loginAttempts.Inc()
}

func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

func (c *Collector) RecordLoginFailure(reason string) {
	c.loginFailure.WithLabelValues(reason).Inc()
}

func (c *Collector) ObserveRequest(route string, statusCode int, duration time.Duration) {
	c.requestDuration.WithLabelValues(route, strconv.Itoa(statusCode)).Observe(duration.Seconds())
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
