// Package telemetry exposes Prometheus observability primitives for the
// HTTP surface.
package telemetry

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// HTTPMetrics counts requests and tracks latency per route.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	denials  *prometheus.CounterVec
}

// NewHTTPMetrics registers and returns Prometheus metrics.
func NewHTTPMetrics() (*HTTPMetrics, error) {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wayfarer_http_requests_total",
			Help: "Counts HTTP requests by method, route, and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wayfarer_http_request_duration_seconds",
			Help:    "HTTP request latency per method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		denials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wayfarer_authorization_denials_total",
			Help: "Authorization denials by route.",
		}, []string{"route"}),
	}

	for _, c := range []prometheus.Collector{m.requests, m.duration, m.denials} {
		if err := prometheus.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// GinMiddleware records request counts and latency. Unmatched routes are
// bucketed together to keep label cardinality bounded.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		m.requests.WithLabelValues(c.Request.Method, route, status).Inc()
		m.duration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
		if c.Writer.Status() == 403 {
			m.denials.WithLabelValues(route).Inc()
		}
	}
}

// Module provides HTTP metrics to the fx graph.
var Module = fx.Module("telemetry",
	fx.Provide(NewHTTPMetrics),
)
