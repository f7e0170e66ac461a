// Package metrics exposes Prometheus instruments for the HTTP surface and
// the sales pipeline.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	invoicesCreated *prometheus.CounterVec
	invoiceAmount   *prometheus.HistogramVec
	rateLimitDenied *prometheus.CounterVec
}

// New registers and returns the application instruments.
func New() *Metrics {
	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kirana_http_requests_total",
		Help: "HTTP requests by method, route, and status.",
	}, []string{"method", "route", "status"})

	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kirana_http_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	invoicesCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kirana_invoices_total",
		Help: "Invoices created by scheme.",
	}, []string{"scheme"})

	invoiceAmount := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kirana_invoice_amount",
		Help:    "Invoice grand total distribution.",
		Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000},
	}, []string{"scheme"})

	rateLimitDenied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kirana_rate_limit_denied_total",
		Help: "Public requests rejected by the rate limiter.",
	}, []string{"route"})

	prometheus.MustRegister(
		httpRequests,
		httpDuration,
		invoicesCreated,
		invoiceAmount,
		rateLimitDenied,
	)

	return &Metrics{
		httpRequests:    httpRequests,
		httpDuration:    httpDuration,
		invoicesCreated: invoicesCreated,
		invoiceAmount:   invoiceAmount,
		rateLimitDenied: rateLimitDenied,
	}
}

// ObserveRequest records one handled HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	route = sanitizeRoute(route)
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveInvoice records one created invoice.
func (m *Metrics) ObserveInvoice(scheme string, amount float64) {
	if m == nil {
		return
	}
	m.invoicesCreated.WithLabelValues(scheme).Inc()
	m.invoiceAmount.WithLabelValues(scheme).Observe(amount)
}

// ObserveRateLimitDenied counts a rejected public request.
func (m *Metrics) ObserveRateLimitDenied(route string) {
	if m == nil {
		return
	}
	m.rateLimitDenied.WithLabelValues(sanitizeRoute(route)).Inc()
}

// GinMiddleware instruments every matched route. Unmatched paths collapse
// into one label to keep cardinality bounded.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

func sanitizeRoute(route string) string {
	if route == "" {
		return "unknown"
	}
	return route
}
