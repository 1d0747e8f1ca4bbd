// Package metrics exposes prometheus collectors for the HTTP layer and the
// invoicing operations.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a registry and the collectors registered on it. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry         *prometheus.Registry
	requests         *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	invoicesCreated  prometheus.Counter
	invoicesSent     *prometheus.CounterVec
	invoicesRejected *prometheus.CounterVec
	schedules        *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "facturapp_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "facturapp_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"route"}),
		invoicesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "facturapp_invoices_created_total",
			Help: "Invoices created.",
		}),
		invoicesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "facturapp_invoices_sent_total",
			Help: "Invoice deliveries by channel.",
		}, []string{"channel"}),
		invoicesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "facturapp_invoice_rejections_total",
			Help: "Invoice operations rejected by validation or state rules.",
		}, []string{"op", "reason"}),
		schedules: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "facturapp_recurring_schedule_changes_total",
			Help: "Recurring schedule changes by operation.",
		}, []string{"op"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.requestDuration,
		m.invoicesCreated,
		m.invoicesSent,
		m.invoicesRejected,
		m.schedules,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) InvoiceCreated() {
	if m != nil {
		m.invoicesCreated.Inc()
	}
}

func (m *Metrics) InvoiceSent(channel string) {
	if m != nil {
		m.invoicesSent.WithLabelValues(channel).Inc()
	}
}

func (m *Metrics) InvoiceRejected(op, reason string) {
	if m != nil {
		m.invoicesRejected.WithLabelValues(op, reason).Inc()
	}
}

func (m *Metrics) ScheduleChanged(op string) {
	if m != nil {
		m.schedules.WithLabelValues(op).Inc()
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware counts requests. Routes are labelled with the ServeMux pattern
// that matched, so path parameters do not inflate cardinality. It must wrap
// the mux directly: the mux records the pattern on the request it receives.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
