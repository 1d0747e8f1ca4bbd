package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New()

	m.InvoiceCreated()
	m.InvoiceCreated()
	m.InvoiceSent("email")
	m.InvoiceRejected("send", "invalid_state")
	m.ScheduleChanged("toggle")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.invoicesCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.invoicesSent.WithLabelValues("email")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.invoicesRejected.WithLabelValues("send", "invalid_state")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.schedules.WithLabelValues("toggle")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.InvoiceCreated()
		m.InvoiceSent("whatsapp")
		m.ScheduleChanged("create")
	})
	h := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	assert.NotNil(t, m.Middleware(h))
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := New()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /invoices/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	h := m.Middleware(mux)

	for _, id := range []string{"1", "2"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/invoices/"+id, nil))
	}

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rr.Body.String()
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(body, `facturapp_http_requests_total{method="GET",route="GET /invoices/{id}",status="404"} 2`), body)
}
