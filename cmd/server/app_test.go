package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jmuseri/facturapp/auth"
	"github.com/jmuseri/facturapp/internal/config"
	"github.com/jmuseri/facturapp/internal/db"
	"github.com/jmuseri/facturapp/internal/metrics"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	gdb, err := db.OpenSQLite(filepath.Join(t.TempDir(), "app.db"), nil)
	require.NoError(t, err)
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: "sqlite"}}
	require.NoError(t, db.Migrate(gdb, cfg))
	require.NoError(t, db.Seed(context.Background(), gdb))
	sessions := auth.NewSessions(config.AuthConfig{Secret: "app-test-secret-app-test-secret!", TokenTTL: time.Hour})
	return NewApp(gdb, sessions, zap.NewNop(), metrics.New())
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestLoginThenDashboard_RecordsMetrics(t *testing.T) {
	app := newTestApp(t)

	login := httptest.NewRecorder()
	app.ServeHTTP(login, httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"demo@facturapp.com","password":"password"}`)))
	require.Equal(t, http.StatusOK, login.Code, login.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	dash := httptest.NewRecorder()
	app.ServeHTTP(dash, req)
	assert.Equal(t, http.StatusOK, dash.Code)

	scrape := httptest.NewRecorder()
	app.ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, scrape.Code)
	assert.Contains(t, scrape.Body.String(), `facturapp_http_requests_total{method="GET",route="GET /dashboard",status="200"} 1`)
}
