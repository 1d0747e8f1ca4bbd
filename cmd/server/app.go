package main

import (
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jmuseri/facturapp/auth"
	"github.com/jmuseri/facturapp/httpx"
	"github.com/jmuseri/facturapp/internal/delivery"
	"github.com/jmuseri/facturapp/internal/handlers"
	"github.com/jmuseri/facturapp/internal/logger"
	"github.com/jmuseri/facturapp/internal/metrics"
	"github.com/jmuseri/facturapp/internal/middleware"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux     *http.ServeMux
	db      *gorm.DB
	handler http.Handler
	metrics *metrics.Metrics
}

// NewApp creates a new application with all routes configured.
func NewApp(db *gorm.DB, sessions *auth.Sessions, log *zap.Logger, m *metrics.Metrics) *App {
	app := &App{
		mux:     http.NewServeMux(),
		db:      db,
		metrics: m,
	}
	routerCfg := handlers.NewRouterConfig(db, sessions, delivery.NewLogDeliverer(log), m)
	routerCfg.Register(app.mux)
	app.setupRoutes()

	// Outermost first: request logging, session, language, then metrics,
	// which must wrap the mux directly to see the matched pattern.
	app.handler = logger.Middleware(log)(sessions.Middleware(middleware.Prefs(m.Middleware(app.mux))))
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// setupRoutes adds the operational endpoints.
func (a *App) setupRoutes() {
	a.mux.HandleFunc("GET /healthz", a.healthz)
	a.mux.Handle("GET /metrics", a.metrics.Handler())
}

// healthz reports whether the database answers.
func (a *App) healthz(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := a.db.DB()
	if err == nil {
		err = sqlDB.PingContext(r.Context())
	}
	if err != nil {
		logger.FromContext(r.Context()).Warn("health check failed", zap.Error(err))
		httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
