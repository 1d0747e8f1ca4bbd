package handlers

import (
	"context"
	"net/http"

	"gorm.io/gorm"

	"github.com/jmuseri/facturapp/auth"
	"github.com/jmuseri/facturapp/internal/delivery"
	"github.com/jmuseri/facturapp/internal/metrics"
	"github.com/jmuseri/facturapp/internal/repository"
	"github.com/jmuseri/facturapp/internal/services"
)

// RouterConfig holds the configured handlers and the session guard.
type RouterConfig struct {
	Sessions *auth.Sessions

	AuthHandler         *AuthHandler
	ClientHandler       *ClientHandler
	InvoiceHandler      *InvoiceHandler
	RecurringHandler    *RecurringHandler
	DashboardHandler    *DashboardHandler
	NotificationHandler *NotificationHandler
	SettingsHandler     *SettingsHandler
}

// NewRouterConfig wires repositories, services and handlers on db. The
// session verifier is pointed at the user table.
func NewRouterConfig(db *gorm.DB, sessions *auth.Sessions, deliverer delivery.Deliverer, m *metrics.Metrics) *RouterConfig {
	clientRepo := repository.NewClients(db)
	invoiceRepo := repository.NewInvoices(db)
	scheduleRepo := repository.NewSchedules(db)
	notificationRepo := repository.NewNotifications(db)
	userRepo := repository.NewUsers(db)

	notifications := services.NewNotificationService(notificationRepo)
	clients := services.NewClientService(clientRepo)
	invoices := services.NewInvoiceService(invoiceRepo, clientRepo, notifications, deliverer, m)
	recurring := services.NewRecurringService(scheduleRepo, clientRepo, notifications, m)
	accounts := services.NewAccountService(userRepo, repository.NewPlans(db))
	dashboard := services.NewDashboardService(invoiceRepo, userRepo, notificationRepo, recurring)

	sessions.SetUserVerifier(func(ctx context.Context, uid uint) bool {
		return accounts.Exists(ctx, uid)
	})

	return &RouterConfig{
		Sessions:            sessions,
		AuthHandler:         NewAuthHandler(accounts, sessions),
		ClientHandler:       NewClientHandler(clients),
		InvoiceHandler:      NewInvoiceHandler(invoices, clients, accounts),
		RecurringHandler:    NewRecurringHandler(recurring),
		DashboardHandler:    NewDashboardHandler(dashboard),
		NotificationHandler: NewNotificationHandler(notifications),
		SettingsHandler:     NewSettingsHandler(accounts),
	}
}

// Register adds every API route to mux.
func (c *RouterConfig) Register(mux *http.ServeMux) {
	// ─────────────────────────────────────────────────────────────────────────
	// Public routes (no auth required)
	// ─────────────────────────────────────────────────────────────────────────
	ah := c.AuthHandler
	mux.HandleFunc("POST /auth/register", ah.Register)
	mux.HandleFunc("POST /auth/login", ah.Login)
	mux.HandleFunc("POST /auth/logout", ah.Logout)

	// ─────────────────────────────────────────────────────────────────────────
	// Authenticated routes
	// ─────────────────────────────────────────────────────────────────────────
	protect := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, c.Sessions.RequireAuth(h))
	}
	protect("GET /auth/me", ah.Me)

	ch := c.ClientHandler
	protect("GET /clients", ch.List)
	protect("POST /clients", ch.Create)
	protect("GET /clients/{id}", ch.View)
	protect("PUT /clients/{id}", ch.Update)
	protect("DELETE /clients/{id}", ch.Delete)

	ih := c.InvoiceHandler
	protect("GET /invoices", ih.List)
	protect("POST /invoices", ih.Create)
	protect("GET /invoices/export.xlsx", ih.Export)
	protect("POST /invoices/preview", ih.Preview)
	protect("GET /invoices/{id}", ih.View)
	protect("PUT /invoices/{id}", ih.Update)
	protect("DELETE /invoices/{id}", ih.Delete)
	protect("POST /invoices/{id}/send", ih.Send)
	protect("GET /invoices/{id}/pdf", ih.PDF)

	rh := c.RecurringHandler
	protect("GET /recurring", rh.List)
	protect("POST /recurring", rh.Create)
	protect("GET /recurring/upcoming", rh.Upcoming)
	protect("GET /recurring/{id}", rh.View)
	protect("PUT /recurring/{id}", rh.Update)
	protect("DELETE /recurring/{id}", rh.Delete)
	protect("POST /recurring/{id}/toggle", rh.Toggle)
	protect("POST /recurring/{id}/reschedule", rh.Reschedule)

	protect("GET /dashboard", c.DashboardHandler.Show)

	nh := c.NotificationHandler
	protect("GET /notifications", nh.List)
	protect("POST /notifications/read-all", nh.MarkAllRead)
	protect("POST /notifications/{id}/toggle", nh.Toggle)
	protect("DELETE /notifications/{id}", nh.Delete)

	sh := c.SettingsHandler
	protect("PUT /settings/profile", sh.UpdateProfile)
	protect("PUT /settings/fiscal", sh.UpdateFiscal)
	protect("PUT /settings/password", sh.ChangePassword)
	protect("GET /plans", sh.Plans)
}
