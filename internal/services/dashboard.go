package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jmuseri/facturapp/internal/billing"
	"github.com/jmuseri/facturapp/internal/models"
	"github.com/jmuseri/facturapp/internal/repository"
)

// DashboardLimits sizes each section of the dashboard.
type DashboardLimits struct {
	Recent        int
	Notifications int
	Upcoming      int
}

// DefaultDashboardLimits are the section sizes shown on the home screen.
var DefaultDashboardLimits = DashboardLimits{Recent: 3, Notifications: 3, Upcoming: 2}

type Dashboard struct {
	Usage          billing.UsageSummary       `json:"usage"`
	Category       string                     `json:"category,omitempty"`
	RecentInvoices []models.Invoice           `json:"recent_invoices"`
	Notifications  []models.Notification      `json:"notifications"`
	Upcoming       []models.RecurringSchedule `json:"upcoming"`
}

type DashboardService struct {
	invoices      repository.InvoiceRepository
	users         repository.UserRepository
	notifications repository.NotificationRepository
	recurring     *RecurringService
	now           Clock
}

func NewDashboardService(
	invoices repository.InvoiceRepository,
	users repository.UserRepository,
	notifications repository.NotificationRepository,
	recurring *RecurringService,
) *DashboardService {
	return &DashboardService{invoices: invoices, users: users, notifications: notifications, recurring: recurring, now: utcNow}
}

// Summary builds the dashboard of userID for the current calendar year.
func (s *DashboardService) Summary(ctx context.Context, userID uint, l DashboardLimits) (Dashboard, error) {
	var d Dashboard
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return d, err
	}
	limit := decimal.Zero
	if user.Fiscal != nil {
		limit = user.Fiscal.AnnualLimit
		d.Category = user.Fiscal.Category
	}

	invoices, err := s.invoices.List(ctx, repository.InvoiceFilter{})
	if err != nil {
		return d, err
	}
	d.Usage = billing.Usage(invoices, limit, s.now().Year())
	d.RecentInvoices = billing.RecentInvoices(invoices, l.Recent)
	for i := range d.RecentInvoices {
		d.RecentInvoices[i] = billing.Recompute(d.RecentInvoices[i])
	}

	if l.Notifications > 0 {
		if d.Notifications, err = s.notifications.List(ctx, l.Notifications); err != nil {
			return d, err
		}
	}
	if d.Upcoming, err = s.recurring.Upcoming(ctx, l.Upcoming); err != nil {
		return d, err
	}
	if d.RecentInvoices == nil {
		d.RecentInvoices = []models.Invoice{}
	}
	if d.Notifications == nil {
		d.Notifications = []models.Notification{}
	}
	return d, nil
}
