// Package repository persists the domain entities with gorm. Services depend
// on the interfaces declared here, never on *gorm.DB.
//
// Clients, invoices, schedules and notifications are read and written only
// for the user carried by the context; records of other users are reported
// as not found.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jmuseri/facturapp/internal/models"
)

// ErrNotFound is returned, wrapping gorm.ErrRecordNotFound, when a lookup misses.
var ErrNotFound = errors.New("not found")

func notFound(entity string, id any, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %v: %w: %w", entity, id, ErrNotFound, err)
	}
	return err
}

// likePattern builds a case-insensitive LIKE pattern that works on both
// postgres and sqlite (compared against LOWER(column)).
func likePattern(term string) string {
	return "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
}

// ClientRepository stores clients.
type ClientRepository interface {
	List(ctx context.Context, search string) ([]models.Client, error)
	Get(ctx context.Context, id uint) (models.Client, error)
	Create(ctx context.Context, c *models.Client) error
	Update(ctx context.Context, c *models.Client) error
	Delete(ctx context.Context, id uint) error
	// InUse reports whether any invoice or schedule references the client.
	InUse(ctx context.Context, id uint) (bool, error)
}

// InvoiceFilter narrows invoice listings. Zero fields do not filter.
type InvoiceFilter struct {
	ClientID uint
	Status   models.InvoiceStatus
	From     time.Time
	To       time.Time
	Search   string
}

// InvoiceRepository stores invoices with their line items.
type InvoiceRepository interface {
	List(ctx context.Context, f InvoiceFilter) ([]models.Invoice, error)
	Get(ctx context.Context, id uint) (models.Invoice, error)
	// Create calls build with the highest invoice id ever assigned and
	// stores the result, in one transaction.
	Create(ctx context.Context, build func(maxID uint) (models.Invoice, error)) (models.Invoice, error)
	// Save writes inv and replaces its line items.
	Save(ctx context.Context, inv *models.Invoice) error
	Delete(ctx context.Context, id uint) error
}

// ScheduleRepository stores recurring schedules.
type ScheduleRepository interface {
	List(ctx context.Context) ([]models.RecurringSchedule, error)
	Get(ctx context.Context, id uint) (models.RecurringSchedule, error)
	Create(ctx context.Context, s *models.RecurringSchedule) error
	Save(ctx context.Context, s *models.RecurringSchedule) error
	Delete(ctx context.Context, id uint) error
}

// NotificationRepository stores notifications.
type NotificationRepository interface {
	// List returns notifications newest first; limit <= 0 returns all.
	List(ctx context.Context, limit int) ([]models.Notification, error)
	Get(ctx context.Context, id uint) (models.Notification, error)
	Create(ctx context.Context, n *models.Notification) error
	Save(ctx context.Context, n *models.Notification) error
	MarkAllRead(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id uint) error
}

// UserRepository stores users and their fiscal profile.
type UserRepository interface {
	Get(ctx context.Context, id uint) (models.User, error)
	ByEmail(ctx context.Context, email string) (models.User, error)
	Create(ctx context.Context, u *models.User) error
	Save(ctx context.Context, u *models.User) error
	SaveFiscal(ctx context.Context, f *models.FiscalProfile) error
	Exists(ctx context.Context, id uint) bool
}

// PlanRepository lists subscription plans.
type PlanRepository interface {
	List(ctx context.Context) ([]models.Plan, error)
}
