package services

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/jmuseri/facturapp/internal/billing"
	"github.com/jmuseri/facturapp/internal/logger"
	"github.com/jmuseri/facturapp/internal/metrics"
	"github.com/jmuseri/facturapp/internal/models"
	"github.com/jmuseri/facturapp/internal/repository"
)

// DefaultUpcomingLimit is used when a listing of upcoming schedules does not ask for a size.
const DefaultUpcomingLimit = 3

type RecurringService struct {
	schedules     repository.ScheduleRepository
	clients       repository.ClientRepository
	notifications *NotificationService
	metrics       *metrics.Metrics
}

func NewRecurringService(
	schedules repository.ScheduleRepository,
	clients repository.ClientRepository,
	notifications *NotificationService,
	m *metrics.Metrics,
) *RecurringService {
	return &RecurringService{schedules: schedules, clients: clients, notifications: notifications, metrics: m}
}

func (s *RecurringService) List(ctx context.Context) ([]models.RecurringSchedule, error) {
	return s.schedules.List(ctx)
}

func (s *RecurringService) Get(ctx context.Context, id uint) (models.RecurringSchedule, error) {
	return s.schedules.Get(ctx, id)
}

// Upcoming returns the next active schedules, soonest first. It reads the
// stored schedules on every call.
func (s *RecurringService) Upcoming(ctx context.Context, limit int) ([]models.RecurringSchedule, error) {
	all, err := s.schedules.List(ctx)
	if err != nil {
		return nil, err
	}
	out := slices.Collect(billing.Upcoming(all, limit))
	if out == nil {
		out = []models.RecurringSchedule{}
	}
	return out, nil
}

func (s *RecurringService) Create(ctx context.Context, d billing.ScheduleDraft) (models.RecurringSchedule, error) {
	v := d.Validate()
	client, err := resolveClient(ctx, s.clients, d.ClientID, "client_id", v)
	if err != nil {
		return models.RecurringSchedule{}, err
	}
	if err := invalid(v); err != nil {
		return models.RecurringSchedule{}, err
	}
	d.ClientName = client.Name
	sched, err := billing.NewSchedule(d)
	if err != nil {
		return sched, err
	}
	if err := s.schedules.Create(ctx, &sched); err != nil {
		return sched, fmt.Errorf("create schedule: %w", err)
	}
	s.metrics.ScheduleChanged("create")
	s.notifications.Notify(ctx, models.NotificationInfo, "Factura Programada",
		fmt.Sprintf("Se ha programado una factura recurrente para %s.", sched.ClientName))
	logger.FromContext(ctx).Info("schedule created", zap.Uint("id", sched.ID), zap.String("frequency", string(sched.Frequency)))
	return sched, nil
}

// Update edits a schedule. NextDate restarts at the start date only when the
// start date or the frequency changed.
func (s *RecurringService) Update(ctx context.Context, id uint, d billing.ScheduleDraft) (models.RecurringSchedule, error) {
	sched, err := s.schedules.Get(ctx, id)
	if err != nil {
		return sched, err
	}
	v := d.Validate()
	d.ClientName = sched.ClientName
	if d.ClientID != sched.ClientID {
		client, err := resolveClient(ctx, s.clients, d.ClientID, "client_id", v)
		if err != nil {
			return sched, err
		}
		d.ClientName = client.Name
	}
	if err := invalid(v); err != nil {
		return sched, err
	}
	edited, err := billing.EditSchedule(sched, d)
	if err != nil {
		return sched, err
	}
	if err := s.schedules.Save(ctx, &edited); err != nil {
		return sched, fmt.Errorf("update schedule %d: %w", id, err)
	}
	s.metrics.ScheduleChanged("update")
	return edited, nil
}

// Toggle sets the active flag, or flips it when active is nil.
func (s *RecurringService) Toggle(ctx context.Context, id uint, active *bool) (models.RecurringSchedule, error) {
	sched, err := s.schedules.Get(ctx, id)
	if err != nil {
		return sched, err
	}
	want := !sched.Active
	if active != nil {
		want = *active
	}
	toggled := billing.Toggle(sched, want)
	if err := s.schedules.Save(ctx, &toggled); err != nil {
		return sched, fmt.Errorf("toggle schedule %d: %w", id, err)
	}
	s.metrics.ScheduleChanged("toggle")
	return toggled, nil
}

// Reschedule changes start date and frequency only.
func (s *RecurringService) Reschedule(ctx context.Context, id uint, start, frequency string) (models.RecurringSchedule, error) {
	sched, err := s.schedules.Get(ctx, id)
	if err != nil {
		return sched, err
	}
	out, err := billing.Reschedule(sched, start, frequency)
	if err != nil {
		return sched, err
	}
	if err := s.schedules.Save(ctx, &out); err != nil {
		return sched, fmt.Errorf("reschedule %d: %w", id, err)
	}
	s.metrics.ScheduleChanged("reschedule")
	return out, nil
}

func (s *RecurringService) Delete(ctx context.Context, id uint) error {
	if err := s.schedules.Delete(ctx, id); err != nil {
		return err
	}
	s.metrics.ScheduleChanged("delete")
	return nil
}
