package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/jmuseri/facturapp/internal/billing"
	"github.com/jmuseri/facturapp/internal/logger"
	"github.com/jmuseri/facturapp/internal/models"
	"github.com/jmuseri/facturapp/internal/repository"
)

// DefaultNotificationLimit is used when a listing does not ask for a size.
const DefaultNotificationLimit = 10

type NotificationService struct {
	repo repository.NotificationRepository
	now  Clock
}

func NewNotificationService(repo repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo, now: utcNow}
}

func (s *NotificationService) List(ctx context.Context, limit int) ([]models.Notification, error) {
	return s.repo.List(ctx, limit)
}

// Toggle flips the read flag.
func (s *NotificationService) Toggle(ctx context.Context, id uint) (models.Notification, error) {
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		return n, err
	}
	n.Read = !n.Read
	return n, s.repo.Save(ctx, &n)
}

func (s *NotificationService) MarkAllRead(ctx context.Context) (int64, error) {
	return s.repo.MarkAllRead(ctx)
}

func (s *NotificationService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

// Notify stores an unread notification dated today. Failures are logged and
// never fail the operation that triggered them.
func (s *NotificationService) Notify(ctx context.Context, typ models.NotificationType, title, message string) {
	n := models.Notification{
		Title:   title,
		Message: message,
		Type:    typ,
		Date:    billing.DateOf(s.now()),
	}
	if err := s.repo.Create(ctx, &n); err != nil {
		logger.FromContext(ctx).Warn("notification not stored", zap.String("title", title), zap.Error(err))
	}
}
