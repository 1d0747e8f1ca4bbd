package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jmuseri/facturapp/internal/models"
	"github.com/jmuseri/facturapp/internal/policy"
)

type GormNotifications struct {
	db *gorm.DB
}

func NewNotifications(db *gorm.DB) *GormNotifications {
	return &GormNotifications{db: db}
}

func (r *GormNotifications) List(ctx context.Context, limit int) ([]models.Notification, error) {
	q := r.db.WithContext(ctx).Scopes(policy.Scope(ctx)).Order("date DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []models.Notification
	return out, q.Find(&out).Error
}

func (r *GormNotifications) Get(ctx context.Context, id uint) (models.Notification, error) {
	var n models.Notification
	if err := r.db.WithContext(ctx).Scopes(policy.Scope(ctx)).First(&n, id).Error; err != nil {
		return n, notFound("notification", id, err)
	}
	return n, nil
}

func (r *GormNotifications) Create(ctx context.Context, n *models.Notification) error {
	n.UserID = policy.Owner(ctx)
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *GormNotifications) Save(ctx context.Context, n *models.Notification) error {
	if !policy.Owns(ctx, n) {
		return notFound("notification", n.ID, gorm.ErrRecordNotFound)
	}
	return r.db.WithContext(ctx).Save(n).Error
}

func (r *GormNotifications) MarkAllRead(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Scopes(policy.Scope(ctx)).Model(&models.Notification{}).Where("read = ?", false).Update("read", true)
	return res.RowsAffected, res.Error
}

func (r *GormNotifications) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Scopes(policy.Scope(ctx)).Delete(&models.Notification{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("notification", id, gorm.ErrRecordNotFound)
	}
	return nil
}
