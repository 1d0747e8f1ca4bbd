package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jmuseri/facturapp/internal/models"
	"github.com/jmuseri/facturapp/internal/policy"
)

type GormSchedules struct {
	db *gorm.DB
}

func NewSchedules(db *gorm.DB) *GormSchedules {
	return &GormSchedules{db: db}
}

func (r *GormSchedules) List(ctx context.Context) ([]models.RecurringSchedule, error) {
	var out []models.RecurringSchedule
	return out, r.db.WithContext(ctx).Scopes(policy.Scope(ctx)).Order("next_date, id").Find(&out).Error
}

func (r *GormSchedules) Get(ctx context.Context, id uint) (models.RecurringSchedule, error) {
	var s models.RecurringSchedule
	if err := r.db.WithContext(ctx).Scopes(policy.Scope(ctx)).First(&s, id).Error; err != nil {
		return s, notFound("recurring schedule", id, err)
	}
	return s, nil
}

func (r *GormSchedules) Create(ctx context.Context, s *models.RecurringSchedule) error {
	s.UserID = policy.Owner(ctx)
	return r.db.WithContext(ctx).Create(s).Error
}

// Save writes every column, including a false Active flag.
func (r *GormSchedules) Save(ctx context.Context, s *models.RecurringSchedule) error {
	if !policy.Owns(ctx, s) {
		return notFound("recurring schedule", s.ID, gorm.ErrRecordNotFound)
	}
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *GormSchedules) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Scopes(policy.Scope(ctx)).Delete(&models.RecurringSchedule{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("recurring schedule", id, gorm.ErrRecordNotFound)
	}
	return nil
}
