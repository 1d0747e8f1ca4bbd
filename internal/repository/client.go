package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jmuseri/facturapp/internal/models"
	"github.com/jmuseri/facturapp/internal/policy"
)

type GormClients struct {
	db *gorm.DB
}

func NewClients(db *gorm.DB) *GormClients {
	return &GormClients{db: db}
}

func (r *GormClients) List(ctx context.Context, search string) ([]models.Client, error) {
	var clients []models.Client
	q := r.db.WithContext(ctx).Scopes(policy.Scope(ctx)).Order("name, id")
	if search != "" {
		p := likePattern(search)
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(cuit) LIKE ? OR LOWER(email) LIKE ?)", p, p, p)
	}
	return clients, q.Find(&clients).Error
}

func (r *GormClients) Get(ctx context.Context, id uint) (models.Client, error) {
	var c models.Client
	if err := r.db.WithContext(ctx).Scopes(policy.Scope(ctx)).First(&c, id).Error; err != nil {
		return c, notFound("client", id, err)
	}
	return c, nil
}

// Create stores c as owned by the request's user.
func (r *GormClients) Create(ctx context.Context, c *models.Client) error {
	c.UserID = policy.Owner(ctx)
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *GormClients) Update(ctx context.Context, c *models.Client) error {
	if !policy.Owns(ctx, c) {
		return notFound("client", c.ID, gorm.ErrRecordNotFound)
	}
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *GormClients) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Scopes(policy.Scope(ctx)).Delete(&models.Client{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("client", id, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *GormClients) InUse(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Scopes(policy.Scope(ctx)).Model(&models.Invoice{}).Where("client_id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}
	if err := r.db.WithContext(ctx).Scopes(policy.Scope(ctx)).Model(&models.RecurringSchedule{}).Where("client_id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
