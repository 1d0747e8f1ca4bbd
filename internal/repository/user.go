package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/jmuseri/facturapp/internal/models"
)

type GormUsers struct {
	db *gorm.DB
}

func NewUsers(db *gorm.DB) *GormUsers {
	return &GormUsers{db: db}
}

func (r *GormUsers) Get(ctx context.Context, id uint) (models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Preload("Fiscal").First(&u, id).Error; err != nil {
		return u, notFound("user", id, err)
	}
	return u, nil
}

// ByEmail matches the address case-insensitively.
func (r *GormUsers) ByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	email = strings.ToLower(strings.TrimSpace(email))
	if err := r.db.WithContext(ctx).Preload("Fiscal").Where("LOWER(email) = ?", email).First(&u).Error; err != nil {
		return u, notFound("user", email, err)
	}
	return u, nil
}

func (r *GormUsers) Create(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *GormUsers) Save(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Omit("Fiscal").Save(u).Error
}

func (r *GormUsers) SaveFiscal(ctx context.Context, f *models.FiscalProfile) error {
	return r.db.WithContext(ctx).Save(f).Error
}

func (r *GormUsers) Exists(ctx context.Context, id uint) bool {
	var n int64
	r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&n)
	return n > 0
}

type GormPlans struct {
	db *gorm.DB
}

func NewPlans(db *gorm.DB) *GormPlans {
	return &GormPlans{db: db}
}

func (r *GormPlans) List(ctx context.Context) ([]models.Plan, error) {
	var plans []models.Plan
	return plans, r.db.WithContext(ctx).Order("monthly_price, id").Find(&plans).Error
}
