package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jmuseri/facturapp/internal/models"
	"github.com/jmuseri/facturapp/internal/policy"
)

type GormInvoices struct {
	db *gorm.DB
}

func NewInvoices(db *gorm.DB) *GormInvoices {
	return &GormInvoices{db: db}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position, id")
}

func (r *GormInvoices) List(ctx context.Context, f InvoiceFilter) ([]models.Invoice, error) {
	q := r.db.WithContext(ctx).Scopes(policy.Scope(ctx)).Preload("Items", orderedItems).Order("issue_date DESC, id DESC")
	if f.ClientID != 0 {
		q = q.Where("client_id = ?", f.ClientID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if !f.From.IsZero() {
		q = q.Where("issue_date >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("issue_date <= ?", f.To)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where("(LOWER(number) LIKE ? OR LOWER(client_name) LIKE ?)", p, p)
	}
	var invoices []models.Invoice
	return invoices, q.Find(&invoices).Error
}

func (r *GormInvoices) Get(ctx context.Context, id uint) (models.Invoice, error) {
	var inv models.Invoice
	if err := r.db.WithContext(ctx).Scopes(policy.Scope(ctx)).Preload("Items", orderedItems).First(&inv, id).Error; err != nil {
		return inv, notFound("invoice", id, err)
	}
	return inv, nil
}

func (r *GormInvoices) Create(ctx context.Context, build func(maxID uint) (models.Invoice, error)) (models.Invoice, error) {
	var inv models.Invoice
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Numbers are shared by all users, and deleted invoices keep theirs,
		// so the maximum spans every row.
		var maxID uint
		if err := tx.Unscoped().Model(&models.Invoice{}).Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
			return err
		}
		var err error
		if inv, err = build(maxID); err != nil {
			return err
		}
		inv.UserID = policy.Owner(ctx)
		return tx.Create(&inv).Error
	})
	return inv, err
}

func (r *GormInvoices) Save(ctx context.Context, inv *models.Invoice) error {
	if !policy.Owns(ctx, inv) {
		return notFound("invoice", inv.ID, gorm.ErrRecordNotFound)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(inv).Error; err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", inv.ID).Delete(&models.LineItem{}).Error; err != nil {
			return err
		}
		if len(inv.Items) == 0 {
			return nil
		}
		for i := range inv.Items {
			inv.Items[i].ID = 0
			inv.Items[i].InvoiceID = inv.ID
		}
		return tx.Create(&inv.Items).Error
	})
}

func (r *GormInvoices) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Scopes(policy.Scope(ctx)).Delete(&models.Invoice{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("invoice", id, gorm.ErrRecordNotFound)
	}
	return nil
}
