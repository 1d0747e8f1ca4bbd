package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Plan is a subscription plan offered to users.
type Plan struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	Name             string          `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description      string          `gorm:"size:500" json:"description"`
	MonthlyPrice     decimal.Decimal `gorm:"type:numeric;not null" json:"monthly_price"`
	AnnualPrice      decimal.Decimal `gorm:"type:numeric;not null" json:"annual_price"`
	InvoicesPerMonth int             `gorm:"not null" json:"invoices_per_month"`
	// Features is stored newline-separated.
	Features string `gorm:"type:text" json:"-"`
}

// FeatureList splits the stored features.
func (p Plan) FeatureList() []string {
	if p.Features == "" {
		return nil
	}
	return strings.Split(p.Features, "\n")
}
