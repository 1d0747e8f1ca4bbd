package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FiscalProfile holds the monotributo registration of a user.
type FiscalProfile struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// UserID is the owner of this profile
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`

	// Tax registration
	CUIT          string `gorm:"column:cuit;size:13" json:"cuit,omitempty"`
	Category      string `gorm:"size:2" json:"category,omitempty"`
	FiscalAddress string `gorm:"size:500" json:"fiscal_address,omitempty"`
	PuntoVenta    int    `gorm:"default:1" json:"punto_venta"`

	// AnnualLimit is the gross billing ceiling of the category.
	AnnualLimit decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"annual_limit"`
}
