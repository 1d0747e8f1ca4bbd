package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceStatus represents the status of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "PENDING"
	InvoiceStatusSent    InvoiceStatus = "SENT"
)

// Invoice represents a billing invoice.
type Invoice struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// UserID is the owner of this invoice.
	UserID uint `gorm:"index;not null" json:"-"`

	// Invoice identification, C-NNNNN
	Number string `gorm:"size:20;uniqueIndex;not null" json:"invoice_number"`

	// Client reference. ClientName is a snapshot taken when the invoice is
	// created and is not refreshed when the client is renamed.
	ClientID   uint   `gorm:"index;not null" json:"client_id"`
	ClientName string `gorm:"size:255;not null" json:"client_name"`

	IssueDate time.Time `gorm:"not null;index" json:"date"`
	Concept   string    `gorm:"size:500;not null" json:"concept"`

	// TotalAmount is the sum of the item totals.
	TotalAmount decimal.Decimal `gorm:"type:numeric;not null" json:"total_amount"`

	Status InvoiceStatus `gorm:"size:10;not null;default:'PENDING';index" json:"status"`
	SentAt *time.Time    `json:"sent_at,omitempty"`

	// Delivery channels
	SendByEmail    bool `gorm:"not null;default:false" json:"send_by_email"`
	SendByWhatsapp bool `gorm:"not null;default:false" json:"send_by_whatsapp"`

	Items []LineItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`
}

// GetUserID returns the owner of the invoice.
func (i *Invoice) GetUserID() uint {
	return i.UserID
}

// IsPending returns true while the invoice has not been sent.
func (i *Invoice) IsPending() bool {
	return i.Status == InvoiceStatusPending
}

// IsSent returns true once the invoice has been sent.
func (i *Invoice) IsSent() bool {
	return i.Status == InvoiceStatusSent
}

// LineItem represents a line on an invoice.
type LineItem struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	InvoiceID uint `gorm:"index;not null" json:"-"`

	// Position for ordering
	Position int `gorm:"not null;default:0" json:"position"`

	Description string          `gorm:"size:500;not null" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:numeric;not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric;not null" json:"unit_price"`
	Total       decimal.Decimal `gorm:"type:numeric;not null" json:"total"`
}
