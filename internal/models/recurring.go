package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Frequency is the billing period of a recurring schedule.
type Frequency string

const (
	FrequencyMonthly   Frequency = "MONTHLY"
	FrequencyBiweekly  Frequency = "BIWEEKLY"
	FrequencyQuarterly Frequency = "QUARTERLY"
)

// RecurringSchedule describes an invoice that should be issued periodically.
// Issuing the invoices is not handled here; NextDate only tracks the next
// expected issue date.
type RecurringSchedule struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// UserID is the owner of this schedule.
	UserID uint `gorm:"index;not null" json:"-"`

	Description string `gorm:"size:255;not null" json:"description"`

	// Client reference with a name snapshot.
	ClientID   uint   `gorm:"index;not null" json:"client_id"`
	ClientName string `gorm:"size:255;not null" json:"client_name"`

	Concept string          `gorm:"size:500;not null" json:"concept"`
	Amount  decimal.Decimal `gorm:"type:numeric;not null" json:"amount"`

	Frequency Frequency `gorm:"size:10;not null" json:"frequency"`
	StartDate time.Time `gorm:"not null" json:"start_date"`
	NextDate  time.Time `gorm:"not null;index" json:"next_date"`
	Active    bool      `gorm:"not null" json:"active"`

	SendByEmail    bool `gorm:"not null;default:false" json:"send_by_email"`
	SendByWhatsapp bool `gorm:"not null;default:false" json:"send_by_whatsapp"`
}

func (s *RecurringSchedule) GetUserID() uint {
	return s.UserID
}
