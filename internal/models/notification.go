package models

import "time"

// NotificationType classifies a notification for display.
type NotificationType string

const (
	NotificationInfo    NotificationType = "INFO"
	NotificationWarning NotificationType = "WARNING"
	NotificationDanger  NotificationType = "DANGER"
)

// Notification is a message shown to the user. It is independent of
// invoices and clients.
type Notification struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	UserID    uint             `gorm:"index;not null" json:"-"`
	Title     string           `gorm:"size:255;not null" json:"title"`
	Message   string           `gorm:"size:1000;not null" json:"message"`
	Type      NotificationType `gorm:"size:10;not null;default:'INFO'" json:"type"`
	Date      time.Time        `gorm:"not null;index" json:"date"`
	Read      bool             `gorm:"not null;default:false" json:"read"`
}

func (n *Notification) GetUserID() uint {
	return n.UserID
}
