package models

import (
	"time"

	"gorm.io/gorm"
)

// Client represents a customer invoiced by the user.
type Client struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// UserID is the owner of this client.
	UserID uint `gorm:"index;not null" json:"-"`

	// Legal name and tax identifier (CUIT, NN-NNNNNNNN-N)
	Name string `gorm:"size:255;not null;index" json:"name" validate:"required"`
	CUIT string `gorm:"column:cuit;size:13;not null;index" json:"cuit" validate:"required"`

	// Contact
	Email   string `gorm:"size:255;not null" json:"email" validate:"required,email"`
	Phone   string `gorm:"size:50;not null" json:"phone" validate:"required"`
	Address string `gorm:"size:500" json:"address,omitempty"`
}

// GetUserID returns the owner of the client.
func (c *Client) GetUserID() uint {
	return c.UserID
}
