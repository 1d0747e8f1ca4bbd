// Package models holds the persistent entities of the invoicing service.
package models

// All returns every model managed by AutoMigrate, in dependency order.
func All() []any {
	return []any{
		&User{},
		&FiscalProfile{},
		&Client{},
		&Invoice{},
		&LineItem{},
		&RecurringSchedule{},
		&Notification{},
		&Plan{},
	}
}
