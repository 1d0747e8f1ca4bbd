// Package policy decides which stored records a request may see or change.
// Every client, invoice, schedule and notification belongs to one user.
package policy

import (
	"context"

	"gorm.io/gorm"

	"github.com/jmuseri/facturapp/auth"
)

// Ownable is an interface for resources that have an owner.
type Ownable interface {
	GetUserID() uint
}

// Owner returns the user the request acts for, or 0 without a session.
func Owner(ctx context.Context) uint {
	id, _ := auth.UserIDFromContext(ctx)
	return id
}

// Owns reports whether the request's user owns resource. A request without a
// user owns nothing.
func Owns(ctx context.Context, resource Ownable) bool {
	uid := Owner(ctx)
	return uid != 0 && resource.GetUserID() == uid
}

// Scope restricts a query to the rows owned by the request's user.
func Scope(ctx context.Context) func(*gorm.DB) *gorm.DB {
	uid := Owner(ctx)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", uid)
	}
}
