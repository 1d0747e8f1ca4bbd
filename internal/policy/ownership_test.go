package policy_test

import (
	"context"
	"testing"

	"github.com/jmuseri/facturapp/auth"
	"github.com/jmuseri/facturapp/internal/models"
	"github.com/jmuseri/facturapp/internal/policy"
)

// ownedRecord is a test resource that implements Ownable.
type ownedRecord struct {
	userID uint
}

func (o *ownedRecord) GetUserID() uint {
	return o.userID
}

func TestOwns(t *testing.T) {
	resource := &ownedRecord{userID: 42}

	tests := []struct {
		name string
		ctx  context.Context
		want bool
	}{
		{"owner", auth.WithUserID(context.Background(), 42), true},
		{"other user", auth.WithUserID(context.Background(), 99), false},
		{"no session", context.Background(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := policy.Owns(tt.ctx, resource); got != tt.want {
				t.Errorf("Owns() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOwns_NoSessionAndUnownedRecord(t *testing.T) {
	// A record with no owner must not match a request without a user.
	if policy.Owns(context.Background(), &ownedRecord{}) {
		t.Error("expected zero owner to be denied")
	}
}

func TestModelsAreOwnable(t *testing.T) {
	ctx := auth.WithUserID(context.Background(), 7)
	resources := []policy.Ownable{
		&models.Client{UserID: 7},
		&models.Invoice{UserID: 7},
		&models.RecurringSchedule{UserID: 7},
		&models.Notification{UserID: 7},
	}
	for _, r := range resources {
		if !policy.Owns(ctx, r) {
			t.Errorf("%T: expected owner to have access", r)
		}
	}
	if got := policy.Owner(ctx); got != 7 {
		t.Errorf("Owner() = %d, want 7", got)
	}
}
