package models

import (
	"testing"
)

func TestInvoice_Status(t *testing.T) {
	tests := []struct {
		name        string
		status      InvoiceStatus
		wantPending bool
		wantSent    bool
	}{
		{"pending", InvoiceStatusPending, true, false},
		{"sent", InvoiceStatusSent, false, true},
		{"empty", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &Invoice{Status: tt.status}
			if got := inv.IsPending(); got != tt.wantPending {
				t.Errorf("IsPending() = %v, want %v", got, tt.wantPending)
			}
			if got := inv.IsSent(); got != tt.wantSent {
				t.Errorf("IsSent() = %v, want %v", got, tt.wantSent)
			}
		})
	}
}

func TestPlan_FeatureList(t *testing.T) {
	tests := []struct {
		name     string
		features string
		want     []string
	}{
		{"empty", "", nil},
		{"single", "Soporte por email", []string{"Soporte por email"}},
		{"multiple", "Facturas ilimitadas\nSoporte prioritario", []string{"Facturas ilimitadas", "Soporte prioritario"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Plan{Features: tt.features}.FeatureList()
			if len(got) != len(tt.want) {
				t.Fatalf("FeatureList() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("FeatureList()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestAll_RegistersEveryEntity(t *testing.T) {
	if got := len(All()); got != 8 {
		t.Errorf("All() returned %d models, want 8", got)
	}
}
