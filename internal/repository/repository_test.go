package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jmuseri/facturapp/auth"
	"github.com/jmuseri/facturapp/internal/billing"
	"github.com/jmuseri/facturapp/internal/db"
	"github.com/jmuseri/facturapp/internal/models"
)

// seeded returns a seeded database and a context acting as the demo user.
func seeded(t *testing.T) (*gorm.DB, context.Context) {
	t.Helper()
	gdb, err := db.OpenSQLite(filepath.Join(t.TempDir(), "repo.db"), nil)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(gdb))
	require.NoError(t, db.Seed(context.Background(), gdb))

	u, err := NewUsers(gdb).ByEmail(context.Background(), db.DemoEmail)
	require.NoError(t, err)
	return gdb, auth.WithUserID(context.Background(), u.ID)
}

// otherUser creates a second account and returns a context acting as it.
func otherUser(t *testing.T, gdb *gorm.DB) context.Context {
	t.Helper()
	u := models.User{Email: "otra@facturapp.com", Name: "Otra", Password: "x"}
	require.NoError(t, NewUsers(gdb).Create(context.Background(), &u))
	return auth.WithUserID(context.Background(), u.ID)
}

func invoiceNumbers(invoices []models.Invoice) []string {
	out := make([]string, len(invoices))
	for i, inv := range invoices {
		out[i] = inv.Number
	}
	return out
}

func hourDraft(clientID uint) func(uint) (models.Invoice, error) {
	return func(maxID uint) (models.Invoice, error) {
		return billing.CreateInvoice(billing.InvoiceDraft{
			ClientID:    clientID,
			ClientName:  "Empresa XYZ",
			IssueDate:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			Concept:     "Horas extra",
			SendByEmail: true,
			Items:       []billing.ItemDraft{{Description: "Hora", Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(1500)}},
		}, maxID)
	}
}

func TestInvoices_List(t *testing.T) {
	gdb, ctx := seeded(t)
	repo := NewInvoices(gdb)

	tests := []struct {
		name string
		f    InvoiceFilter
		want []string
	}{
		{"all newest first", InvoiceFilter{}, []string{"C-00004", "C-00003", "C-00002", "C-00001"}},
		{"client", InvoiceFilter{ClientID: 3}, []string{"C-00003"}},
		{"status", InvoiceFilter{Status: models.InvoiceStatusPending}, []string{"C-00002"}},
		{"date range", InvoiceFilter{
			From: time.Date(2025, 2, 16, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2025, 2, 25, 0, 0, 0, 0, time.UTC),
		}, []string{"C-00003", "C-00002"}},
		{"search by client", InvoiceFilter{Search: "norte"}, []string{"C-00003"}},
		{"search by number", InvoiceFilter{Search: "c-00001"}, []string{"C-00001"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.f)
			require.NoError(t, err)
			assert.Equal(t, tt.want, invoiceNumbers(got))
		})
	}
}

func TestInvoices_GetOrdersItems(t *testing.T) {
	gdb, ctx := seeded(t)
	repo := NewInvoices(gdb)

	inv, err := repo.Get(ctx, 1)

	require.NoError(t, err)
	require.Len(t, inv.Items, 2)
	assert.Equal(t, "Consultoría técnica", inv.Items[0].Description)
	assert.Equal(t, "Soporte remoto", inv.Items[1].Description)

	_, err = repo.Get(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestInvoices_CreateSkipsDeletedIDs(t *testing.T) {
	gdb, ctx := seeded(t)
	repo := NewInvoices(gdb)
	require.NoError(t, repo.Delete(ctx, 4))

	var seen uint
	build := hourDraft(1)
	inv, err := repo.Create(ctx, func(maxID uint) (models.Invoice, error) {
		seen = maxID
		return build(maxID)
	})

	require.NoError(t, err)
	assert.Equal(t, uint(4), seen)
	assert.Equal(t, "C-00005", inv.Number)

	stored, err := repo.Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "4500", stored.TotalAmount.String())
	require.Len(t, stored.Items, 1)

	_, err = repo.Get(ctx, 4)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, 4), ErrNotFound)
}

func TestInvoices_CreateBuildErrorRollsBack(t *testing.T) {
	gdb, ctx := seeded(t)
	repo := NewInvoices(gdb)

	_, err := repo.Create(ctx, func(maxID uint) (models.Invoice, error) {
		return billing.CreateInvoice(billing.InvoiceDraft{}, maxID)
	})

	assert.ErrorIs(t, err, billing.ErrValidation)
	all, err := repo.List(ctx, InvoiceFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestInvoices_SaveReplacesItems(t *testing.T) {
	gdb, ctx := seeded(t)
	repo := NewInvoices(gdb)
	inv, err := repo.Get(ctx, 2)
	require.NoError(t, err)

	inv.Concept = "Desarrollo a medida"
	inv.Items = []models.LineItem{{Description: "Sprint", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(9000)}}
	inv = billing.Recompute(inv)
	require.NoError(t, repo.Save(ctx, &inv))

	got, err := repo.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Desarrollo a medida", got.Concept)
	assert.Equal(t, "18000", got.TotalAmount.String())
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Sprint", got.Items[0].Description)

	var items int64
	require.NoError(t, gdb.Model(&models.LineItem{}).Where("invoice_id = ?", 2).Count(&items).Error)
	assert.Equal(t, int64(1), items)
}

func TestInvoices_KeepsFullPrecision(t *testing.T) {
	gdb, ctx := seeded(t)
	repo := NewInvoices(gdb)
	inv, err := repo.Get(ctx, 2)
	require.NoError(t, err)

	inv.Items = []models.LineItem{{Description: "Fracción", Quantity: decimal.RequireFromString("1.5"), UnitPrice: decimal.RequireFromString("0.125")}}
	inv = billing.Recompute(inv)
	require.NoError(t, repo.Save(ctx, &inv))

	got, err := repo.Get(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "0.125", got.Items[0].UnitPrice.String())
	assert.Equal(t, "0.1875", got.TotalAmount.String())
}

func TestClients(t *testing.T) {
	gdb, ctx := seeded(t)
	repo := NewClients(gdb)

	found, err := repo.List(ctx, "SUR")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Consultora Sur", found[0].Name)

	inUse, err := repo.InUse(ctx, 1)
	require.NoError(t, err)
	assert.True(t, inUse, "client 1 has an invoice")

	inUse, err = repo.InUse(ctx, 5)
	require.NoError(t, err)
	assert.True(t, inUse, "client 5 has a schedule")

	c := models.Client{Name: "Nuevo Cliente", CUIT: "20-11111111-2", Email: "nuevo@cliente.com"}
	require.NoError(t, repo.Create(ctx, &c))
	inUse, err = repo.InUse(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, inUse)

	require.NoError(t, repo.Delete(ctx, c.ID))
	_, err = repo.Get(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClients_SearchByCUIT(t *testing.T) {
	gdb, ctx := seeded(t)
	repo := NewClients(gdb)

	tests := []struct {
		term string
		want []string
	}{
		{"30-71234567-9", []string{"Empresa XYZ"}},
		{"30-9", []string{"Comercial ABC", "Estudio Jurídico"}},
		{"99-", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			found, err := repo.List(ctx, tt.term)
			require.NoError(t, err)
			names := make([]string, len(found))
			for i, c := range found {
				names[i] = c.Name
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestOwnership_OtherUserSeesNothing(t *testing.T) {
	gdb, demo := seeded(t)
	other := otherUser(t, gdb)
	invoices := NewInvoices(gdb)
	clients := NewClients(gdb)
	schedules := NewSchedules(gdb)
	notifications := NewNotifications(gdb)

	list, err := invoices.List(other, InvoiceFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
	_, err = invoices.Get(other, 2)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, invoices.Delete(other, 2), ErrNotFound)

	demoInvoice, err := invoices.Get(demo, 2)
	require.NoError(t, err)
	demoInvoice.Concept = "Secuestrada"
	assert.ErrorIs(t, invoices.Save(other, &demoInvoice), ErrNotFound)

	cl, err := clients.List(other, "")
	require.NoError(t, err)
	assert.Empty(t, cl)
	_, err = clients.Get(other, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	sl, err := schedules.List(other)
	require.NoError(t, err)
	assert.Empty(t, sl)

	nl, err := notifications.List(other, 0)
	require.NoError(t, err)
	assert.Empty(t, nl)
	updated, err := notifications.MarkAllRead(other)
	require.NoError(t, err)
	assert.Zero(t, updated)

	untouched, err := invoices.Get(demo, 2)
	require.NoError(t, err)
	assert.Equal(t, "Desarrollo de software", untouched.Concept)
}

func TestOwnership_NumbersAreShared(t *testing.T) {
	gdb, _ := seeded(t)
	other := otherUser(t, gdb)
	c := models.Client{Name: "Cliente Propio", CUIT: "20-22222222-3", Email: "propio@cliente.com"}
	require.NoError(t, NewClients(gdb).Create(other, &c))

	inv, err := NewInvoices(gdb).Create(other, hourDraft(c.ID))

	require.NoError(t, err)
	assert.Equal(t, "C-00005", inv.Number)
	own, err := NewInvoices(gdb).List(other, InvoiceFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"C-00005"}, invoiceNumbers(own))
}

func TestNotifications(t *testing.T) {
	gdb, ctx := seeded(t)
	repo := NewNotifications(gdb)

	latest, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	for _, n := range latest {
		assert.Equal(t, "2025-02-28", n.Date.Format("2006-01-02"))
	}

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	updated, err := repo.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	updated, err = repo.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Zero(t, updated)
}

func TestUsers(t *testing.T) {
	gdb, ctx := seeded(t)
	repo := NewUsers(gdb)

	u, err := repo.ByEmail(ctx, db.DemoEmail)
	require.NoError(t, err)
	require.NotNil(t, u.Fiscal)
	assert.Equal(t, "20-12345678-9", u.Fiscal.CUIT)

	assert.True(t, repo.Exists(ctx, u.ID))
	assert.False(t, repo.Exists(ctx, u.ID+100))

	_, err = repo.ByEmail(ctx, "nobody@facturapp.com")
	assert.ErrorIs(t, err, ErrNotFound)

	plans, err := NewPlans(gdb).List(ctx)
	require.NoError(t, err)
	assert.Len(t, plans, 2)
}
