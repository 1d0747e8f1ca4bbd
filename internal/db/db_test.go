package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/jmuseri/facturapp/internal/config"
	"github.com/jmuseri/facturapp/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	return gdb
}

func TestMigrate_SQLiteUsesAutoMigrate(t *testing.T) {
	gdb := openTestDB(t)
	cfg := &config.Config{
		Database: config.DatabaseConfig{Driver: "sqlite"},
		App:      config.AppConfig{Migrations: true},
	}

	require.NoError(t, Migrate(gdb, cfg))

	for _, table := range []string{"users", "fiscal_profiles", "clients", "invoices", "line_items", "recurring_schedules", "notifications", "plans"} {
		assert.True(t, gdb.Migrator().HasTable(table), table)
	}
}

func count[T any](t *testing.T, gdb *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Model(new(T)).Count(&n).Error)
	return n
}

func TestSeed_Idempotent(t *testing.T) {
	gdb := openTestDB(t)
	require.NoError(t, AutoMigrate(gdb))
	ctx := context.Background()

	require.NoError(t, Seed(ctx, gdb))
	require.NoError(t, Seed(ctx, gdb))

	assert.Equal(t, int64(1), count[models.User](t, gdb))
	assert.Equal(t, int64(1), count[models.FiscalProfile](t, gdb))
	assert.Equal(t, int64(5), count[models.Client](t, gdb))
	assert.Equal(t, int64(4), count[models.Invoice](t, gdb))
	assert.Equal(t, int64(8), count[models.LineItem](t, gdb))
	assert.Equal(t, int64(2), count[models.RecurringSchedule](t, gdb))
	assert.Equal(t, int64(4), count[models.Notification](t, gdb))
	assert.Equal(t, int64(2), count[models.Plan](t, gdb))
}

func TestSeed_Data(t *testing.T) {
	gdb := openTestDB(t)
	require.NoError(t, AutoMigrate(gdb))
	require.NoError(t, Seed(context.Background(), gdb))

	var u models.User
	require.NoError(t, gdb.Preload("Fiscal").Where("email = ?", DemoEmail).First(&u).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(DemoPassword)))
	require.NotNil(t, u.Fiscal)
	assert.Equal(t, "B", u.Fiscal.Category)

	var inv models.Invoice
	require.NoError(t, gdb.Preload("Items").Where("number = ?", "C-00001").First(&inv).Error)
	assert.Equal(t, uint(1), inv.ID)
	assert.Equal(t, "Empresa XYZ", inv.ClientName)
	assert.Equal(t, models.InvoiceStatusSent, inv.Status)
	assert.Equal(t, "25000", inv.TotalAmount.String())
	assert.Len(t, inv.Items, 2)

	var pending int64
	require.NoError(t, gdb.Model(&models.Invoice{}).Where("status = ?", models.InvoiceStatusPending).Count(&pending).Error)
	assert.Equal(t, int64(1), pending)

	for _, m := range []any{&models.Client{}, &models.Invoice{}, &models.RecurringSchedule{}, &models.Notification{}} {
		var foreign int64
		require.NoError(t, gdb.Model(m).Where("user_id <> ?", u.ID).Count(&foreign).Error)
		assert.Zero(t, foreign, "%T rows must belong to the demo user", m)
	}

	var c models.Client
	require.NoError(t, gdb.Where("cuit = ?", "30-71234567-9").First(&c).Error)
	assert.Equal(t, "Empresa XYZ", c.Name)
}
