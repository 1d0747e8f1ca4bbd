package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/jmuseri/facturapp/internal/billing"
	"github.com/jmuseri/facturapp/internal/models"
)

// Demo account created by Seed.
const (
	DemoEmail    = "demo@facturapp.com"
	DemoPassword = "password"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

type seedItem struct {
	desc     string
	qty, pri int64
}

type seedInvoice struct {
	id      uint
	client  string
	date    string
	concept string
	status  models.InvoiceStatus
	items   []seedItem
}

var seedClients = []models.Client{
	{Name: "Empresa XYZ", CUIT: "30-71234567-9", Email: "contacto@xyz.com", Phone: "11-1234-5678", Address: "Av Libertador 123"},
	{Name: "Comercial ABC", CUIT: "30-98765432-1", Email: "ventas@abc.com", Phone: "11-9876-5432", Address: "Callao 456"},
	{Name: "Distribuidora Norte", CUIT: "30-45678912-3", Email: "info@norte.com.ar", Phone: "351-789-4561", Address: "Córdoba 789"},
	{Name: "Consultora Sur", CUIT: "30-36985214-7", Email: "admin@sur.com.ar", Phone: "341-852-9637", Address: "Balcarce 234"},
	{Name: "Estudio Jurídico", CUIT: "30-95175369-8", Email: "juridico@estudio.com", Phone: "11-4567-8901", Address: "Lavalle 567"},
}

var seedInvoices = []seedInvoice{
	{1, "30-71234567-9", "2025-02-15", "Servicios de consultoría", models.InvoiceStatusSent,
		[]seedItem{{"Consultoría técnica", 10, 2000}, {"Soporte remoto", 5, 1000}}},
	{2, "30-98765432-1", "2025-02-20", "Desarrollo de software", models.InvoiceStatusPending,
		[]seedItem{{"Desarrollo frontend", 1, 10000}, {"Configuración servidor", 1, 8500}}},
	{3, "30-45678912-3", "2025-02-25", "Asesoría logística", models.InvoiceStatusSent,
		[]seedItem{{"Análisis de rutas", 1, 15000}, {"Optimización de procesos", 1, 17200}}},
	{4, "30-36985214-7", "2025-02-28", "Servicios de marketing", models.InvoiceStatusSent,
		[]seedItem{{"Campaña digital", 1, 30000}, {"Diseño gráfico", 3, 5000}}},
}

// Seed loads the demo account, clients, invoices, schedules, notifications
// and plans. Records that already exist are left alone, so it can run on
// every start. Everything but the plans belongs to the demo account.
func Seed(ctx context.Context, gdb *gorm.DB) error {
	return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owner, err := seedUser(tx)
		if err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
		steps := []struct {
			name string
			fn   func(*gorm.DB, uint) error
		}{
			{"clients", seedClientList},
			{"invoices", seedInvoiceList},
			{"schedules", seedSchedules},
			{"notifications", seedNotifications},
			{"plans", seedPlans},
		}
		for _, s := range steps {
			if err := s.fn(tx, owner); err != nil {
				return fmt.Errorf("seed %s: %w", s.name, err)
			}
		}
		return nil
	})
}

// firstOrCreate inserts rec unless a row matching query exists.
func firstOrCreate[T any](tx *gorm.DB, rec *T, query string, args ...any) error {
	var existing T
	err := tx.Where(query, args...).First(&existing).Error
	if err == nil {
		*rec = existing
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return tx.Create(rec).Error
}

func seedUser(tx *gorm.DB) (uint, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}
	u := models.User{
		Email:    DemoEmail,
		Name:     "Juan Pérez",
		Password: string(hash),
		Fiscal: &models.FiscalProfile{
			CUIT:          "20-12345678-9",
			Category:      "B",
			FiscalAddress: "Av. Corrientes 1234, CABA",
			PuntoVenta:    1,
			AnnualLimit:   dec(1200000),
		},
	}
	if err := firstOrCreate(tx, &u, "email = ?", DemoEmail); err != nil {
		return 0, err
	}
	return u.ID, nil
}

func seedClientList(tx *gorm.DB, owner uint) error {
	for _, c := range seedClients {
		c.UserID = owner
		if err := firstOrCreate(tx, &c, "user_id = ? AND cuit = ?", owner, c.CUIT); err != nil {
			return err
		}
	}
	return nil
}

func clientByCUIT(tx *gorm.DB, owner uint, cuit string) (models.Client, error) {
	var c models.Client
	return c, tx.Where("user_id = ? AND cuit = ?", owner, cuit).First(&c).Error
}

func seedInvoiceList(tx *gorm.DB, owner uint) error {
	for _, si := range seedInvoices {
		var n int64
		if err := tx.Unscoped().Model(&models.Invoice{}).Where("id = ?", si.id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		c, err := clientByCUIT(tx, owner, si.client)
		if err != nil {
			return err
		}
		items := make([]models.LineItem, len(si.items))
		for i, it := range si.items {
			items[i] = models.LineItem{Description: it.desc, Quantity: dec(it.qty), UnitPrice: dec(it.pri)}
		}
		items, total := billing.ComputeItems(items)
		inv := models.Invoice{
			ID:          si.id,
			UserID:      owner,
			Number:      billing.FormatNumber(si.id),
			ClientID:    c.ID,
			ClientName:  c.Name,
			IssueDate:   date(si.date),
			Concept:     si.concept,
			TotalAmount: total,
			Status:      si.status,
			SendByEmail: true,
			Items:       items,
		}
		if si.status == models.InvoiceStatusSent {
			sentAt := inv.IssueDate
			inv.SentAt = &sentAt
		}
		if err := tx.Create(&inv).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedSchedules(tx *gorm.DB, owner uint) error {
	schedules := []struct {
		client      string
		description string
		concept     string
		amount      int64
		next        string
		whatsapp    bool
	}{
		{"30-95175369-8", "Servicio Mensual", "Mantenimiento de sistemas", 30000, "2025-03-05", false},
		{"30-36985214-7", "Asesoría Técnica", "Soporte técnico continuo", 45000, "2025-03-10", true},
	}
	for _, s := range schedules {
		c, err := clientByCUIT(tx, owner, s.client)
		if err != nil {
			return err
		}
		rec := models.RecurringSchedule{
			UserID:         owner,
			Description:    s.description,
			ClientID:       c.ID,
			ClientName:     c.Name,
			Concept:        s.concept,
			Amount:         dec(s.amount),
			Frequency:      models.FrequencyMonthly,
			StartDate:      date(s.next),
			NextDate:       date(s.next),
			Active:         true,
			SendByEmail:    true,
			SendByWhatsapp: s.whatsapp,
		}
		if err := firstOrCreate(tx, &rec, "description = ? AND client_id = ?", s.description, c.ID); err != nil {
			return err
		}
	}
	return nil
}

func seedNotifications(tx *gorm.DB, owner uint) error {
	notifications := []models.Notification{
		{Title: "Vencimiento Próximo", Message: "Tu pago mensual de monotributo vence en 2 días.", Type: models.NotificationWarning, Date: date("2025-02-28")},
		{Title: "Factura Enviada", Message: "La factura C-00004 fue enviada exitosamente a Consultora Sur.", Type: models.NotificationInfo, Date: date("2025-02-28")},
		{Title: "Factura Programada", Message: "Se ha programado una factura recurrente para Estudio Jurídico.", Type: models.NotificationInfo, Date: date("2025-02-25"), Read: true},
		{Title: "Factura Enviada", Message: "La factura C-00003 fue enviada exitosamente a Distribuidora Norte.", Type: models.NotificationInfo, Date: date("2025-02-25"), Read: true},
	}
	for _, n := range notifications {
		n.UserID = owner
		if err := firstOrCreate(tx, &n, "user_id = ? AND title = ? AND message = ?", owner, n.Title, n.Message); err != nil {
			return err
		}
	}
	return nil
}

func seedPlans(tx *gorm.DB, _ uint) error {
	plans := []models.Plan{
		{
			Name: "Free", Description: "Plan gratuito con acceso limitado",
			MonthlyPrice: dec(0), AnnualPrice: dec(0), InvoicesPerMonth: 3,
			Features: strings.Join([]string{"Hasta 3 facturas por mes", "Acceso a funcionalidades básicas", "Soporte por email"}, "\n"),
		},
		{
			Name: "Premium", Description: "Plan completo con todas las funcionalidades",
			MonthlyPrice: dec(1500), AnnualPrice: dec(15000), InvoicesPerMonth: 999999,
			Features: strings.Join([]string{"Facturas ilimitadas", "Facturación recurrente", "Soporte prioritario", "Todas las funcionalidades"}, "\n"),
		},
	}
	for _, p := range plans {
		if err := firstOrCreate(tx, &p, "name = ?", p.Name); err != nil {
			return err
		}
	}
	return nil
}
