package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jmuseri/facturapp/internal/models"
)

func sampleInvoice() models.Invoice {
	return models.Invoice{
		ID:         1,
		Number:     "C-00001",
		ClientID:   1,
		ClientName: "Empresa XYZ",
		IssueDate:  time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC),
		Concept:    "Servicios de consultoría",
		Status:     models.InvoiceStatusSent,
		Items: []models.LineItem{
			{Description: "Consultoría técnica", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(2000)},
			{Description: "Soporte remoto", Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(1000)},
		},
	}
}

func TestInvoicePDF(t *testing.T) {
	u := models.User{Name: "Juan Pérez", Fiscal: &models.FiscalProfile{CUIT: "20-12345678-9", Category: "B", PuntoVenta: 1}}

	doc, err := InvoicePDF(sampleInvoice(), models.Client{CUIT: "30-71234567-9"}, IssuerOf(u), "es")

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestIssuerOf_NoFiscalProfile(t *testing.T) {
	assert.Equal(t, Issuer{Name: "Ana"}, IssuerOf(models.User{Name: "Ana"}))
}

func TestWriteInvoicesXLSX(t *testing.T) {
	var buf bytes.Buffer
	pending := sampleInvoice()
	pending.ID, pending.Number, pending.Status = 2, "C-00002", models.InvoiceStatusPending

	require.NoError(t, WriteInvoicesXLSX(&buf, []models.Invoice{sampleInvoice(), pending}, "en"))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(InvoiceSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Number", "Date", "Client", "Concept", "Status", "Total"}, rows[0])
	assert.Equal(t, "C-00001", rows[1][0])
	assert.Equal(t, "2025-02-15", rows[1][1])
	assert.Equal(t, "25000", rows[1][5])
	assert.Equal(t, "PENDING", rows[2][4])
}
