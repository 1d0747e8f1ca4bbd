package billing

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmuseri/facturapp/internal/models"
	"github.com/jmuseri/facturapp/validation"
)

func validDraft() InvoiceDraft {
	return InvoiceDraft{
		ClientID:    1,
		ClientName:  "Empresa ABC S.A.",
		IssueDate:   time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		Concept:     "Servicios de consultoría",
		SendByEmail: true,
		Items: []ItemDraft{
			{Description: "Consultoría", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(2000)},
			{Description: "Soporte", Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(1000)},
		},
	}
}

func violationsOf(t *testing.T, err error) validation.Violations {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, ErrValidation)
	return verr.Violations
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "C-00001", FormatNumber(1))
	assert.Equal(t, "C-00042", FormatNumber(42))
	assert.Equal(t, "C-99999", FormatNumber(99999))
	assert.Equal(t, "C-123456", FormatNumber(123456))
}

func TestNextID(t *testing.T) {
	assert.Equal(t, uint(1), NextID(nil))
	assert.Equal(t, uint(8), NextID([]uint{3, 7, 1}))
}

func TestCreateInvoice(t *testing.T) {
	inv, err := CreateInvoice(validDraft(), 4)

	require.NoError(t, err)
	assert.Equal(t, uint(5), inv.ID)
	assert.Equal(t, "C-00005", inv.Number)
	assert.Equal(t, models.InvoiceStatusPending, inv.Status)
	assert.Equal(t, "Empresa ABC S.A.", inv.ClientName)
	assert.Nil(t, inv.SentAt)
	require.Len(t, inv.Items, 2)
	assert.True(t, inv.Items[0].Total.Equal(decimal.NewFromInt(20000)))
	assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(25000)))
}

func TestCreateInvoice_SequentialNumbers(t *testing.T) {
	var ids []uint
	var numbers []string
	for range 3 {
		inv, err := CreateInvoice(validDraft(), NextID(ids)-1)
		require.NoError(t, err)
		ids = append(ids, inv.ID)
		numbers = append(numbers, inv.Number)
	}

	assert.Equal(t, []string{"C-00001", "C-00002", "C-00003"}, numbers)
}

func TestCreateInvoice_SingleItemSucceeds(t *testing.T) {
	d := validDraft()
	d.Items = d.Items[:1]

	inv, err := CreateInvoice(d, 0)

	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPending, inv.Status)
}

func TestCreateInvoice_ZeroItems(t *testing.T) {
	d := validDraft()
	d.Items = nil

	_, err := CreateInvoice(d, 0)

	assert.Equal(t, validation.Violations{"items": validation.CodeMinItems}, violationsOf(t, err))
}

func TestCreateInvoice_NoDeliveryChannel(t *testing.T) {
	d := validDraft()
	d.SendByEmail = false
	d.SendByWhatsapp = false

	_, err := CreateInvoice(d, 0)

	assert.Equal(t, validation.Violations{"send_by": validation.CodeDeliveryFlags}, violationsOf(t, err))
}

func TestCreateInvoice_WhatsappOnly(t *testing.T) {
	d := validDraft()
	d.SendByEmail = false
	d.SendByWhatsapp = true

	_, err := CreateInvoice(d, 0)

	assert.NoError(t, err)
}

func TestCreateInvoice_CollectsEveryViolation(t *testing.T) {
	d := InvoiceDraft{
		Concept: "  ",
		Items: []ItemDraft{
			{Description: "", Quantity: decimal.Zero, UnitPrice: decimal.NewFromInt(-1)},
			{Description: "ok", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.Zero},
		},
	}

	_, err := CreateInvoice(d, 0)

	assert.Equal(t, validation.Violations{
		"client_id":           validation.CodeRequired,
		"date":                validation.CodeRequired,
		"concept":             validation.CodeRequired,
		"items.0.description": validation.CodeRequired,
		"items.0.quantity":    validation.CodeMustBePositive,
		"items.0.unit_price":  validation.CodeNegative,
		"send_by":             validation.CodeDeliveryFlags,
	}, violationsOf(t, err))
}

func TestSendInvoice(t *testing.T) {
	inv, err := CreateInvoice(validDraft(), 0)
	require.NoError(t, err)
	at := time.Date(2025, 3, 16, 10, 0, 0, 0, time.UTC)

	sent, err := SendInvoice(inv, at)

	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusSent, sent.Status)
	require.NotNil(t, sent.SentAt)
	assert.Equal(t, at, *sent.SentAt)
	assert.Equal(t, models.InvoiceStatusPending, inv.Status, "original must be untouched")

	_, err = SendInvoice(sent, at)

	var serr *InvalidStateError
	require.ErrorAs(t, err, &serr)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, "send", serr.Op)
	assert.Equal(t, string(models.InvoiceStatusSent), serr.State)
}

func TestUpdateInvoice(t *testing.T) {
	inv, err := CreateInvoice(validDraft(), 6)
	require.NoError(t, err)

	d := validDraft()
	d.Concept = "Nuevo concepto"
	d.Items = []ItemDraft{{Description: "Único", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(150)}}

	got, err := UpdateInvoice(inv, d)

	require.NoError(t, err)
	assert.Equal(t, inv.ID, got.ID)
	assert.Equal(t, "C-00007", got.Number)
	assert.Equal(t, "Nuevo concepto", got.Concept)
	assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(300)))
}

func TestUpdateInvoice_Sent(t *testing.T) {
	inv, _ := CreateInvoice(validDraft(), 0)
	sent, _ := SendInvoice(inv, time.Now())

	_, err := UpdateInvoice(sent, validDraft())

	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestUpdateInvoice_Invalid(t *testing.T) {
	inv, _ := CreateInvoice(validDraft(), 0)
	d := validDraft()
	d.Items = nil

	got, err := UpdateInvoice(inv, d)

	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, inv.TotalAmount, got.TotalAmount)
}

func TestCheckDeletable(t *testing.T) {
	inv, _ := CreateInvoice(validDraft(), 0)
	assert.NoError(t, CheckDeletable(inv))

	sent, _ := SendInvoice(inv, time.Now())
	assert.True(t, errors.Is(CheckDeletable(sent), ErrInvalidState))
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Violations: validation.Violations{"b": "required", "a": "invalid"}}

	assert.Equal(t, "validation failed: a=invalid, b=required", err.Error())
	assert.Equal(t, "validation_failed", err.Code())
}

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("ART", -3*60*60)
	in := time.Date(2025, 3, 15, 22, 30, 0, 0, loc)

	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), DateOf(in))
	assert.True(t, DateOf(time.Time{}).IsZero())
}
