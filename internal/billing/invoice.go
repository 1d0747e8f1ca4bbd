package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jmuseri/facturapp/internal/models"
	"github.com/jmuseri/facturapp/validation"
)

// Invoice numbers are NumberPrefix followed by the id padded to NumberWidth digits.
const (
	NumberPrefix = "C-"
	NumberWidth  = 5
)

// FormatNumber returns the display number for an invoice id.
func FormatNumber(id uint) string {
	return fmt.Sprintf("%s%0*d", NumberPrefix, NumberWidth, id)
}

// NextID returns the highest of ids plus one, or 1 when ids is empty.
func NextID(ids []uint) uint {
	var maxID uint
	for _, id := range ids {
		maxID = max(maxID, id)
	}
	return maxID + 1
}

// ItemDraft is a submitted invoice line.
type ItemDraft struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// InvoiceDraft is a submitted invoice. ClientName is resolved by the caller
// from ClientID and stored as a snapshot.
type InvoiceDraft struct {
	ClientID       uint
	ClientName     string
	IssueDate      time.Time
	Concept        string
	Items          []ItemDraft
	SendByEmail    bool
	SendByWhatsapp bool
}

// Validate returns every violation of d. Item fields are keyed
// items.<index>.<field>.
func (d InvoiceDraft) Validate() validation.Violations {
	v := make(validation.Violations)
	if d.ClientID == 0 {
		v.Add("client_id", validation.CodeRequired)
	}
	if d.IssueDate.IsZero() {
		v.Add("date", validation.CodeRequired)
	}
	validation.Required("concept", d.Concept, v)
	if len(d.Items) == 0 {
		v.Add("items", validation.CodeMinItems)
	}
	for i, it := range d.Items {
		prefix := fmt.Sprintf("items.%d.", i)
		validation.Required(prefix+"description", it.Description, v)
		validation.Positive(prefix+"quantity", it.Quantity, v)
		validation.NonNegative(prefix+"unit_price", it.UnitPrice, v)
	}
	if !d.SendByEmail && !d.SendByWhatsapp {
		v.Add("send_by", validation.CodeDeliveryFlags)
	}
	return v
}

func (d InvoiceDraft) lineItems() []models.LineItem {
	items := make([]models.LineItem, len(d.Items))
	for i, it := range d.Items {
		items[i] = models.LineItem{
			Description: strings.TrimSpace(it.Description),
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		}
	}
	items, _ = ComputeItems(items)
	return items
}

// CreateInvoice builds a PENDING invoice from d with id maxID+1.
func CreateInvoice(d InvoiceDraft, maxID uint) (models.Invoice, error) {
	if err := invalid(d.Validate()); err != nil {
		return models.Invoice{}, err
	}
	id := maxID + 1
	inv := models.Invoice{
		ID:             id,
		Number:         FormatNumber(id),
		ClientID:       d.ClientID,
		ClientName:     d.ClientName,
		IssueDate:      DateOf(d.IssueDate),
		Concept:        strings.TrimSpace(d.Concept),
		Status:         models.InvoiceStatusPending,
		SendByEmail:    d.SendByEmail,
		SendByWhatsapp: d.SendByWhatsapp,
		Items:          d.lineItems(),
	}
	inv.TotalAmount = InvoiceTotal(inv.Items)
	return inv, nil
}

// UpdateInvoice replaces the editable fields of a PENDING invoice with d.
// Identity, number and status are kept.
func UpdateInvoice(inv models.Invoice, d InvoiceDraft) (models.Invoice, error) {
	if !inv.IsPending() {
		return inv, &InvalidStateError{Entity: "invoice", ID: inv.ID, State: string(inv.Status), Op: "update"}
	}
	if err := invalid(d.Validate()); err != nil {
		return inv, err
	}
	inv.ClientID = d.ClientID
	inv.ClientName = d.ClientName
	inv.IssueDate = DateOf(d.IssueDate)
	inv.Concept = strings.TrimSpace(d.Concept)
	inv.SendByEmail = d.SendByEmail
	inv.SendByWhatsapp = d.SendByWhatsapp
	inv.Items = d.lineItems()
	inv.TotalAmount = InvoiceTotal(inv.Items)
	return inv, nil
}

// SendInvoice moves a PENDING invoice to SENT. Sending twice is an error.
func SendInvoice(inv models.Invoice, at time.Time) (models.Invoice, error) {
	if !inv.IsPending() {
		return inv, &InvalidStateError{Entity: "invoice", ID: inv.ID, State: string(inv.Status), Op: "send"}
	}
	inv.Status = models.InvoiceStatusSent
	sentAt := at
	inv.SentAt = &sentAt
	inv.Items = append([]models.LineItem(nil), inv.Items...)
	return inv, nil
}

// CheckDeletable refuses to delete invoices that were already sent.
func CheckDeletable(inv models.Invoice) error {
	if !inv.IsPending() {
		return &InvalidStateError{Entity: "invoice", ID: inv.ID, State: string(inv.Status), Op: "delete"}
	}
	return nil
}

// DateOf truncates t to its calendar date at UTC midnight.
func DateOf(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
