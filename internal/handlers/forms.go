// Package handlers exposes the services as a JSON HTTP API.
package handlers

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/jmuseri/facturapp/internal/billing"
	"github.com/jmuseri/facturapp/validation"
)

// amountText is a number submitted either as a JSON number or as a string.
// It is kept as text so that submit-time parsing can report a field error.
type amountText string

func (a *amountText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = amountText(s)
		return nil
	}
	*a = amountText(b)
	return nil
}

type itemRequest struct {
	Description string     `json:"description"`
	Quantity    amountText `json:"quantity"`
	UnitPrice   amountText `json:"unit_price"`
}

type invoiceRequest struct {
	ClientID       uint          `json:"client_id"`
	Date           string        `json:"date"`
	Concept        string        `json:"concept"`
	Items          []itemRequest `json:"items"`
	SendByEmail    bool          `json:"send_by_email"`
	SendByWhatsapp bool          `json:"send_by_whatsapp"`
}

// draft converts the request, recording a violation for every number or
// date that cannot be read.
func (in invoiceRequest) draft() (billing.InvoiceDraft, validation.Violations) {
	v := make(validation.Violations)
	d := billing.InvoiceDraft{
		ClientID:       in.ClientID,
		Concept:        in.Concept,
		SendByEmail:    in.SendByEmail,
		SendByWhatsapp: in.SendByWhatsapp,
	}
	if strings.TrimSpace(in.Date) != "" {
		d.IssueDate = validation.Date("date", in.Date, v)
	}
	for i, it := range in.Items {
		prefix := "items." + strconv.Itoa(i) + "."
		d.Items = append(d.Items, billing.ItemDraft{
			Description: it.Description,
			Quantity:    billing.ParseAmount(prefix+"quantity", string(it.Quantity), v),
			UnitPrice:   billing.ParseAmount(prefix+"unit_price", string(it.UnitPrice), v),
		})
	}
	return d, v
}

type scheduleRequest struct {
	Description    string     `json:"description"`
	ClientID       uint       `json:"client_id"`
	Concept        string     `json:"concept"`
	Amount         amountText `json:"amount"`
	Frequency      string     `json:"frequency"`
	StartDate      string     `json:"start_date"`
	SendByEmail    bool       `json:"send_by_email"`
	SendByWhatsapp bool       `json:"send_by_whatsapp"`
}

func (in scheduleRequest) draft() (billing.ScheduleDraft, validation.Violations) {
	v := make(validation.Violations)
	return billing.ScheduleDraft{
		Description:    in.Description,
		ClientID:       in.ClientID,
		Concept:        in.Concept,
		Amount:         billing.ParseAmount("amount", string(in.Amount), v),
		Frequency:      in.Frequency,
		StartDate:      in.StartDate,
		SendByEmail:    in.SendByEmail,
		SendByWhatsapp: in.SendByWhatsapp,
	}, v
}

// parseFailure merges the violations found while reading a request with
// those of the decoded draft, so that one response lists every field.
func parseFailure(parsed, rest validation.Violations) error {
	if parsed.Empty() {
		return nil
	}
	parsed.Merge(rest)
	return &billing.ValidationError{Violations: parsed}
}

type previewRequest struct {
	Items []struct {
		Quantity  amountText `json:"quantity"`
		UnitPrice amountText `json:"unit_price"`
	} `json:"items"`
}

func (in previewRequest) raw() []billing.RawItem {
	out := make([]billing.RawItem, len(in.Items))
	for i, it := range in.Items {
		out[i] = billing.RawItem{Quantity: string(it.Quantity), UnitPrice: string(it.UnitPrice)}
	}
	return out
}
