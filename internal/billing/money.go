// Package billing holds the invoice computation and recurring schedule rules.
// Every function is pure: inputs are never mutated and results are new values.
package billing

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jmuseri/facturapp/internal/models"
	"github.com/jmuseri/facturapp/validation"
)

// DisplayPlaces is the number of fraction digits shown for amounts.
const DisplayPlaces = 2

// LineTotal returns quantity × unitPrice at full precision.
func LineTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice)
}

// InvoiceTotal sums the line totals of items, recomputed from their inputs.
func InvoiceTotal(items []models.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(LineTotal(it.Quantity, it.UnitPrice))
	}
	return total
}

// ComputeItems returns a copy of items with Total and Position derived, plus
// the grand total.
func ComputeItems(items []models.LineItem) ([]models.LineItem, decimal.Decimal) {
	out := make([]models.LineItem, len(items))
	total := decimal.Zero
	for i, it := range items {
		it.Position = i
		it.Total = LineTotal(it.Quantity, it.UnitPrice)
		total = total.Add(it.Total)
		out[i] = it
	}
	return out, total
}

// Recompute re-derives the item totals and the total amount of inv.
func Recompute(inv models.Invoice) models.Invoice {
	inv.Items, inv.TotalAmount = ComputeItems(inv.Items)
	return inv
}

// CoerceAmount converts user-entered text for live previews: empty or
// malformed input counts as zero.
func CoerceAmount(text string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// RawItem is a line as typed by the user, before submission.
type RawItem struct {
	Quantity  string `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

// Preview computes line totals and the grand total of unsubmitted lines,
// coercing unreadable numbers to zero.
func Preview(items []RawItem) ([]decimal.Decimal, decimal.Decimal) {
	totals := make([]decimal.Decimal, len(items))
	total := decimal.Zero
	for i, it := range items {
		totals[i] = LineTotal(CoerceAmount(it.Quantity), CoerceAmount(it.UnitPrice))
		total = total.Add(totals[i])
	}
	return totals, total
}

// ParseAmount converts submitted text, recording a violation for field when
// the text is empty or not a number.
func ParseAmount(field, text string, v validation.Violations) decimal.Decimal {
	return validation.Decimal(field, text, v)
}

// Round rounds d to DisplayPlaces for presentation.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(DisplayPlaces)
}

type displayLocale struct {
	tag     language.Tag
	decimal string
}

var displayLocales = map[string]displayLocale{
	"es": {language.MustParse("es-AR"), ","},
	"en": {language.AmericanEnglish, "."},
}

// FormatAmount renders d as a peso amount in the conventions of lang. The
// digits come from the decimal itself, so large amounts keep every cent.
func FormatAmount(d decimal.Decimal, lang string) string {
	loc, ok := displayLocales[lang]
	if !ok {
		loc = displayLocales["es"]
	}
	fixed := Round(d).Abs().StringFixed(DisplayPlaces)
	whole, frac, _ := strings.Cut(fixed, ".")

	var grouped string
	if n, err := strconv.ParseUint(whole, 10, 64); err == nil {
		grouped = message.NewPrinter(loc.tag).Sprint(number.Decimal(n))
	} else {
		grouped = whole
	}
	sign := ""
	if Round(d).IsNegative() {
		sign = "-"
	}
	return "$ " + sign + grouped + loc.decimal + frac
}
