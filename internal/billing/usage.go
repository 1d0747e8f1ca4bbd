package billing

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/jmuseri/facturapp/internal/models"
)

// UsageSummary compares what was billed in a year with the annual limit.
type UsageSummary struct {
	Year        int             `json:"year"`
	Billed      decimal.Decimal `json:"billed"`
	AnnualLimit decimal.Decimal `json:"annual_limit"`
	Remaining   decimal.Decimal `json:"remaining"`
	Percent     int64           `json:"percent"`
}

// Usage sums the totals of invoices issued in year. Percent is rounded to
// the nearest integer and is 0 when no limit is set. Remaining never goes
// below zero.
func Usage(invoices []models.Invoice, annualLimit decimal.Decimal, year int) UsageSummary {
	billed := decimal.Zero
	for _, inv := range invoices {
		if inv.IssueDate.Year() == year {
			billed = billed.Add(InvoiceTotal(inv.Items))
		}
	}
	u := UsageSummary{
		Year:        year,
		Billed:      billed,
		AnnualLimit: annualLimit,
		Remaining:   decimal.Max(annualLimit.Sub(billed), decimal.Zero),
	}
	if annualLimit.IsPositive() {
		u.Percent = billed.Mul(decimal.NewFromInt(100)).Div(annualLimit).Round(0).IntPart()
	}
	return u
}

// RecentInvoices returns up to limit invoices, newest issue date first.
// Invoices issued on the same day are ordered by descending id.
func RecentInvoices(invoices []models.Invoice, limit int) []models.Invoice {
	if limit <= 0 {
		return nil
	}
	out := slices.Clone(invoices)
	slices.SortStableFunc(out, func(a, b models.Invoice) int {
		if c := b.IssueDate.Compare(a.IssueDate); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
