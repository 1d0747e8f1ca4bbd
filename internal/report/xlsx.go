package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jmuseri/facturapp/internal/billing"
	"github.com/jmuseri/facturapp/internal/models"
)

// InvoiceSheet is the sheet name of the invoice export.
const InvoiceSheet = "Facturas"

var invoiceHeadings = map[string][]any{
	"es": {"Número", "Fecha", "Cliente", "Concepto", "Estado", "Total"},
	"en": {"Number", "Date", "Client", "Concept", "Status", "Total"},
}

// WriteInvoicesXLSX writes invoices as one row each, below a heading row.
// Totals are recomputed from the items and rounded for display.
func WriteInvoicesXLSX(w io.Writer, invoices []models.Invoice, lang string) error {
	headings, ok := invoiceHeadings[lang]
	if !ok {
		headings = invoiceHeadings["es"]
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", InvoiceSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(InvoiceSheet, "A1", &headings); err != nil {
		return err
	}
	for i, inv := range invoices {
		inv = billing.Recompute(inv)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			inv.Number,
			inv.IssueDate.Format("2006-01-02"),
			inv.ClientName,
			inv.Concept,
			string(inv.Status),
			billing.Round(inv.TotalAmount).InexactFloat64(),
		}
		if err := f.SetSheetRow(InvoiceSheet, cell, &row); err != nil {
			return fmt.Errorf("invoice %s: %w", inv.Number, err)
		}
	}
	if err := f.SetColWidth(InvoiceSheet, "A", "F", 18); err != nil {
		return err
	}
	_, err := f.WriteTo(w)
	return err
}
