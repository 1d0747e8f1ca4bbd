// Package report renders invoices as PDF documents and invoice listings as
// spreadsheets.
package report

import (
	"fmt"
	"strconv"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jmuseri/facturapp/internal/billing"
	"github.com/jmuseri/facturapp/internal/models"
)

// Issuer is the taxpayer printed in the invoice header.
type Issuer struct {
	Name       string
	CUIT       string
	Category   string
	Address    string
	PuntoVenta int
}

// IssuerOf builds the header data from a user and its fiscal profile.
func IssuerOf(u models.User) Issuer {
	is := Issuer{Name: u.Name}
	if u.Fiscal != nil {
		is.CUIT = u.Fiscal.CUIT
		is.Category = u.Fiscal.Category
		is.Address = u.Fiscal.FiscalAddress
		is.PuntoVenta = u.Fiscal.PuntoVenta
	}
	return is
}

var (
	small  = props.Text{Size: 9}
	bold   = props.Text{Size: 9, Style: fontstyle.Bold}
	right  = props.Text{Size: 9, Align: align.Right}
	rightB = props.Text{Size: 9, Align: align.Right, Style: fontstyle.Bold}
)

// InvoicePDF renders inv as a "Factura C" document. Totals are recomputed
// from the items and amounts are formatted for lang.
func InvoicePDF(inv models.Invoice, client models.Client, issuer Issuer, lang string) ([]byte, error) {
	inv = billing.Recompute(inv)
	money := func(v decimal.Decimal) string { return billing.FormatAmount(v, lang) }

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
		}).
		Build()
	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(8, "Factura C", props.Text{Size: 20, Style: fontstyle.Bold}),
		text.NewCol(4, inv.Number, props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Right}),
	)
	m.AddRow(28,
		col.New(6).Add(
			text.New(issuer.Name, bold),
			text.New("CUIT: "+issuer.CUIT, props.Text{Size: 9, Top: 5}),
			text.New("Monotributo categoría "+issuer.Category, props.Text{Size: 9, Top: 10}),
			text.New(issuer.Address, props.Text{Size: 9, Top: 15}),
			text.New("Punto de venta: "+fmt.Sprintf("%05d", issuer.PuntoVenta), props.Text{Size: 9, Top: 20}),
		),
		col.New(6).Add(
			text.New("Fecha: "+inv.IssueDate.Format("02/01/2006"), props.Text{Size: 9, Align: align.Right}),
			text.New("Estado: "+string(inv.Status), props.Text{Size: 9, Top: 5, Align: align.Right}),
		),
	)
	m.AddRow(24,
		col.New(12).Add(
			text.New("Cliente", bold),
			text.New(inv.ClientName, props.Text{Size: 9, Top: 5}),
			text.New("CUIT: "+client.CUIT, props.Text{Size: 9, Top: 10}),
			text.New(client.Address, props.Text{Size: 9, Top: 15}),
		),
	)
	m.AddRow(10, text.NewCol(12, "Concepto: "+inv.Concept, small))

	m.AddRow(8,
		text.NewCol(6, "Descripción", bold),
		text.NewCol(2, "Cantidad", rightB),
		text.NewCol(2, "Precio unitario", rightB),
		text.NewCol(2, "Importe", rightB),
	)
	m.AddRow(2, line.NewCol(12))
	for _, it := range inv.Items {
		m.AddRow(7,
			text.NewCol(6, it.Description, small),
			text.NewCol(2, it.Quantity.String(), right),
			text.NewCol(2, money(it.UnitPrice), right),
			text.NewCol(2, money(it.Total), right),
		)
	}
	m.AddRow(2, line.NewCol(12))
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Total", bold),
		text.NewCol(2, money(inv.TotalAmount), rightB),
	)
	m.AddRow(8, text.NewCol(12, "Ítems: "+strconv.Itoa(len(inv.Items)), props.Text{Size: 8}))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate invoice pdf: %w", err)
	}
	return doc.GetBytes(), nil
}
