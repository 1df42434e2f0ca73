// Package pdf dibuja los documentos de la tienda con Maroto v2.
//
// Factura de venta (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tienda + contacto    │  N° Factura + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + contacto (o "Client de passage")          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Qté | Article | P.U. | Remise | Sous-total           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Total / Payé / Reste à payer                        │
//	└─────────────────────────────────────────────────────────────┘
//
// El albarán de recepción usa la misma cabecera y una tabla de una sola línea.
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/boutique-ledger/internal/application/documents"
	"github.com/jhoicas/boutique-ledger/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 128, Green: 0, Blue: 64}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa documents.Generator usando Maroto v2.
type MarotoPDFGenerator struct {
	printer *message.Printer
}

// NewMarotoPDFGenerator construye el generador con formato numérico fr-FR.
func NewMarotoPDFGenerator() *MarotoPDFGenerator {
	return &MarotoPDFGenerator{printer: message.NewPrinter(language.French)}
}

var _ documents.Generator = (*MarotoPDFGenerator)(nil)

// InvoicePDF genera la factura de una venta y devuelve sus bytes.
func (g *MarotoPDFGenerator) InvoicePDF(_ context.Context, inv *documents.Invoice) ([]byte, error) {
	m := newDocument("Facture "+inv.Sale.InvoiceNumber, inv.Shop.Name)

	m.AddRows(headerRow(inv.Shop, "FACTURE", inv.Sale.InvoiceNumber, inv.Sale.CreatedAt.Format("02/01/2006")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clientRow(inv.Client))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow("Qté", "Article", "P.U.", "Remise", "Sous-total"))
	for _, l := range inv.Lines {
		m.AddRows(tableRow(
			g.printer.Sprintf("%d", l.Quantity),
			l.ProductName,
			g.money(l.UnitPrice),
			g.money(l.UnitDiscount),
			g.money(l.Subtotal),
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	totals := [][2]string{{"Total :", g.money(inv.Sale.Total)}}
	if inv.Sale.Discount.IsPositive() {
		totals = append([][2]string{{"Remise globale :", g.money(inv.Sale.Discount)}}, totals...)
	}
	totals = append(totals, [2]string{"Payé :", g.money(inv.Sale.PaidAmount)})
	if inv.Sale.IsDebt() {
		totals = append(totals, [2]string{"Reste à payer :", g.money(inv.Sale.Outstanding())})
	}
	m.AddRows(totalsRow(totals))
	m.AddRows(footerRow("Merci de votre visite."))

	return generate(m)
}

// ReceiptNotePDF genera el albarán de una recepción de mercancía.
func (g *MarotoPDFGenerator) ReceiptNotePDF(_ context.Context, note *documents.ReceiptNote) ([]byte, error) {
	mov := note.Movement
	m := newDocument("Bon de réception "+mov.ID, note.Shop.Name)

	m.AddRows(headerRow(note.Shop, "BON DE RÉCEPTION", shortID(mov.ID), mov.Date.Format("02/01/2006")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	supplier := mov.Provenance
	if note.Supplier != nil {
		supplier = note.Supplier.Name
	}
	m.AddRows(sectionRow("FOURNISSEUR", nonEmpty(supplier, "—")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	unit := decimal.Zero
	if mov.Quantity > 0 {
		unit = mov.TotalAmount.Div(decimal.NewFromInt(int64(mov.Quantity)))
	}
	m.AddRows(tableHeaderRow("Qté", "Article", "Coût unit.", "", "Montant"))
	m.AddRows(tableRow(
		g.printer.Sprintf("%d", mov.Quantity),
		note.Product.Label(),
		g.money(unit),
		"",
		g.money(mov.TotalAmount),
	))

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow([][2]string{
		{"Total :", g.money(mov.TotalAmount)},
		{"Payé :", g.money(mov.PaidAmount)},
		{"Reste dû :", g.money(mov.RemainingAmount)},
	}))
	return generate(m)
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func newDocument(title, author string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(author, true).
		Build()
	return maroto.New(cfg)
}

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: tienda (izq) y tipo de documento + número + fecha (der).
func headerRow(shop documents.Shop, kind, number, date string) core.Row {
	contact := strings.Join(nonBlank(shop.Address, shop.Phone), "   |   ")
	return row.New(18).Add(
		col.New(7).Add(
			text.New(shop.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(contact, props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(kind, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(number, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 7,
			}),
			text.New("Date : "+date, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func clientRow(c *entity.Client) core.Row {
	if c == nil {
		return sectionRow("CLIENT", "Client de passage")
	}
	detail := strings.Join(nonBlank(c.Phone, c.Email, c.Address), "   |   ")
	if detail != "" {
		return sectionRow("CLIENT", c.Name+"\n"+detail)
	}
	return sectionRow("CLIENT", c.Name)
}

func sectionRow(label, body string) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(body, props.Text{Size: 9, Top: 6}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla (cantidad, artículo, tres importes).
func tableHeaderRow(qty, item, price, discount, subtotal string) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h(qty, 1, align.Center),
		h(item, 5, align.Left),
		h(price, 2, align.Right),
		h(discount, 2, align.Right),
		h(subtotal, 2, align.Right),
	)
}

func tableRow(qty, item, price, discount, subtotal string) core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	return row.New(7).Add(
		cell(qty, 1, align.Center),
		cell(item, 5, align.Left),
		cell(price, 2, align.Right),
		cell(discount, 2, align.Right),
		cell(subtotal, 2, align.Right),
	)
}

// totalsRow: pares etiqueta/valor alineados a la derecha; el último va resaltado.
func totalsRow(pairs [][2]string) core.Row {
	labels := col.New(3)
	values := col.New(3)
	for i, p := range pairs {
		style := props.Text{Size: 9, Align: align.Right, Right: 2, Top: float64(i) * 5}
		if i == len(pairs)-1 {
			style.Style = fontstyle.Bold
			style.Color = colorPrimary
		}
		labels.Add(text.New(p[0], style))
		values.Add(text.New(p[1], style))
	}
	return row.New(float64(len(pairs))*5 + 4).Add(col.New(6), labels, values)
}

func footerRow(msg string) core.Row {
	return row.New(12).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 8, Align: align.Center, Color: colorGray, Top: 6}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// money formatea un importe en fr-FR (espacio de miles, coma decimal) sin decimales
// cuando el importe es entero.
func (g *MarotoPDFGenerator) money(d decimal.Decimal) string {
	var s string
	if d.Equal(d.Truncate(0)) {
		s = g.printer.Sprintf("%d", d.IntPart())
	} else {
		s = g.printer.Sprintf("%.2f", d.InexactFloat64())
	}
	// Helvetica no tiene el espacio fino que usa CLDR para fr.
	return spaces.Replace(s)
}

var spaces = strings.NewReplacer("\u202f", " ", "\u00a0", " ")

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func nonBlank(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}
