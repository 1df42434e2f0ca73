// Package exports arma las hojas de cálculo de productos, ventas y deudas a partir
// de las vistas cacheadas y delega la escritura del libro en un Writer.
//
// Las exportaciones leen las mismas instantáneas que los listados: si el almacén
// no responde se exporta la última instantánea y File.Stale lo indica.
package exports

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/boutique-ledger/internal/application/views"
	"github.com/jhoicas/boutique-ledger/internal/domain/entity"
	"github.com/jhoicas/boutique-ledger/internal/infrastructure/cache"
)

// Estados de una deuda en las hojas.
const (
	StatusOpen    = "En cours"
	StatusSettled = "Réglée"
)

// Sheet una hoja: cabecera y filas. Los importes van como decimal.Decimal.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]any
}

// Workbook libro con una o más hojas, en orden.
type Workbook struct {
	Sheets []Sheet
}

// Writer serializa el libro (xlsx).
type Writer interface {
	Workbook(ctx context.Context, book *Workbook) ([]byte, error)
}

// Views lecturas cacheadas que alimentan las hojas.
type Views interface {
	Products(ctx context.Context) (cache.Snapshot[[]*entity.Product], error)
	Sales(ctx context.Context) (cache.Snapshot[[]views.SaleView], error)
	ClientDebts(ctx context.Context, filter views.DebtFilter) (cache.Snapshot[[]views.ClientDebt], error)
	SupplierDebts(ctx context.Context, filter views.DebtFilter) (cache.Snapshot[[]views.SupplierDebt], error)
}

// File libro listo para descargar.
type File struct {
	Name      string
	Content   []byte
	FetchedAt time.Time // la instantánea más antigua usada
	Stale     bool
}

// Service caso de uso de exportación.
type Service struct {
	views  Views
	writer Writer
	suffix string
}

// NewService construye el servicio. shopName da el sufijo de los nombres de archivo.
func NewService(v Views, w Writer, shopName string) *Service {
	return &Service{views: v, writer: w, suffix: slug(shopName)}
}

// Products exporta el catálogo con su stock.
func (s *Service) Products(ctx context.Context) (*File, error) {
	snap, err := s.views.Products(ctx)
	if err != nil {
		return nil, err
	}
	sheet := Sheet{
		Name:    "Produits",
		Headers: []string{"Référence", "Nom", "Catégorie", "Prix achat (FCFA)", "Prix vente (FCFA)", "Stock"},
		Rows:    make([][]any, 0, len(snap.Value)),
	}
	for _, p := range snap.Value {
		sheet.Rows = append(sheet.Rows, []any{p.Reference, p.Name, p.Category, p.PurchasePrice, p.SalePrice, p.Quantity})
	}
	var meta snapshotMeta
	meta.add(snap.FetchedAt, snap.Stale)
	return s.write(ctx, "produits", meta, sheet)
}

// Sales exporta las ventas, la más reciente primero.
func (s *Service) Sales(ctx context.Context) (*File, error) {
	snap, err := s.views.Sales(ctx)
	if err != nil {
		return nil, err
	}
	sales := append([]views.SaleView(nil), snap.Value...)
	sort.SliceStable(sales, func(i, j int) bool { return sales[i].CreatedAt.After(sales[j].CreatedAt) })

	sheet := Sheet{
		Name: "Ventes",
		Headers: []string{"N° Facture", "Client", "Total (FCFA)", "Réduction (FCFA)",
			"Montant payé (FCFA)", "Reste à payer (FCFA)", "Date"},
		Rows: make([][]any, 0, len(sales)),
	}
	for _, v := range sales {
		sheet.Rows = append(sheet.Rows, []any{
			v.InvoiceNumber, orDash(v.ClientName), v.Total, v.Discount, v.PaidAmount, v.Outstanding(), date(v.CreatedAt),
		})
	}
	var meta snapshotMeta
	meta.add(snap.FetchedAt, snap.Stale)
	return s.write(ctx, "ventes", meta, sheet)
}

// Debts exporta las deudas de clientes y de proveedores, abiertas y saldadas, en dos hojas.
func (s *Service) Debts(ctx context.Context) (*File, error) {
	clients, err := s.views.ClientDebts(ctx, views.DebtAll)
	if err != nil {
		return nil, err
	}
	suppliers, err := s.views.SupplierDebts(ctx, views.DebtAll)
	if err != nil {
		return nil, err
	}

	clientSheet := Sheet{
		Name:    "Dettes clients",
		Headers: []string{"Statut", "Client", "N° Facture", "Total (FCFA)", "Payé (FCFA)", "Reste (FCFA)", "Date"},
		Rows:    make([][]any, 0, len(clients.Value)),
	}
	for _, d := range clients.Value {
		clientSheet.Rows = append(clientSheet.Rows, []any{
			status(d.Open), orDash(d.ClientName), d.InvoiceNumber, d.Total, d.Paid, d.Remaining, date(d.Date),
		})
	}

	supplierSheet := Sheet{
		Name:    "Dettes fournisseurs",
		Headers: []string{"Statut", "Fournisseur", "Produit", "Total (FCFA)", "Payé (FCFA)", "Reste (FCFA)", "Date"},
		Rows:    make([][]any, 0, len(suppliers.Value)),
	}
	for _, d := range suppliers.Value {
		supplierSheet.Rows = append(supplierSheet.Rows, []any{
			status(d.Open), orDash(d.SupplierName), orDash(d.ProductName), d.Total, d.Paid, d.Remaining, date(d.Date),
		})
	}

	var meta snapshotMeta
	meta.add(clients.FetchedAt, clients.Stale)
	meta.add(suppliers.FetchedAt, suppliers.Stale)
	return s.write(ctx, "dettes", meta, clientSheet, supplierSheet)
}

func (s *Service) write(ctx context.Context, prefix string, m snapshotMeta, sheets ...Sheet) (*File, error) {
	content, err := s.writer.Workbook(ctx, &Workbook{Sheets: sheets})
	if err != nil {
		return nil, err
	}
	name := prefix + ".xlsx"
	if s.suffix != "" {
		name = prefix + "-" + s.suffix + ".xlsx"
	}
	return &File{Name: name, Content: content, FetchedAt: m.fetchedAt, Stale: m.stale}, nil
}

type snapshotMeta struct {
	fetchedAt time.Time
	stale     bool
}

func (m *snapshotMeta) add(fetchedAt time.Time, stale bool) {
	if m.fetchedAt.IsZero() || fetchedAt.Before(m.fetchedAt) {
		m.fetchedAt = fetchedAt
	}
	m.stale = m.stale || stale
}

func status(open bool) string {
	if open {
		return StatusOpen
	}
	return StatusSettled
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// date formatea como dd/mm/aaaa; "-" si no hay fecha.
func date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02/01/2006")
}

// slug pasa "Kouma Fashion" a "kouma-fashion", sin acentos.
func slug(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, name)
	if err != nil {
		plain = name
	}
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(plain) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
