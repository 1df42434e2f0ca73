// Package documents arma los datos de la factura de una venta y del albarán de
// una recepción, y delega el dibujo del PDF en un Generator.
package documents

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/boutique-ledger/internal/domain"
	"github.com/jhoicas/boutique-ledger/internal/domain/entity"
	"github.com/jhoicas/boutique-ledger/internal/domain/repository"
)

// Shop datos de la tienda impresos en la cabecera.
type Shop struct {
	Name    string
	Address string
	Phone   string
}

// InvoiceLine línea de la factura con el nombre del producto resuelto.
type InvoiceLine struct {
	ProductName  string
	Quantity     int
	UnitPrice    decimal.Decimal
	UnitDiscount decimal.Decimal
	Subtotal     decimal.Decimal
}

// Invoice datos completos de la factura de una venta.
type Invoice struct {
	Shop   Shop
	Sale   *entity.Sale
	Client *entity.Client // nil si la venta no tiene cliente
	Lines  []InvoiceLine
}

// ReceiptNote datos del albarán de una recepción de mercancía.
type ReceiptNote struct {
	Shop     Shop
	Movement *entity.StockMovement
	Product  *entity.Product
	Supplier *entity.Supplier // nil si solo hay procedencia
}

// Generator dibuja los documentos.
type Generator interface {
	InvoicePDF(ctx context.Context, inv *Invoice) ([]byte, error)
	ReceiptNotePDF(ctx context.Context, note *ReceiptNote) ([]byte, error)
}

// Repositories puertos de lectura de los documentos.
type Repositories struct {
	Sales     repository.SaleRepository
	SaleLines repository.SaleLineRepository
	Clients   repository.ClientRepository
	Products  repository.ProductRepository
	Movements repository.StockMovementRepository
	Suppliers repository.SupplierRepository
}

// Service caso de uso de descarga de documentos.
type Service struct {
	repos     Repositories
	shop      Shop
	generator Generator
}

// NewService construye el servicio.
func NewService(repos Repositories, shop Shop, generator Generator) *Service {
	return &Service{repos: repos, shop: shop, generator: generator}
}

// InvoicePDF genera la factura de la venta saleID.
// Retorna (pdf, nombre de archivo, error). domain.ErrNotFound si la venta no existe.
func (s *Service) InvoicePDF(ctx context.Context, saleID string) ([]byte, string, error) {
	inv, err := s.Invoice(ctx, saleID)
	if err != nil {
		return nil, "", err
	}
	doc, err := s.generator.InvoicePDF(ctx, inv)
	if err != nil {
		return nil, "", fmt.Errorf("documents: factura %s: %w", inv.Sale.InvoiceNumber, err)
	}
	return doc, inv.Sale.InvoiceNumber + ".pdf", nil
}

// Invoice reúne venta, líneas, cliente y nombres de producto.
func (s *Service) Invoice(ctx context.Context, saleID string) (*Invoice, error) {
	sale, err := s.repos.Sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	lines, err := s.repos.SaleLines.ListBySale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	products, err := s.repos.Products.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Label()
	}

	inv := &Invoice{Shop: s.shop, Sale: sale, Lines: make([]InvoiceLine, 0, len(lines))}
	for _, l := range lines {
		name, ok := names[l.ProductID]
		if !ok {
			name = l.ProductID // producto borrado después de la venta
		}
		inv.Lines = append(inv.Lines, InvoiceLine{
			ProductName:  name,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
			UnitDiscount: l.UnitDiscount,
			Subtotal:     l.Subtotal,
		})
	}
	if sale.ClientID != "" {
		c, err := s.repos.Clients.GetByID(ctx, sale.ClientID)
		switch {
		case err == nil:
			inv.Client = c
		case !isNotFound(err):
			return nil, err
		}
	}
	return inv, nil
}

// ReceiptNotePDF genera el albarán del movimiento de entrada movementID.
func (s *Service) ReceiptNotePDF(ctx context.Context, movementID string) ([]byte, string, error) {
	m, err := s.repos.Movements.GetByID(ctx, movementID)
	if err != nil {
		return nil, "", err
	}
	if !m.IsEntry() {
		return nil, "", fmt.Errorf("%w: el movimiento %s no es una recepción", domain.ErrInvalidInput, movementID)
	}
	note := &ReceiptNote{Shop: s.shop, Movement: m}
	note.Product, err = s.repos.Products.GetByID(ctx, m.ProductID)
	if err != nil {
		if !isNotFound(err) {
			return nil, "", err
		}
		note.Product = &entity.Product{ID: m.ProductID}
	}
	if m.SupplierID != "" {
		f, err := s.repos.Suppliers.GetByID(ctx, m.SupplierID)
		switch {
		case err == nil:
			note.Supplier = f
		case !isNotFound(err):
			return nil, "", err
		}
	}
	doc, err := s.generator.ReceiptNotePDF(ctx, note)
	if err != nil {
		return nil, "", fmt.Errorf("documents: albarán %s: %w", movementID, err)
	}
	return doc, "reception-" + movementID + ".pdf", nil
}

func isNotFound(err error) bool { return errors.Is(err, domain.ErrNotFound) }
