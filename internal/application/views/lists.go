package views

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/boutique-ledger/internal/domain/entity"
	"github.com/jhoicas/boutique-ledger/internal/domain/repository"
	"github.com/jhoicas/boutique-ledger/internal/infrastructure/cache"
)

// MovementView movimiento con los nombres de producto y proveedor resueltos.
type MovementView struct {
	*entity.StockMovement
	ProductName  string
	SupplierName string
}

// SaleView venta con el nombre del cliente resuelto.
type SaleView struct {
	*entity.Sale
	ClientName string
}

// ClientDebt venta que figura en el libro de deudas de clientes.
type ClientDebt struct {
	SaleID        string
	ClientID      string
	ClientName    string
	InvoiceNumber string
	Total         decimal.Decimal
	Paid          decimal.Decimal
	Remaining     decimal.Decimal
	Open          bool
	Date          time.Time
}

// SupplierDebt recepción con importes ante el proveedor.
type SupplierDebt struct {
	MovementID   string
	SupplierID   string
	SupplierName string // nombre del proveedor o, si no hay, la procedencia
	ProductID    string
	ProductName  string
	Total        decimal.Decimal
	Paid         decimal.Decimal
	Remaining    decimal.Decimal
	Open         bool
	Date         time.Time
}

// Movements lista todos los movimientos, el más reciente primero.
func (s *Service) Movements(ctx context.Context) (cache.Snapshot[[]MovementView], error) {
	return load(ctx, s, KeyMovements, func(ctx context.Context) ([]MovementView, error) {
		movs, err := s.repos.Movements.List(ctx, repository.MovementFilter{})
		if err != nil {
			return nil, err
		}
		products, suppliers, err := s.movementNames(ctx, movs)
		if err != nil {
			return nil, err
		}
		out := make([]MovementView, 0, len(movs))
		for _, m := range movs {
			out = append(out, MovementView{StockMovement: m, ProductName: products[m.ProductID], SupplierName: suppliers[m.SupplierID]})
		}
		return out, nil
	})
}

// Sales lista las ventas con su cliente.
func (s *Service) Sales(ctx context.Context) (cache.Snapshot[[]SaleView], error) {
	return load(ctx, s, KeySales, func(ctx context.Context) ([]SaleView, error) {
		sales, err := s.repos.Sales.List(ctx)
		if err != nil {
			return nil, err
		}
		names, err := s.clientNames(ctx, sales)
		if err != nil {
			return nil, err
		}
		out := make([]SaleView, 0, len(sales))
		for _, v := range sales {
			out = append(out, SaleView{Sale: v, ClientName: names[v.ClientID]})
		}
		return out, nil
	})
}

// ClientDebts lista las ventas con restante presente. Una venta sin restante
// (centinela) no figura, aunque haya sido a crédito y terminara en 0 al crearse.
func (s *Service) ClientDebts(ctx context.Context, filter DebtFilter) (cache.Snapshot[[]ClientDebt], error) {
	return load(ctx, s, keyClientDebts+string(filter), func(ctx context.Context) ([]ClientDebt, error) {
		sales, err := s.repos.Sales.List(ctx)
		if err != nil {
			return nil, err
		}
		debts := make([]*entity.Sale, 0, len(sales))
		for _, v := range sales {
			if v.IsDebt() {
				debts = append(debts, v)
			}
		}
		names, err := s.clientNames(ctx, debts)
		if err != nil {
			return nil, err
		}
		out := make([]ClientDebt, 0, len(debts))
		for _, v := range debts {
			open := v.Outstanding().IsPositive()
			if !filter.keep(open) {
				continue
			}
			out = append(out, ClientDebt{
				SaleID:        v.ID,
				ClientID:      v.ClientID,
				ClientName:    names[v.ClientID],
				InvoiceNumber: v.InvoiceNumber,
				Total:         v.Total,
				Paid:          v.PaidAmount,
				Remaining:     v.Outstanding(),
				Open:          open,
				Date:          v.CreatedAt,
			})
		}
		return out, nil
	})
}

// SupplierDebts lista las recepciones con sus importes ante el proveedor.
func (s *Service) SupplierDebts(ctx context.Context, filter DebtFilter) (cache.Snapshot[[]SupplierDebt], error) {
	return load(ctx, s, keySupplierDebts+string(filter), func(ctx context.Context) ([]SupplierDebt, error) {
		movs, err := s.repos.Movements.List(ctx, repository.MovementFilter{Kind: entity.MovementKindEntry})
		if err != nil {
			return nil, err
		}
		products, suppliers, err := s.movementNames(ctx, movs)
		if err != nil {
			return nil, err
		}
		out := make([]SupplierDebt, 0, len(movs))
		for _, m := range movs {
			open := m.RemainingAmount.IsPositive()
			if !filter.keep(open) {
				continue
			}
			name := suppliers[m.SupplierID]
			if name == "" {
				name = m.Provenance
			}
			out = append(out, SupplierDebt{
				MovementID:   m.ID,
				SupplierID:   m.SupplierID,
				SupplierName: name,
				ProductID:    m.ProductID,
				ProductName:  products[m.ProductID],
				Total:        m.TotalAmount,
				Paid:         m.PaidAmount,
				Remaining:    m.RemainingAmount,
				Open:         open,
				Date:         m.Date,
			})
		}
		return out, nil
	})
}

func (s *Service) clientNames(ctx context.Context, sales []*entity.Sale) (map[string]string, error) {
	ids := make([]string, 0, len(sales))
	seen := make(map[string]bool)
	for _, v := range sales {
		if v.ClientID != "" && !seen[v.ClientID] {
			seen[v.ClientID] = true
			ids = append(ids, v.ClientID)
		}
	}
	clients, err := s.repos.Clients.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.Name
	}
	return names, nil
}

func (s *Service) movementNames(ctx context.Context, movs []*entity.StockMovement) (products, suppliers map[string]string, err error) {
	var productIDs, supplierIDs []string
	seen := make(map[string]bool)
	for _, m := range movs {
		if m.ProductID != "" && !seen["p"+m.ProductID] {
			seen["p"+m.ProductID] = true
			productIDs = append(productIDs, m.ProductID)
		}
		if m.SupplierID != "" && !seen["f"+m.SupplierID] {
			seen["f"+m.SupplierID] = true
			supplierIDs = append(supplierIDs, m.SupplierID)
		}
	}
	ps, err := s.repos.Products.ListByIDs(ctx, productIDs)
	if err != nil {
		return nil, nil, err
	}
	fs, err := s.repos.Suppliers.ListByIDs(ctx, supplierIDs)
	if err != nil {
		return nil, nil, err
	}
	products = make(map[string]string, len(ps))
	for _, p := range ps {
		products[p.ID] = p.Label()
	}
	suppliers = make(map[string]string, len(fs))
	for _, f := range fs {
		suppliers[f.ID] = f.Name
	}
	return products, suppliers, nil
}
