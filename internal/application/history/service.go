// Package history reconstruye el historial de pagos uniendo cada pago con su
// venta o movimiento y con el cliente, proveedor y producto relacionados.
package history

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/boutique-ledger/internal/domain"
	"github.com/jhoicas/boutique-ledger/internal/domain/entity"
	"github.com/jhoicas/boutique-ledger/internal/domain/repository"
)

// Entry una línea del historial de pagos.
type Entry struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"` // client | supplier
	TargetID  string          `json:"target_id"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	Reference string          `json:"reference,omitempty"` // número de factura o motivo del movimiento
	PartyID   string          `json:"party_id,omitempty"`
	PartyName string          `json:"party_name,omitempty"`
	// Solo pagos a proveedor.
	ProductID   string `json:"product_id,omitempty"`
	ProductName string `json:"product_name,omitempty"`
}

// Repositories puertos de solo lectura que usa el historial.
type Repositories struct {
	Settlements repository.SettlementRepository
	Sales       repository.SaleRepository
	Movements   repository.StockMovementRepository
	Clients     repository.ClientRepository
	Suppliers   repository.SupplierRepository
	Products    repository.ProductRepository
}

// Service reconstruye el historial.
type Service struct {
	repos Repositories
	log   zerolog.Logger
}

// NewService construye el servicio.
func NewService(repos Repositories, log zerolog.Logger) *Service {
	return &Service{repos: repos, log: log}
}

// List devuelve los pagos de clientes y proveedores, el más reciente primero.
// Una tabla de pagos inexistente cuenta como vacía.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	var clientEntries, supplierEntries []Entry
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		clientEntries, err = s.clientSide(gctx)
		return err
	})
	g.Go(func() (err error) {
		supplierEntries, err = s.supplierSide(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(clientEntries)+len(supplierEntries))
	out = append(out, clientEntries...)
	out = append(out, supplierEntries...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (s *Service) settlements(ctx context.Context, kind string) ([]*entity.Settlement, error) {
	rows, err := s.repos.Settlements.List(ctx, kind)
	if errors.Is(err, domain.ErrNotFound) {
		s.log.Debug().Str("kind", kind).Msg("tabla de pagos inexistente, historial vacío")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listar pagos %s: %w", kind, err)
	}
	return rows, nil
}

func (s *Service) clientSide(ctx context.Context) ([]Entry, error) {
	rows, err := s.settlements(ctx, entity.SettlementKindClient)
	if err != nil || len(rows) == 0 {
		return nil, err
	}

	sales, err := s.repos.Sales.ListByIDs(ctx, uniqueIDs(rows, func(r *entity.Settlement) string { return r.TargetID }))
	if err != nil {
		return nil, fmt.Errorf("resolver ventas: %w", err)
	}
	saleByID := make(map[string]*entity.Sale, len(sales))
	clientIDs := make([]string, 0, len(sales))
	for _, v := range sales {
		saleByID[v.ID] = v
		if v.ClientID != "" {
			clientIDs = append(clientIDs, v.ClientID)
		}
	}
	clients, err := s.repos.Clients.ListByIDs(ctx, clientIDs)
	if err != nil {
		return nil, fmt.Errorf("resolver clientes: %w", err)
	}
	clientName := make(map[string]string, len(clients))
	for _, c := range clients {
		clientName[c.ID] = c.Name
	}

	out := make([]Entry, 0, len(rows))
	for _, r := range rows {
		e := newEntry(r)
		if v, ok := saleByID[r.TargetID]; ok {
			e.Reference = v.InvoiceNumber
			e.PartyID = v.ClientID
			e.PartyName = clientName[v.ClientID]
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *Service) supplierSide(ctx context.Context) ([]Entry, error) {
	rows, err := s.settlements(ctx, entity.SettlementKindSupplier)
	if err != nil || len(rows) == 0 {
		return nil, err
	}

	movs, err := s.repos.Movements.ListByIDs(ctx, uniqueIDs(rows, func(r *entity.Settlement) string { return r.TargetID }))
	if err != nil {
		return nil, fmt.Errorf("resolver movimientos: %w", err)
	}
	movByID := make(map[string]*entity.StockMovement, len(movs))
	productIDs := make([]string, 0, len(movs))
	supplierIDs := make([]string, 0, len(movs))
	for _, m := range movs {
		movByID[m.ID] = m
		productIDs = append(productIDs, m.ProductID)
		if m.SupplierID != "" {
			supplierIDs = append(supplierIDs, m.SupplierID)
		}
	}
	products, err := s.repos.Products.ListByIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("resolver productos: %w", err)
	}
	suppliers, err := s.repos.Suppliers.ListByIDs(ctx, supplierIDs)
	if err != nil {
		return nil, fmt.Errorf("resolver proveedores: %w", err)
	}
	productName := make(map[string]string, len(products))
	for _, p := range products {
		productName[p.ID] = p.Label()
	}
	supplierName := make(map[string]string, len(suppliers))
	for _, f := range suppliers {
		supplierName[f.ID] = f.Name
	}

	out := make([]Entry, 0, len(rows))
	for _, r := range rows {
		e := newEntry(r)
		if m, ok := movByID[r.TargetID]; ok {
			e.Reference = m.Motif
			e.PartyID = m.SupplierID
			e.PartyName = supplierName[m.SupplierID]
			e.ProductID = m.ProductID
			e.ProductName = productName[m.ProductID]
		}
		out = append(out, e)
	}
	return out, nil
}

func newEntry(r *entity.Settlement) Entry {
	return Entry{ID: r.ID, Kind: r.Kind, TargetID: r.TargetID, Amount: r.Amount, Date: r.Date}
}

func uniqueIDs[T any](items []T, id func(T) string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		k := id(it)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
