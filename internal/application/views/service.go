// Package views sirve las vistas de listado a través de la caché de instantáneas:
// si el almacén no responde se devuelve la última instantánea marcada como Stale.
package views

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/boutique-ledger/internal/domain"
	"github.com/jhoicas/boutique-ledger/internal/domain/entity"
	"github.com/jhoicas/boutique-ledger/internal/domain/inventory"
	"github.com/jhoicas/boutique-ledger/internal/domain/repository"
	"github.com/jhoicas/boutique-ledger/internal/infrastructure/cache"
)

// Claves de caché.
const (
	KeyProducts      = "products"
	KeyMovements     = "movements"
	KeySales         = "sales"
	KeyClients       = "clients"
	KeySuppliers     = "suppliers"
	keyClientDebts   = "client_debts:"
	keySupplierDebts = "supplier_debts:"
	keyDashboard     = "dashboard:"
)

// DebtFilter filtra los listados de deudas.
type DebtFilter string

const (
	DebtAll     DebtFilter = "all"
	DebtOpen    DebtFilter = "open"
	DebtSettled DebtFilter = "settled"
)

// ParseDebtFilter acepta all|open|settled; vacío equivale a open.
func ParseDebtFilter(s string) (DebtFilter, error) {
	switch DebtFilter(s) {
	case "", DebtOpen:
		return DebtOpen, nil
	case DebtAll:
		return DebtAll, nil
	case DebtSettled:
		return DebtSettled, nil
	}
	return "", fmt.Errorf("%w: filtro %q", domain.ErrInvalidInput, s)
}

func (f DebtFilter) keep(open bool) bool {
	switch f {
	case DebtOpen:
		return open
	case DebtSettled:
		return !open
	}
	return true
}

// Repositories puertos de lectura de las vistas.
type Repositories struct {
	Products  repository.ProductRepository
	Movements repository.StockMovementRepository
	Sales     repository.SaleRepository
	Clients   repository.ClientRepository
	Suppliers repository.SupplierRepository
}

// Service vistas de lectura con caché fail-open.
type Service struct {
	repos     Repositories
	cache     *cache.Cache
	threshold int
	now       func() time.Time
	log       zerolog.Logger
}

// Option configura el Service.
type Option func(*Service)

// WithAlertThreshold fija el umbral de stock bajo.
func WithAlertThreshold(n int) Option { return func(s *Service) { s.threshold = n } }

// WithClock fija el reloj usado para los periodos del tablero.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// WithLogger fija el logger.
func WithLogger(l zerolog.Logger) Option { return func(s *Service) { s.log = l } }

// NewService construye el servicio de vistas sobre la caché c.
func NewService(repos Repositories, c *cache.Cache, opts ...Option) *Service {
	s := &Service{
		repos:     repos,
		cache:     c,
		threshold: inventory.DefaultAlertThreshold,
		now:       time.Now,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// load envuelve cache.Load y registra los refrescos fallidos.
func load[T any](ctx context.Context, s *Service, key string, fetch cache.Fetcher[T]) (cache.Snapshot[T], error) {
	snap, err := cache.Load(ctx, s.cache, key, fetch, nil)
	if err != nil {
		return snap, err
	}
	if snap.Stale {
		s.log.Warn().Err(snap.RefreshErr).Str("view", key).Time("fetched_at", snap.FetchedAt).
			Msg("almacén no disponible, se sirve la instantánea")
	}
	return snap, nil
}

// Products lista los productos por nombre.
func (s *Service) Products(ctx context.Context) (cache.Snapshot[[]*entity.Product], error) {
	return load(ctx, s, KeyProducts, s.repos.Products.List)
}

// Alerts deriva las alertas de stock de la vista de productos.
func (s *Service) Alerts(ctx context.Context) (cache.Snapshot[[]inventory.StockAlert], error) {
	snap, err := s.Products(ctx)
	if err != nil {
		return cache.Snapshot[[]inventory.StockAlert]{}, err
	}
	return cache.Snapshot[[]inventory.StockAlert]{
		Value:      inventory.StockAlerts(snap.Value, s.threshold),
		FetchedAt:  snap.FetchedAt,
		Stale:      snap.Stale,
		RefreshErr: snap.RefreshErr,
	}, nil
}

// Clients lista los clientes.
func (s *Service) Clients(ctx context.Context) (cache.Snapshot[[]*entity.Client], error) {
	return load(ctx, s, KeyClients, s.repos.Clients.List)
}

// Suppliers lista los proveedores.
func (s *Service) Suppliers(ctx context.Context) (cache.Snapshot[[]*entity.Supplier], error) {
	return load(ctx, s, KeySuppliers, s.repos.Suppliers.List)
}
