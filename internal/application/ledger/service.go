// Package ledger orquesta las escrituras dependientes del libro de la tienda:
// recepción de mercancía, cierre de venta y pago de deudas.
//
// El almacén no ofrece transacciones entre entidades, así que cada operación es
// una saga de pasos con nombre, sin compensación automática. Un fallo intermedio
// devuelve *SagaError con el paso fallido y los pasos ya aplicados.
package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/boutique-ledger/internal/application/dto"
	"github.com/jhoicas/boutique-ledger/internal/domain"
	"github.com/jhoicas/boutique-ledger/internal/domain/repository"
)

// StockPolicy decide qué hacer cuando una venta pide más de lo que hay en stock.
type StockPolicy string

const (
	// StockPolicyClamp deja el stock en 0 y continúa (comportamiento histórico de la tienda).
	StockPolicyClamp StockPolicy = "clamp"
	// StockPolicyReject rechaza la venta con ErrInsufficientStock.
	StockPolicyReject StockPolicy = "reject"
)

// ParseStockPolicy interpreta el valor de configuración; vacío equivale a clamp.
func ParseStockPolicy(s string) (StockPolicy, error) {
	switch StockPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StockPolicyClamp:
		return StockPolicyClamp, nil
	case StockPolicyReject:
		return StockPolicyReject, nil
	}
	return "", fmt.Errorf("política de stock desconocida %q", s)
}

// Repositories agrupa los puertos del almacén que usan las sagas.
type Repositories struct {
	Products    repository.ProductRepository
	Movements   repository.StockMovementRepository
	Sales       repository.SaleRepository
	SaleLines   repository.SaleLineRepository
	Clients     repository.ClientRepository
	Settlements repository.SettlementRepository
}

// Notifier recibe las vistas a refrescar después de una operación exitosa.
type Notifier interface {
	Notify(views []string)
}

// Option configura el Service.
type Option func(*Service)

// WithStockPolicy fija la política de piso de stock.
func WithStockPolicy(p StockPolicy) Option {
	return func(s *Service) { s.policy = p }
}

// WithLogger fija el logger de las sagas.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithNotifier publica las pistas de refresco (p. ej. por websocket).
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithClock reemplaza el reloj (fechas de pagos y número de factura).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service es el orquestador del libro.
type Service struct {
	repos    Repositories
	locks    *KeyedLocker
	policy   StockPolicy
	log      zerolog.Logger
	notifier Notifier
	now      func() time.Time
}

// NewService construye el orquestador. Por defecto usa clamp y un logger silencioso.
func NewService(repos Repositories, opts ...Option) *Service {
	s := &Service{
		repos:  repos,
		locks:  NewKeyedLocker(),
		policy: StockPolicyClamp,
		log:    zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy devuelve la política de stock vigente.
func (s *Service) Policy() StockPolicy { return s.policy }

func (s *Service) notify(views []string) {
	if s.notifier != nil && len(views) > 0 {
		s.notifier.Notify(views)
	}
}

// validate rechaza la entrada antes de cualquier escritura.
func validate(in any) error { return dto.Validate(in) }

// IsValidation indica si err es un rechazo previo a cualquier escritura.
func IsValidation(err error) bool {
	return errors.Is(err, domain.ErrInvalidInput)
}
