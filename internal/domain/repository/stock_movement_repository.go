package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/boutique-ledger/internal/domain/entity"
)

// MovementFilter restringe un listado de movimientos. Campos vacíos no filtran.
type MovementFilter struct {
	Kind      string
	ProductID string
}

// StockMovementRepository define el puerto de persistencia para movimientos (colección mouvements).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	// UpdatePayment reescribe montant_paye y restant_a_payer del movimiento.
	UpdatePayment(ctx context.Context, id string, paid, remaining decimal.Decimal) error
	// List devuelve los movimientos ordenados por fecha descendente.
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
	ListByIDs(ctx context.Context, ids []string) ([]*entity.StockMovement, error)
}
