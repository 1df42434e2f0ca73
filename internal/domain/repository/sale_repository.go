package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/boutique-ledger/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas (colección ventes).
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// UpdatePayment reescribe montant_paye y restant_a_payer; remaining nil escribe NULL.
	UpdatePayment(ctx context.Context, id string, paid decimal.Decimal, remaining *decimal.Decimal) error
	// List devuelve las ventas ordenadas por fecha de creación descendente.
	List(ctx context.Context) ([]*entity.Sale, error)
	ListByIDs(ctx context.Context, ids []string) ([]*entity.Sale, error)
}

// SaleLineRepository define el puerto de persistencia para líneas de venta (colección ventes_lignes).
// Las líneas son inmutables: no hay Update ni Delete.
type SaleLineRepository interface {
	Create(ctx context.Context, line *entity.SaleLine) error
	ListBySale(ctx context.Context, saleID string) ([]*entity.SaleLine, error)
}
