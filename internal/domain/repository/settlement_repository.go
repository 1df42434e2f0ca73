package repository

import (
	"context"

	"github.com/jhoicas/boutique-ledger/internal/domain/entity"
)

// SettlementRepository define el puerto para los pagos de deudas (append-only).
// kind selecciona la colección: entity.SettlementKindClient o entity.SettlementKindSupplier.
// List devuelve domain.ErrNotFound si la colección todavía no existe.
type SettlementRepository interface {
	Create(ctx context.Context, settlement *entity.Settlement) error
	List(ctx context.Context, kind string) ([]*entity.Settlement, error)
}
