package ledger

import (
	"context"
	"fmt"

	"github.com/jhoicas/boutique-ledger/internal/domain/repository"
)

// DriftReport compara el agregado de stock con la suma de movimientos de un producto.
type DriftReport struct {
	ProductID   string `json:"product_id"`
	Quantity    int    `json:"quantity"`
	MovementSum int    `json:"movement_sum"`
	Delta       int    `json:"delta"` // Quantity - MovementSum
	Movements   int    `json:"movements"`
}

// Drifted indica si agregado y libro no coinciden.
func (r DriftReport) Drifted() bool { return r.Delta != 0 }

// CheckDrift detecta (no repara) la deriva del stock de un producto.
// Un clamp de venta también aparece como deriva: la salida registra lo vendido, no lo descontado.
func (s *Service) CheckDrift(ctx context.Context, productID string) (*DriftReport, error) {
	p, err := s.repos.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("leer producto: %w", err)
	}
	movs, err := s.repos.Movements.List(ctx, repository.MovementFilter{ProductID: productID})
	if err != nil {
		return nil, fmt.Errorf("listar movimientos: %w", err)
	}
	sum := 0
	for _, m := range movs {
		sum += m.Quantity
	}
	report := &DriftReport{
		ProductID:   productID,
		Quantity:    p.Quantity,
		MovementSum: sum,
		Delta:       p.Quantity - sum,
		Movements:   len(movs),
	}
	if report.Drifted() {
		s.log.Warn().
			Str("product_id", productID).
			Int("quantity", p.Quantity).
			Int("movement_sum", sum).
			Bool("integrity_drift", true).
			Msg("stock y movimientos no coinciden")
	}
	return report, nil
}
