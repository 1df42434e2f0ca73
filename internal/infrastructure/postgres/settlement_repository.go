package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/boutique-ledger/internal/domain/entity"
	"github.com/jhoicas/boutique-ledger/internal/domain/repository"
)

var _ repository.SettlementRepository = (*SettlementRepo)(nil)

// SettlementRepo implementación sobre reglements_clients y reglements_fournisseurs.
// Ambas tablas son solo de inserción.
type SettlementRepo struct {
	q Querier
}

// NewSettlementRepository construye el adaptador de pagos.
func NewSettlementRepository(q Querier) *SettlementRepo {
	return &SettlementRepo{q: q}
}

// parentColumn devuelve la columna que referencia la venta o el movimiento.
func parentColumn(kind string) string {
	if kind == entity.SettlementKindSupplier {
		return "mouvement_id"
	}
	return "vente_id"
}

// Create agrega un pago a la tabla del lado correspondiente.
func (r *SettlementRepo) Create(ctx context.Context, s *entity.Settlement) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.Date.IsZero() {
		s.Date = time.Now().UTC()
	}
	table := repository.SettlementCollection(s.Kind)
	query := `INSERT INTO ` + table + ` (id, ` + parentColumn(s.Kind) + `, montant, date) VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(ctx, query, s.ID, s.TargetID, s.Amount, s.Date)
	return classify("insert "+table, err)
}

// List devuelve los pagos de un lado. Si la tabla no existe devuelve ErrNotFound.
func (r *SettlementRepo) List(ctx context.Context, kind string) ([]*entity.Settlement, error) {
	table := repository.SettlementCollection(kind)
	rows, err := r.q.Query(ctx,
		`SELECT id, `+parentColumn(kind)+`, montant, date FROM `+table+` ORDER BY date DESC`)
	if err != nil {
		return nil, classify("list "+table, err)
	}
	defer rows.Close()
	list := make([]*entity.Settlement, 0)
	for rows.Next() {
		s := entity.Settlement{Kind: kind}
		if err := rows.Scan(&s.ID, &s.TargetID, &s.Amount, &s.Date); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		list = append(list, &s)
	}
	return list, classify("list "+table, rows.Err())
}
