package postgres

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/boutique-ledger/internal/domain/entity"
	"github.com/jhoicas/boutique-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, produit_id, type, quantite, date, motif, provenance, fournisseur_id,
	montant_total, montant_paye, restant_a_payer`

// StockMovementRepo implementación sobre la tabla mouvements.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador.
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento de stock. restant_a_payer siempre lleva un número.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Date.IsZero() {
		m.Date = time.Now().UTC()
	}
	query := `
		INSERT INTO mouvements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.Kind, m.Quantity, m.Date,
		nullable(m.Motif), nullable(m.Provenance), nullable(m.SupplierID),
		m.TotalAmount, m.PaidAmount, m.RemainingAmount,
	)
	return classify("insert mouvement", err)
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM mouvements WHERE id = $1`, id))
	if err != nil {
		return nil, classify("get mouvement", err)
	}
	return m, nil
}

// UpdatePayment escribe el nuevo pagado/restante tras un pago al proveedor.
func (r *StockMovementRepo) UpdatePayment(ctx context.Context, id string, paid, remaining decimal.Decimal) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE mouvements SET montant_paye = $2, restant_a_payer = $3 WHERE id = $1`,
		id, paid, remaining,
	)
	return expectOne("update mouvement", tag, err)
}

// List lista movimientos por fecha descendente, opcionalmente filtrados por tipo y producto.
func (r *StockMovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM mouvements WHERE 1=1`
	args := []any{}
	if filter.Kind != "" {
		args = append(args, filter.Kind)
		query += ` AND type = $` + strconv.Itoa(len(args))
	}
	if filter.ProductID != "" {
		args = append(args, filter.ProductID)
		query += ` AND produit_id = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY date DESC`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, classify("list mouvements", err)
	}
	return collectMovements(rows)
}

// ListByIDs devuelve los movimientos cuyo id está en ids.
func (r *StockMovementRepo) ListByIDs(ctx context.Context, ids []string) ([]*entity.StockMovement, error) {
	if len(ids) == 0 {
		return []*entity.StockMovement{}, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+movementColumns+` FROM mouvements WHERE id = ANY($1) ORDER BY date DESC`, ids)
	if err != nil {
		return nil, classify("list mouvements by id", err)
	}
	return collectMovements(rows)
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var motif, provenance, supplierID *string
	var total, paid, remaining *decimal.Decimal
	if err := row.Scan(&m.ID, &m.ProductID, &m.Kind, &m.Quantity, &m.Date,
		&motif, &provenance, &supplierID, &total, &paid, &remaining); err != nil {
		return nil, err
	}
	m.Motif = deref(motif)
	m.Provenance = deref(provenance)
	m.SupplierID = deref(supplierID)
	// Las salidas de venta antiguas pueden no tener importes.
	m.TotalAmount = zeroIfNil(total)
	m.PaidAmount = zeroIfNil(paid)
	m.RemainingAmount = zeroIfNil(remaining)
	return &m, nil
}

func collectMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	defer rows.Close()
	list := make([]*entity.StockMovement, 0)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan mouvement: %w", err)
		}
		list = append(list, m)
	}
	return list, classify("list mouvements", rows.Err())
}

func zeroIfNil(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
