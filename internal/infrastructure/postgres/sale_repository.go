package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/boutique-ledger/internal/domain/entity"
	"github.com/jhoicas/boutique-ledger/internal/domain/repository"
)

var (
	_ repository.SaleRepository     = (*SaleRepo)(nil)
	_ repository.SaleLineRepository = (*SaleLineRepo)(nil)
)

const saleColumns = `id, client_id, numero_facture, total, reduction_totale, montant_paye, restant_a_payer, created_at`

// SaleRepo implementación sobre la tabla ventes.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de la venta. Remaining nil se guarda como NULL.
func (r *SaleRepo) Create(ctx context.Context, v *entity.Sale) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO ventes (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		v.ID, nullable(v.ClientID), v.InvoiceNumber, v.Total, v.Discount, v.PaidAmount, v.Remaining, v.CreatedAt,
	)
	return classify("insert vente", err)
}

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	v, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM ventes WHERE id = $1`, id))
	if err != nil {
		return nil, classify("get vente", err)
	}
	return v, nil
}

// UpdatePayment escribe el nuevo pagado/restante tras un pago del cliente.
func (r *SaleRepo) UpdatePayment(ctx context.Context, id string, paid decimal.Decimal, remaining *decimal.Decimal) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE ventes SET montant_paye = $2, restant_a_payer = $3 WHERE id = $1`,
		id, paid, remaining,
	)
	return expectOne("update vente", tag, err)
}

// List devuelve las ventas, la más reciente primero.
func (r *SaleRepo) List(ctx context.Context) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx, `SELECT `+saleColumns+` FROM ventes ORDER BY created_at DESC`)
	if err != nil {
		return nil, classify("list ventes", err)
	}
	return collectSales(rows)
}

// ListByIDs devuelve las ventas cuyo id está en ids.
func (r *SaleRepo) ListByIDs(ctx context.Context, ids []string) ([]*entity.Sale, error) {
	if len(ids) == 0 {
		return []*entity.Sale{}, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+saleColumns+` FROM ventes WHERE id = ANY($1) ORDER BY created_at DESC`, ids)
	if err != nil {
		return nil, classify("list ventes by id", err)
	}
	return collectSales(rows)
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var v entity.Sale
	var clientID *string
	if err := row.Scan(&v.ID, &clientID, &v.InvoiceNumber, &v.Total, &v.Discount,
		&v.PaidAmount, &v.Remaining, &v.CreatedAt); err != nil {
		return nil, err
	}
	v.ClientID = deref(clientID)
	return &v, nil
}

func collectSales(rows pgx.Rows) ([]*entity.Sale, error) {
	defer rows.Close()
	list := make([]*entity.Sale, 0)
	for rows.Next() {
		v, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vente: %w", err)
		}
		list = append(list, v)
	}
	return list, classify("list ventes", rows.Err())
}

// SaleLineRepo implementación sobre la tabla ventes_lignes.
type SaleLineRepo struct {
	q Querier
}

// NewSaleLineRepository construye el adaptador de líneas de venta.
func NewSaleLineRepository(q Querier) *SaleLineRepo {
	return &SaleLineRepo{q: q}
}

// Create persiste una línea. Las líneas no se modifican.
func (r *SaleLineRepo) Create(ctx context.Context, l *entity.SaleLine) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	query := `
		INSERT INTO ventes_lignes (id, vente_id, produit_id, quantite, prix_unitaire, reduction_unitaire, sous_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.SaleID, l.ProductID, l.Quantity, l.UnitPrice, l.UnitDiscount, l.Subtotal,
	)
	return classify("insert ligne", err)
}

// ListBySale devuelve las líneas de una venta.
func (r *SaleLineRepo) ListBySale(ctx context.Context, saleID string) ([]*entity.SaleLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, vente_id, produit_id, quantite, prix_unitaire, reduction_unitaire, sous_total
		FROM ventes_lignes WHERE vente_id = $1`, saleID)
	if err != nil {
		return nil, classify("list lignes", err)
	}
	defer rows.Close()
	list := make([]*entity.SaleLine, 0)
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ProductID, &l.Quantity,
			&l.UnitPrice, &l.UnitDiscount, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan ligne: %w", err)
		}
		list = append(list, &l)
	}
	return list, classify("list lignes", rows.Err())
}
