package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/boutique-ledger/internal/domain/entity"
	"github.com/jhoicas/boutique-ledger/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, nom, reference, categorie, prix_achat, prix_vente, quantite, created_at`

// ProductRepo implementación del puerto ProductRepository sobre la tabla produits.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto con la cantidad recibida (0 cuando lo crea una recepción).
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO produits (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, nullable(p.Reference), nullable(p.Category),
		p.PurchasePrice, p.SalePrice, p.Quantity, p.CreatedAt,
	)
	return classify("insert produit", err)
}

// GetByID obtiene un producto por ID. ErrNotFound si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM produits WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, classify("get produit", err)
	}
	return p, nil
}

// Update actualiza los datos descriptivos. La cantidad solo cambia vía UpdateQuantity.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE produits SET nom = $2, reference = $3, categorie = $4, prix_achat = $5, prix_vente = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		p.ID, p.Name, nullable(p.Reference), nullable(p.Category), p.PurchasePrice, p.SalePrice,
	)
	return expectOne("update produit", tag, err)
}

// UpdateQuantity escribe el agregado de stock calculado por el orquestador.
func (r *ProductRepo) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	tag, err := r.q.Exec(ctx, `UPDATE produits SET quantite = $2 WHERE id = $1`, id, quantity)
	return expectOne("update quantite", tag, err)
}

// List devuelve todos los productos ordenados por nombre.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM produits ORDER BY nom`)
	if err != nil {
		return nil, classify("list produits", err)
	}
	return collectProducts(rows)
}

// ListByIDs devuelve los productos cuyo id está en ids (join en memoria).
func (r *ProductRepo) ListByIDs(ctx context.Context, ids []string) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return []*entity.Product{}, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM produits WHERE id = ANY($1) ORDER BY nom`, ids)
	if err != nil {
		return nil, classify("list produits by id", err)
	}
	return collectProducts(rows)
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM produits WHERE id = $1`, id)
	return expectOne("delete produit", tag, err)
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var reference, category *string
	if err := row.Scan(&p.ID, &p.Name, &reference, &category,
		&p.PurchasePrice, &p.SalePrice, &p.Quantity, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Reference = deref(reference)
	p.Category = deref(category)
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]*entity.Product, error) {
	defer rows.Close()
	list := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan produit: %w", err)
		}
		list = append(list, p)
	}
	return list, classify("list produits", rows.Err())
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
