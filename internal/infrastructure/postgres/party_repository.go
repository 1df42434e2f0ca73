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

var (
	_ repository.ClientRepository   = (*ClientRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
)

// partyTable agrupa el acceso común a clients y fournisseurs (mismas columnas).
type partyTable struct {
	q     Querier
	table string
}

type partyRow struct {
	ID, Name, Phone, Email, Address string
	CreatedAt                       time.Time
}

const partyColumns = `id, nom, telephone, email, adresse, created_at`

func (t partyTable) create(ctx context.Context, p *partyRow) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := t.q.Exec(ctx,
		`INSERT INTO `+t.table+` (`+partyColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.Name, nullable(p.Phone), nullable(p.Email), nullable(p.Address), p.CreatedAt,
	)
	return classify("insert "+t.table, err)
}

func (t partyTable) get(ctx context.Context, id string) (*partyRow, error) {
	p, err := scanParty(t.q.QueryRow(ctx, `SELECT `+partyColumns+` FROM `+t.table+` WHERE id = $1`, id))
	if err != nil {
		return nil, classify("get "+t.table, err)
	}
	return p, nil
}

func (t partyTable) update(ctx context.Context, p *partyRow) error {
	tag, err := t.q.Exec(ctx,
		`UPDATE `+t.table+` SET nom = $2, telephone = $3, email = $4, adresse = $5 WHERE id = $1`,
		p.ID, p.Name, nullable(p.Phone), nullable(p.Email), nullable(p.Address),
	)
	return expectOne("update "+t.table, tag, err)
}

func (t partyTable) list(ctx context.Context, ids []string) ([]*partyRow, error) {
	query := `SELECT ` + partyColumns + ` FROM ` + t.table
	args := []any{}
	if ids != nil {
		query += ` WHERE id = ANY($1)`
		args = append(args, ids)
	}
	rows, err := t.q.Query(ctx, query+` ORDER BY nom`, args...)
	if err != nil {
		return nil, classify("list "+t.table, err)
	}
	defer rows.Close()
	list := make([]*partyRow, 0)
	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.table, err)
		}
		list = append(list, p)
	}
	return list, classify("list "+t.table, rows.Err())
}

func (t partyTable) delete(ctx context.Context, id string) error {
	tag, err := t.q.Exec(ctx, `DELETE FROM `+t.table+` WHERE id = $1`, id)
	return expectOne("delete "+t.table, tag, err)
}

func scanParty(row pgx.Row) (*partyRow, error) {
	var p partyRow
	var phone, email, address *string
	if err := row.Scan(&p.ID, &p.Name, &phone, &email, &address, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Phone, p.Email, p.Address = deref(phone), deref(email), deref(address)
	return &p, nil
}

// ClientRepo implementación de ClientRepository sobre clients.
type ClientRepo struct {
	t partyTable
}

// NewClientRepository construye el adaptador de clientes.
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{t: partyTable{q: q, table: repository.CollectionClients}}
}

func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	row := &partyRow{ID: c.ID, Name: c.Name, Phone: c.Phone, Email: c.Email, Address: c.Address, CreatedAt: c.CreatedAt}
	if err := r.t.create(ctx, row); err != nil {
		return err
	}
	c.ID, c.CreatedAt = row.ID, row.CreatedAt
	return nil
}

func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	row, err := r.t.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toClient(row), nil
}

func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	return r.t.update(ctx, &partyRow{ID: c.ID, Name: c.Name, Phone: c.Phone, Email: c.Email, Address: c.Address})
}

func (r *ClientRepo) List(ctx context.Context) ([]*entity.Client, error) {
	return r.list(ctx, nil)
}

func (r *ClientRepo) ListByIDs(ctx context.Context, ids []string) ([]*entity.Client, error) {
	if len(ids) == 0 {
		return []*entity.Client{}, nil
	}
	return r.list(ctx, ids)
}

func (r *ClientRepo) list(ctx context.Context, ids []string) ([]*entity.Client, error) {
	rows, err := r.t.list(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Client, 0, len(rows))
	for _, row := range rows {
		out = append(out, toClient(row))
	}
	return out, nil
}

func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	return r.t.delete(ctx, id)
}

func toClient(p *partyRow) *entity.Client {
	return &entity.Client{ID: p.ID, Name: p.Name, Phone: p.Phone, Email: p.Email, Address: p.Address, CreatedAt: p.CreatedAt}
}

// SupplierRepo implementación de SupplierRepository sobre fournisseurs.
type SupplierRepo struct {
	t partyTable
}

// NewSupplierRepository construye el adaptador de proveedores.
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{t: partyTable{q: q, table: repository.CollectionSuppliers}}
}

func (r *SupplierRepo) Create(ctx context.Context, f *entity.Supplier) error {
	row := &partyRow{ID: f.ID, Name: f.Name, Phone: f.Phone, Email: f.Email, Address: f.Address, CreatedAt: f.CreatedAt}
	if err := r.t.create(ctx, row); err != nil {
		return err
	}
	f.ID, f.CreatedAt = row.ID, row.CreatedAt
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	row, err := r.t.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSupplier(row), nil
}

func (r *SupplierRepo) Update(ctx context.Context, f *entity.Supplier) error {
	return r.t.update(ctx, &partyRow{ID: f.ID, Name: f.Name, Phone: f.Phone, Email: f.Email, Address: f.Address})
}

func (r *SupplierRepo) List(ctx context.Context) ([]*entity.Supplier, error) {
	return r.list(ctx, nil)
}

func (r *SupplierRepo) ListByIDs(ctx context.Context, ids []string) ([]*entity.Supplier, error) {
	if len(ids) == 0 {
		return []*entity.Supplier{}, nil
	}
	return r.list(ctx, ids)
}

func (r *SupplierRepo) list(ctx context.Context, ids []string) ([]*entity.Supplier, error) {
	rows, err := r.t.list(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Supplier, 0, len(rows))
	for _, row := range rows {
		out = append(out, toSupplier(row))
	}
	return out, nil
}

func (r *SupplierRepo) Delete(ctx context.Context, id string) error {
	return r.t.delete(ctx, id)
}

func toSupplier(p *partyRow) *entity.Supplier {
	return &entity.Supplier{ID: p.ID, Name: p.Name, Phone: p.Phone, Email: p.Email, Address: p.Address, CreatedAt: p.CreatedAt}
}
