package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/boutique-ledger/internal/domain"
	"github.com/jhoicas/boutique-ledger/internal/domain/entity"
	"github.com/jhoicas/boutique-ledger/internal/domain/repository"
)

var (
	_ repository.ProductRepository       = (*ProductRepo)(nil)
	_ repository.StockMovementRepository = (*MovementRepo)(nil)
	_ repository.SaleRepository          = (*SaleRepo)(nil)
	_ repository.SaleLineRepository      = (*SaleLineRepo)(nil)
	_ repository.ClientRepository        = (*ClientRepo)(nil)
	_ repository.SupplierRepository      = (*SupplierRepo)(nil)
	_ repository.SettlementRepository    = (*SettlementRepo)(nil)
)

// ── Productos ────────────────────────────────────────────────────────────────

// ProductRepo adaptador en memoria de ProductRepository.
type ProductRepo struct{ s *Store }

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(ctx, OpCreate, repository.CollectionProducts); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = newID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = r.s.now()
	}
	cp := *p
	r.s.products = append(r.s.products, &cp)
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(ctx, OpGet, repository.CollectionProducts); err != nil {
		return nil, err
	}
	for _, p := range r.s.products {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(ctx, OpUpdate, repository.CollectionProducts); err != nil {
		return err
	}
	for _, cur := range r.s.products {
		if cur.ID == p.ID {
			cur.Name = p.Name
			cur.Reference = p.Reference
			cur.Category = p.Category
			cur.PurchasePrice = p.PurchasePrice
			cur.SalePrice = p.SalePrice
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *ProductRepo) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(ctx, OpUpdate, repository.CollectionProducts); err != nil {
		return err
	}
	for _, cur := range r.s.products {
		if cur.ID == id {
			cur.Quantity = quantity
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	return r.list(ctx, nil)
}

func (r *ProductRepo) ListByIDs(ctx context.Context, ids []string) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return []*entity.Product{}, nil
	}
	return r.list(ctx, ids)
}

func (r *ProductRepo) list(ctx context.Context, ids []string) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(ctx, OpList, repository.CollectionProducts); err != nil {
		return nil, err
	}
	out := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		if ids != nil && !containsID(ids, p.ID) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(ctx, OpDelete, repository.CollectionProducts); err != nil {
		return err
	}
	for i, p := range r.s.products {
		if p.ID == id {
			r.s.products = append(r.s.products[:i], r.s.products[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// ── Movimientos ──────────────────────────────────────────────────────────────

// MovementRepo adaptador en memoria de StockMovementRepository.
type MovementRepo struct{ s *Store }

func (r *MovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(ctx, OpCreate, repository.CollectionMovements); err != nil {
		return err
	}
	if m.ID == "" {
		m.ID = newID()
	}
	if m.Date.IsZero() {
		m.Date = r.s.now()
	}
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(ctx, OpGet, repository.CollectionMovements); err != nil {
		return nil, err
	}
	for _, m := range r.s.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MovementRepo) UpdatePayment(ctx context.Context, id string, paid, remaining decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(ctx, OpUpdate, repository.CollectionMovements); err != nil {
		return err
	}
	for _, m := range r.s.movements {
		if m.ID == id {
			m.PaidAmount = paid
			m.RemainingAmount = remaining
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *MovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(ctx, OpList, repository.CollectionMovements); err != nil {
		return nil, err
	}
	out := make([]*entity.StockMovement, 0, len(r.s.movements))
	for _, m := range r.s.movements {
		if filter.Kind != "" && m.Kind != filter.Kind {
			continue
		}
		if filter.ProductID != "" && m.ProductID != filter.ProductID {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sortMovements(out)
	return out, nil
}

func (r *MovementRepo) ListByIDs(ctx context.Context, ids []string) ([]*entity.StockMovement, error) {
	if len(ids) == 0 {
		return []*entity.StockMovement{}, nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(ctx, OpList, repository.CollectionMovements); err != nil {
		return nil, err
	}
	out := make([]*entity.StockMovement, 0, len(ids))
	for _, m := range r.s.movements {
		if containsID(ids, m.ID) {
			cp := *m
			out = append(out, &cp)
		}
	}
	sortMovements(out)
	return out, nil
}

// sortMovements ordena por fecha descendente; a igual fecha, el más reciente insertado primero.
func sortMovements(list []*entity.StockMovement) {
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
}

// ── Ventas ───────────────────────────────────────────────────────────────────

// SaleRepo adaptador en memoria de SaleRepository.
type SaleRepo struct{ s *Store }

func cloneSale(v *entity.Sale) *entity.Sale {
	cp := *v
	if v.Remaining != nil {
		rem := *v.Remaining
		cp.Remaining = &rem
	}
	return &cp
}

func (r *SaleRepo) Create(ctx context.Context, v *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(ctx, OpCreate, repository.CollectionSales); err != nil {
		return err
	}
	if v.ID == "" {
		v.ID = newID()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = r.s.now()
	}
	r.s.sales = append(r.s.sales, cloneSale(v))
	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(ctx, OpGet, repository.CollectionSales); err != nil {
		return nil, err
	}
	for _, v := range r.s.sales {
		if v.ID == id {
			return cloneSale(v), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *SaleRepo) UpdatePayment(ctx context.Context, id string, paid decimal.Decimal, remaining *decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(ctx, OpUpdate, repository.CollectionSales); err != nil {
		return err
	}
	for _, v := range r.s.sales {
		if v.ID == id {
			v.PaidAmount = paid
			v.Remaining = nil
			if remaining != nil {
				rem := *remaining
				v.Remaining = &rem
			}
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *SaleRepo) List(ctx context.Context) ([]*entity.Sale, error) {
	return r.list(ctx, nil)
}

func (r *SaleRepo) ListByIDs(ctx context.Context, ids []string) ([]*entity.Sale, error) {
	if len(ids) == 0 {
		return []*entity.Sale{}, nil
	}
	return r.list(ctx, ids)
}

func (r *SaleRepo) list(ctx context.Context, ids []string) ([]*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(ctx, OpList, repository.CollectionSales); err != nil {
		return nil, err
	}
	out := make([]*entity.Sale, 0, len(r.s.sales))
	for i := len(r.s.sales) - 1; i >= 0; i-- {
		v := r.s.sales[i]
		if ids != nil && !containsID(ids, v.ID) {
			continue
		}
		out = append(out, cloneSale(v))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// SaleLineRepo adaptador en memoria de SaleLineRepository.
type SaleLineRepo struct{ s *Store }

func (r *SaleLineRepo) Create(ctx context.Context, l *entity.SaleLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(ctx, OpCreate, repository.CollectionSaleLines); err != nil {
		return err
	}
	if l.ID == "" {
		l.ID = newID()
	}
	cp := *l
	r.s.lines = append(r.s.lines, &cp)
	return nil
}

func (r *SaleLineRepo) ListBySale(ctx context.Context, saleID string) ([]*entity.SaleLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(ctx, OpList, repository.CollectionSaleLines); err != nil {
		return nil, err
	}
	out := make([]*entity.SaleLine, 0)
	for _, l := range r.s.lines {
		if l.SaleID == saleID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ── Clientes y proveedores ───────────────────────────────────────────────────

// ClientRepo adaptador en memoria de ClientRepository.
type ClientRepo struct{ s *Store }

func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(ctx, OpCreate, repository.CollectionClients); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = newID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = r.s.now()
	}
	cp := *c
	r.s.clients = append(r.s.clients, &cp)
	return nil
}

func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(ctx, OpGet, repository.CollectionClients); err != nil {
		return nil, err
	}
	for _, c := range r.s.clients {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(ctx, OpUpdate, repository.CollectionClients); err != nil {
		return err
	}
	for _, cur := range r.s.clients {
		if cur.ID == c.ID {
			cur.Name, cur.Phone, cur.Email, cur.Address = c.Name, c.Phone, c.Email, c.Address
			return nil
		}
	}
	return domain.ErrNotFound
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
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(ctx, OpList, repository.CollectionClients); err != nil {
		return nil, err
	}
	out := make([]*entity.Client, 0, len(r.s.clients))
	for _, c := range r.s.clients {
		if ids != nil && !containsID(ids, c.ID) {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(ctx, OpDelete, repository.CollectionClients); err != nil {
		return err
	}
	for i, c := range r.s.clients {
		if c.ID == id {
			r.s.clients = append(r.s.clients[:i], r.s.clients[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// SupplierRepo adaptador en memoria de SupplierRepository.
type SupplierRepo struct{ s *Store }

func (r *SupplierRepo) Create(ctx context.Context, f *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(ctx, OpCreate, repository.CollectionSuppliers); err != nil {
		return err
	}
	if f.ID == "" {
		f.ID = newID()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = r.s.now()
	}
	cp := *f
	r.s.suppliers = append(r.s.suppliers, &cp)
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(ctx, OpGet, repository.CollectionSuppliers); err != nil {
		return nil, err
	}
	for _, f := range r.s.suppliers {
		if f.ID == id {
			cp := *f
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *SupplierRepo) Update(ctx context.Context, f *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(ctx, OpUpdate, repository.CollectionSuppliers); err != nil {
		return err
	}
	for _, cur := range r.s.suppliers {
		if cur.ID == f.ID {
			cur.Name, cur.Phone, cur.Email, cur.Address = f.Name, f.Phone, f.Email, f.Address
			return nil
		}
	}
	return domain.ErrNotFound
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
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(ctx, OpList, repository.CollectionSuppliers); err != nil {
		return nil, err
	}
	out := make([]*entity.Supplier, 0, len(r.s.suppliers))
	for _, f := range r.s.suppliers {
		if ids != nil && !containsID(ids, f.ID) {
			continue
		}
		cp := *f
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *SupplierRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(ctx, OpDelete, repository.CollectionSuppliers); err != nil {
		return err
	}
	for i, f := range r.s.suppliers {
		if f.ID == id {
			r.s.suppliers = append(r.s.suppliers[:i], r.s.suppliers[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// ── Pagos ────────────────────────────────────────────────────────────────────

// SettlementRepo adaptador en memoria de SettlementRepository.
type SettlementRepo struct{ s *Store }

func (r *SettlementRepo) Create(ctx context.Context, st *entity.Settlement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	collection := repository.SettlementCollection(st.Kind)
	if err := r.s.enter(ctx, OpCreate, collection); err != nil {
		return err
	}
	if st.ID == "" {
		st.ID = newID()
	}
	if st.Date.IsZero() {
		st.Date = r.s.now()
	}
	cp := *st
	r.s.settlements[collection] = append(r.s.settlements[collection], &cp)
	return nil
}

func (r *SettlementRepo) List(ctx context.Context, kind string) ([]*entity.Settlement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	collection := repository.SettlementCollection(kind)
	if err := r.s.enter(ctx, OpList, collection); err != nil {
		return nil, err
	}
	rows := r.s.settlements[collection]
	out := make([]*entity.Settlement, 0, len(rows))
	for _, st := range rows {
		cp := *st
		out = append(out, &cp)
	}
	return out, nil
}
