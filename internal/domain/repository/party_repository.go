package repository

import (
	"context"

	"github.com/jhoicas/boutique-ledger/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para clientes.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	List(ctx context.Context) ([]*entity.Client, error)
	ListByIDs(ctx context.Context, ids []string) ([]*entity.Client, error)
	Delete(ctx context.Context, id string) error
}

// SupplierRepository define el puerto de persistencia para proveedores.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	List(ctx context.Context) ([]*entity.Supplier, error)
	ListByIDs(ctx context.Context, ids []string) ([]*entity.Supplier, error)
	Delete(ctx context.Context, id string) error
}
