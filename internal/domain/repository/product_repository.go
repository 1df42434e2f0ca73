package repository

import (
	"context"

	"github.com/jhoicas/boutique-ledger/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (colección produits).
// Cada método es una operación independiente sobre el almacén: sin transacción.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// Update modifica los datos descriptivos; nunca toca Quantity.
	Update(ctx context.Context, product *entity.Product) error
	// UpdateQuantity escribe la cantidad absoluta (sin compare-and-swap).
	UpdateQuantity(ctx context.Context, id string, quantity int) error
	List(ctx context.Context) ([]*entity.Product, error)
	ListByIDs(ctx context.Context, ids []string) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
}
