package usecase

import (
	"context"

	"github.com/jhoicas/boutique-ledger/internal/application/dto"
	"github.com/jhoicas/boutique-ledger/internal/domain"
	"github.com/jhoicas/boutique-ledger/internal/domain/entity"
	"github.com/jhoicas/boutique-ledger/internal/domain/inventory"
	"github.com/jhoicas/boutique-ledger/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. La cantidad solo se fija al crear;
// después la mantienen las recepciones y las ventas.
type ProductUseCase struct {
	repo      repository.ProductRepository
	threshold int
}

// NewProductUseCase construye el caso de uso. threshold es el umbral de stock bajo.
func NewProductUseCase(repo repository.ProductRepository, threshold int) *ProductUseCase {
	if threshold <= 0 {
		threshold = inventory.DefaultAlertThreshold
	}
	return &ProductUseCase{repo: repo, threshold: threshold}
}

// Create crea un nuevo producto.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	product := &entity.Product{
		Name:          in.Name,
		Reference:     in.Reference,
		Category:      in.Category,
		PurchasePrice: in.PurchasePrice,
		SalePrice:     in.SalePrice,
		Quantity:      in.Quantity,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return uc.toResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(product), nil
}

// Update actualiza los datos descriptivos. No permite modificar la cantidad.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.PurchasePrice != nil && in.PurchasePrice.IsNegative() {
		return nil, domain.NewValidationError("UpdateProductRequest.PurchasePrice", "gte")
	}
	if in.SalePrice != nil && in.SalePrice.IsNegative() {
		return nil, domain.NewValidationError("UpdateProductRequest.SalePrice", "gte")
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Reference != nil {
		product.Reference = *in.Reference
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.PurchasePrice != nil {
		product.PurchasePrice = *in.PurchasePrice
	}
	if in.SalePrice != nil {
		product.SalePrice = *in.SalePrice
	}
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return uc.toResponse(product), nil
}

// Delete elimina un producto por ID.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// ToResponse adapta un producto de una vista a la salida HTTP.
func (uc *ProductUseCase) ToResponse(p *entity.Product) dto.ProductResponse {
	return *uc.toResponse(p)
}

func (uc *ProductUseCase) toResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Reference:     p.Reference,
		Category:      p.Category,
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		Quantity:      p.Quantity,
		StockLevel:    inventory.ClassifyStock(p.Quantity, uc.threshold),
		CreatedAt:     p.CreatedAt,
	}
}
