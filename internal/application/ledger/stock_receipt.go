package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/boutique-ledger/internal/domain/entity"
	amounts "github.com/jhoicas/boutique-ledger/internal/domain/ledger"
)

// Pasos de la recepción.
const (
	StepCreateProduct  = "create_product"
	StepCreateMovement = "create_movement"
	StepReadProduct    = "read_product"
	StepIncrementStock = "increment_stock"
)

// NewProductSpec datos de un producto desconocido creado durante la recepción (cantidad 0).
type NewProductSpec struct {
	Name          string          `validate:"required"`
	Reference     string          `validate:"omitempty,max=64"`
	Category      string          `validate:"omitempty,max=64"`
	PurchasePrice decimal.Decimal `validate:"gte=0"`
	SalePrice     decimal.Decimal `validate:"gte=0"`
}

// StockReceiptInput entrada de recordStockReceipt: producto existente o nuevo, nunca ambos.
type StockReceiptInput struct {
	ProductID   string          `validate:"required_without=NewProduct,excluded_with=NewProduct"`
	NewProduct  *NewProductSpec `validate:"omitempty"`
	Quantity    int             `validate:"gte=1"`
	TotalAmount decimal.Decimal `validate:"gte=0"`
	PaidAmount  decimal.Decimal `validate:"gte=0"`
	SupplierID  string
	Provenance  string
}

// ReceiptResult resultado de una recepción aplicada por completo.
type ReceiptResult struct {
	MovementID     string
	ProductID      string
	ProductCreated bool
	QuantityAfter  int
	Remaining      decimal.Decimal
	Refresh        []string
}

// RecordStockReceipt registra mercancía recibida:
// create_product? → create_movement → read_product → increment_stock.
//
// Si falla create_movement tras crear el producto, queda un producto huérfano con stock 0.
// Si falla el incremento, queda el movimiento sin su efecto en stock (deriva detectable con CheckDrift).
func (s *Service) RecordStockReceipt(ctx context.Context, in StockReceiptInput) (*ReceiptResult, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	g := s.begin(SagaStockReceipt, map[string]any{"product_id": in.ProductID, "quantity": in.Quantity})
	res := &ReceiptResult{ProductID: in.ProductID}

	if in.NewProduct != nil {
		p := &entity.Product{
			Name:          in.NewProduct.Name,
			Reference:     in.NewProduct.Reference,
			Category:      in.NewProduct.Category,
			PurchasePrice: in.NewProduct.PurchasePrice,
			SalePrice:     in.NewProduct.SalePrice,
			Quantity:      0,
		}
		if err := g.write(StepCreateProduct, func() error { return s.repos.Products.Create(ctx, p) }); err != nil {
			return nil, err
		}
		res.ProductID = p.ID
		res.ProductCreated = true
	}

	unlock := s.locks.Lock(productKey(res.ProductID))
	defer unlock()

	remaining := amounts.Remaining(in.TotalAmount, in.PaidAmount)
	mov := &entity.StockMovement{
		ProductID:       res.ProductID,
		Kind:            entity.MovementKindEntry,
		Quantity:        in.Quantity,
		Motif:           in.Provenance,
		Provenance:      in.Provenance,
		SupplierID:      in.SupplierID,
		TotalAmount:     in.TotalAmount,
		PaidAmount:      in.PaidAmount,
		RemainingAmount: remaining,
	}
	if err := g.write(StepCreateMovement, func() error { return s.repos.Movements.Create(ctx, mov) }); err != nil {
		return nil, err
	}
	res.MovementID = mov.ID
	res.Remaining = remaining

	var current *entity.Product
	if err := g.read(StepReadProduct, func() (err error) {
		current, err = s.repos.Products.GetByID(ctx, res.ProductID)
		return err
	}); err != nil {
		return nil, err
	}

	next := current.Quantity + in.Quantity
	if err := g.write(StepIncrementStock, func() error {
		return s.repos.Products.UpdateQuantity(ctx, res.ProductID, next)
	}); err != nil {
		return nil, err
	}
	res.QuantityAfter = next
	res.Refresh = receiptRefresh(remaining.IsPositive())

	g.finish()
	s.notify(res.Refresh)
	return res, nil
}
