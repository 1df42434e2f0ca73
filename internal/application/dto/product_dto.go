package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. La cantidad solo se fija aquí;
// después cambia únicamente por recepciones y ventas.
type CreateProductRequest struct {
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	Reference     string          `json:"reference" validate:"max=64"`
	Category      string          `json:"category" validate:"max=64"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"gte=0"`
	SalePrice     decimal.Decimal `json:"sale_price" validate:"gte=0"`
	Quantity      int             `json:"quantity" validate:"gte=0"`
}

// UpdateProductRequest entrada para actualizar un producto (sin cantidad).
type UpdateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Reference     *string          `json:"reference" validate:"omitempty,max=64"`
	Category      *string          `json:"category" validate:"omitempty,max=64"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Reference     string          `json:"reference,omitempty"`
	Category      string          `json:"category,omitempty"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Quantity      int             `json:"quantity"`
	StockLevel    string          `json:"stock_level"`
	CreatedAt     time.Time       `json:"created_at"`
}

// DriftResponse comparación entre stock y movimientos.
type DriftResponse struct {
	ProductID   string `json:"product_id"`
	Quantity    int    `json:"quantity"`
	MovementSum int    `json:"movement_sum"`
	Delta       int    `json:"delta"`
	Movements   int    `json:"movements"`
	Drifted     bool   `json:"drifted"`
}
