package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un artículo de la tienda (colección produits).
// Quantity es un agregado mantenido por incrementos/decrementos del orquestador,
// no el libro autoritativo: puede divergir de la suma de movimientos.
type Product struct {
	ID            string
	Name          string
	Reference     string // opcional
	Category      string // opcional
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	Quantity      int
	CreatedAt     time.Time
}

// Label devuelve el nombre visible del producto (nombre, referencia o id).
func (p *Product) Label() string {
	if p.Name != "" {
		return p.Name
	}
	if p.Reference != "" {
		return p.Reference
	}
	return p.ID
}
