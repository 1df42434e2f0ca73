package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento (valores tal como se guardan en mouvements.type).
const (
	MovementKindEntry = "entree" // recepción de mercancía, cantidad positiva
	MovementKindExit  = "sortie" // salida por venta, cantidad negativa
)

// StockMovement representa un cambio de stock registrado para un producto.
// RemainingAmount siempre está presente (0 = saldado), a diferencia de Sale.Remaining.
type StockMovement struct {
	ID              string
	ProductID       string
	Kind            string
	Quantity        int // con signo
	Date            time.Time
	Motif           string
	Provenance      string
	SupplierID      string // vacío si no hay proveedor
	TotalAmount     decimal.Decimal
	PaidAmount      decimal.Decimal
	RemainingAmount decimal.Decimal
}

// IsEntry indica si el movimiento es una recepción.
func (m *StockMovement) IsEntry() bool { return m.Kind == MovementKindEntry }
