package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale representa una venta cerrada (colección ventes).
//
// Remaining nil es el centinela "no es una deuda": se usa tanto para ventas al
// contado como para ventas a crédito cuyo saldo al crearse es 0. Una deuda
// saldada por pagos posteriores conserva Remaining presente con valor 0.
type Sale struct {
	ID            string
	ClientID      string // vacío si la venta no tiene cliente
	InvoiceNumber string
	Total         decimal.Decimal
	Discount      decimal.Decimal
	PaidAmount    decimal.Decimal
	Remaining     *decimal.Decimal
	CreatedAt     time.Time
}

// IsDebt indica si la venta figura en el libro de deudas de clientes.
func (s *Sale) IsDebt() bool { return s.Remaining != nil }

// Outstanding devuelve el saldo pendiente, 0 si la venta no es deuda.
func (s *Sale) Outstanding() decimal.Decimal {
	if s.Remaining == nil {
		return decimal.Zero
	}
	return *s.Remaining
}

// SaleLine es una línea inmutable de una venta (colección ventes_lignes).
type SaleLine struct {
	ID           string
	SaleID       string
	ProductID    string
	Quantity     int
	UnitPrice    decimal.Decimal
	UnitDiscount decimal.Decimal
	Subtotal     decimal.Decimal // (UnitPrice - UnitDiscount) * Quantity
}
