// Package ledger contiene las reglas de cálculo del libro de la tienda
// (saldos pendientes, totales de venta y piso de stock). Funciones puras.
package ledger

import "github.com/shopspring/decimal"

// Remaining devuelve max(0, total - paid).
func Remaining(total, paid decimal.Decimal) decimal.Decimal {
	r := total.Sub(paid)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// SaleRemaining aplica el centinela de ventas: nil cuando no queda deuda.
// Una venta a crédito que termina exactamente en 0 se representa igual que una venta al contado.
func SaleRemaining(total, paid decimal.Decimal) *decimal.Decimal {
	r := Remaining(total, paid)
	if !r.IsPositive() {
		return nil
	}
	return &r
}

// LineSubtotal calcula (unitPrice - unitDiscount) * quantity.
func LineSubtotal(unitPrice, unitDiscount decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Sub(unitDiscount).Mul(decimal.NewFromInt(int64(quantity)))
}

// SaleTotal devuelve max(0, Σ subtotales - discount).
func SaleTotal(subtotals []decimal.Decimal, discount decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range subtotals {
		sum = sum.Add(s)
	}
	t := sum.Sub(discount)
	if t.IsNegative() {
		return decimal.Zero
	}
	return t
}

// ApplyPayment calcula el nuevo agregado tras un pago:
// newPaid = paid + amount, newRemaining = max(0, remaining - amount).
func ApplyPayment(paid, remaining, amount decimal.Decimal) (newPaid, newRemaining decimal.Decimal) {
	newPaid = paid.Add(amount)
	newRemaining = remaining.Sub(amount)
	if newRemaining.IsNegative() {
		newRemaining = decimal.Zero
	}
	return newPaid, newRemaining
}

// DecrementStock resta quantity de current con piso en cero.
// clamped indica que la cantidad pedida superaba el stock leído.
func DecrementStock(current, quantity int) (next int, clamped bool) {
	next = current - quantity
	if next < 0 {
		return 0, true
	}
	return next, false
}
