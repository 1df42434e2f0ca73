package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lados de una deuda.
const (
	SettlementKindClient   = "client"   // el cliente paga a la tienda (reglements_clients)
	SettlementKindSupplier = "supplier" // la tienda paga al proveedor (reglements_fournisseurs)
)

// Settlement es un pago parcial o total de una deuda. Solo se agregan, nunca se modifican.
// TargetID es el id de la venta (client) o del movimiento de entrada (supplier).
type Settlement struct {
	ID       string
	Kind     string
	TargetID string
	Amount   decimal.Decimal
	Date     time.Time
}
