package dto

import "github.com/shopspring/decimal"

// NewProductDTO producto desconocido recibido por primera vez.
type NewProductDTO struct {
	Name          string          `json:"name"`
	Reference     string          `json:"reference"`
	Category      string          `json:"category"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
}

// StockReceiptRequest cuerpo de POST /api/stock/receipts.
type StockReceiptRequest struct {
	ProductID   string          `json:"product_id"`
	NewProduct  *NewProductDTO  `json:"new_product"`
	Quantity    int             `json:"quantity"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	SupplierID  string          `json:"supplier_id"`
	Provenance  string          `json:"provenance"`
}

// ReceiptResponse resultado de una recepción.
type ReceiptResponse struct {
	MovementID     string          `json:"movement_id"`
	ProductID      string          `json:"product_id"`
	ProductCreated bool            `json:"product_created"`
	QuantityAfter  int             `json:"quantity_after"`
	Remaining      decimal.Decimal `json:"remaining"`
	Refresh        []string        `json:"refresh"`
}

// SaleLineDTO línea del carrito.
type SaleLineDTO struct {
	ProductID    string          `json:"product_id"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	UnitDiscount decimal.Decimal `json:"unit_discount"`
}

// SaleRequest cuerpo de POST /api/sales.
type SaleRequest struct {
	Lines       []SaleLineDTO   `json:"lines"`
	Discount    decimal.Decimal `json:"discount"`
	ClientID    string          `json:"client_id"`
	NewClient   *PartyRequest   `json:"new_client"`
	PaymentMode string          `json:"payment_mode"` // full | partial
	AmountPaid  decimal.Decimal `json:"amount_paid"`
}

// SaleLineOutcomeDTO efecto de una línea sobre el stock.
type SaleLineOutcomeDTO struct {
	LineID        string `json:"line_id"`
	ProductID     string `json:"product_id"`
	Quantity      int    `json:"quantity"`
	QuantityAfter int    `json:"quantity_after"`
	Clamped       bool   `json:"clamped"`
	MovementID    string `json:"movement_id"`
}

// SaleResponse resultado de una venta. Remaining null: la venta no es deuda.
type SaleResponse struct {
	SaleID        string               `json:"sale_id"`
	InvoiceNumber string               `json:"invoice_number"`
	ClientID      string               `json:"client_id,omitempty"`
	Total         decimal.Decimal      `json:"total"`
	Paid          decimal.Decimal      `json:"paid"`
	Remaining     *decimal.Decimal     `json:"remaining"`
	Lines         []SaleLineOutcomeDTO `json:"lines"`
	Refresh       []string             `json:"refresh"`
}

// SettleRequest cuerpo de POST /api/debts/:kind/:id/settlements.
type SettleRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// SettleResponse resultado de un pago.
type SettleResponse struct {
	Kind         string          `json:"kind"`
	TargetID     string          `json:"target_id"`
	SettlementID string          `json:"settlement_id"`
	NewPaid      decimal.Decimal `json:"new_paid"`
	NewRemaining decimal.Decimal `json:"new_remaining"`
	Refresh      []string        `json:"refresh"`
}
