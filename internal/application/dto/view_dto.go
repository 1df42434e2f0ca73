package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementResponse movimiento con nombres resueltos.
type MovementResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Kind         string          `json:"kind"`
	Quantity     int             `json:"quantity"`
	Date         time.Time       `json:"date"`
	Motif        string          `json:"motif,omitempty"`
	Provenance   string          `json:"provenance,omitempty"`
	SupplierID   string          `json:"supplier_id,omitempty"`
	SupplierName string          `json:"supplier_name,omitempty"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
	Remaining    decimal.Decimal `json:"remaining"`
}

// SaleSummaryResponse venta en el listado.
type SaleSummaryResponse struct {
	ID            string           `json:"id"`
	InvoiceNumber string           `json:"invoice_number"`
	ClientID      string           `json:"client_id,omitempty"`
	ClientName    string           `json:"client_name,omitempty"`
	Total         decimal.Decimal  `json:"total"`
	Discount      decimal.Decimal  `json:"discount"`
	Paid          decimal.Decimal  `json:"paid"`
	Remaining     *decimal.Decimal `json:"remaining"`
	CreatedAt     time.Time        `json:"created_at"`
}

// DebtResponse línea del libro de deudas (cliente o proveedor).
type DebtResponse struct {
	TargetID  string          `json:"target_id"` // venta o movimiento
	PartyID   string          `json:"party_id,omitempty"`
	PartyName string          `json:"party_name"`
	Reference string          `json:"reference,omitempty"` // número de factura o producto
	Total     decimal.Decimal `json:"total"`
	Paid      decimal.Decimal `json:"paid"`
	Remaining decimal.Decimal `json:"remaining"`
	Open      bool            `json:"open"`
	Date      time.Time       `json:"date"`
}

// StockAlertDTO producto en ruptura o con stock bajo.
type StockAlertDTO struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Level     string `json:"level"`
}

// DashboardResponse indicadores del tablero.
type DashboardResponse struct {
	Period       string          `json:"period"`
	ProductCount int             `json:"product_count"`
	StockTotal   int             `json:"stock_total"`
	StockValue   decimal.Decimal `json:"stock_value"`
	Revenue      decimal.Decimal `json:"revenue"`
	SaleCount    int             `json:"sale_count"`
	ClientDebt   decimal.Decimal `json:"client_debt"`
	SupplierDebt decimal.Decimal `json:"supplier_debt"`
	SupplierPaid decimal.Decimal `json:"supplier_paid"`
	Alerts       []StockAlertDTO `json:"alerts"`
	Meta         SnapshotMeta    `json:"meta"`
}
