package ledger

import "github.com/jhoicas/boutique-ledger/internal/domain/entity"

// Vistas que el llamador debe volver a leer tras una operación.
const (
	ViewProducts      = "products"
	ViewMovements     = "movements"
	ViewDashboard     = "dashboard"
	ViewSales         = "sales"
	ViewClients       = "clients"
	ViewClientDebts   = "client_debts"
	ViewSupplierDebts = "supplier_debts"
	ViewSettlements   = "settlements"
)

func receiptRefresh(hasDebt bool) []string {
	views := []string{ViewProducts, ViewMovements, ViewDashboard}
	if hasDebt {
		views = append(views, ViewSupplierDebts)
	}
	return views
}

func saleRefresh(hasDebt, newClient bool) []string {
	views := []string{ViewProducts, ViewMovements, ViewDashboard, ViewSales}
	if newClient {
		views = append(views, ViewClients)
	}
	if hasDebt {
		views = append(views, ViewClientDebts)
	}
	return views
}

func settleRefresh(kind string) []string {
	if kind == entity.SettlementKindSupplier {
		return []string{ViewSupplierDebts, ViewMovements, ViewDashboard, ViewSettlements}
	}
	return []string{ViewClientDebts, ViewSales, ViewDashboard, ViewSettlements}
}
