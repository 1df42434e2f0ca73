package repository

import "github.com/jhoicas/boutique-ledger/internal/domain/entity"

// Nombres de las colecciones del almacén remoto.
const (
	CollectionProducts            = "produits"
	CollectionMovements           = "mouvements"
	CollectionSales               = "ventes"
	CollectionSaleLines           = "ventes_lignes"
	CollectionClients             = "clients"
	CollectionSuppliers           = "fournisseurs"
	CollectionClientSettlements   = "reglements_clients"
	CollectionSupplierSettlements = "reglements_fournisseurs"
)

// SettlementCollection devuelve la colección de pagos para el lado de la deuda.
func SettlementCollection(kind string) string {
	if kind == entity.SettlementKindSupplier {
		return CollectionSupplierSettlements
	}
	return CollectionClientSettlements
}
