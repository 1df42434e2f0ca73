package inventory

import "github.com/jhoicas/boutique-ledger/internal/domain/entity"

// DefaultAlertThreshold es el umbral de stock bajo de la tienda.
const DefaultAlertThreshold = 5

// Niveles de alerta de stock.
const (
	StockOut    = "out_of_stock" // cantidad = 0
	StockLow    = "low"          // 0 < cantidad <= umbral
	StockNormal = "normal"
)

// ClassifyStock clasifica una cantidad según el umbral. Cantidades negativas
// (deriva del agregado) se tratan como ruptura.
func ClassifyStock(quantity, threshold int) string {
	switch {
	case quantity <= 0:
		return StockOut
	case quantity <= threshold:
		return StockLow
	default:
		return StockNormal
	}
}

// StockAlert es un producto en alerta.
type StockAlert struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Level     string `json:"level"`
}

// StockAlerts devuelve los productos en ruptura o con stock bajo, en el orden recibido.
func StockAlerts(products []*entity.Product, threshold int) []StockAlert {
	alerts := make([]StockAlert, 0)
	for _, p := range products {
		level := ClassifyStock(p.Quantity, threshold)
		if level == StockNormal {
			continue
		}
		alerts = append(alerts, StockAlert{
			ProductID: p.ID,
			Name:      p.Label(),
			Quantity:  p.Quantity,
			Level:     level,
		})
	}
	return alerts
}
