package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/boutique-ledger/internal/domain/entity"
	"github.com/jhoicas/boutique-ledger/internal/domain/inventory"
)

func TestClassifyStock(t *testing.T) {
	cases := []struct {
		qty  int
		want string
	}{
		{0, inventory.StockOut},
		{1, inventory.StockLow},
		{5, inventory.StockLow},
		{6, inventory.StockNormal},
		{-2, inventory.StockOut},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, inventory.ClassifyStock(tc.qty, inventory.DefaultAlertThreshold), "cantidad %d", tc.qty)
	}
}

func TestStockAlerts_SoloProductosEnAlerta(t *testing.T) {
	products := []*entity.Product{
		{ID: "p1", Name: "Robe", Quantity: 0},
		{ID: "p2", Name: "Pagne", Quantity: 12},
		{ID: "p3", Reference: "REF-3", Quantity: 4},
	}
	alerts := inventory.StockAlerts(products, 5)
	require.Len(t, alerts, 2)
	assert.Equal(t, "p1", alerts[0].ProductID)
	assert.Equal(t, inventory.StockOut, alerts[0].Level)
	assert.Equal(t, "REF-3", alerts[1].Name, "sin nombre se usa la referencia")
	assert.Equal(t, inventory.StockLow, alerts[1].Level)
}
