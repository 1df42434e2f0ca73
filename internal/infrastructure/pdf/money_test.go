package pdf

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMoney_FormatoFrances(t *testing.T) {
	g := NewMarotoPDFGenerator()
	assert.Equal(t, "1 234 567", g.money(decimal.NewFromInt(1234567)))
	assert.Equal(t, "500", g.money(decimal.NewFromInt(500)))
	assert.Equal(t, "1 234,50", g.money(decimal.RequireFromString("1234.5")))
}
