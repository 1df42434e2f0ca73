package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/boutique-ledger/internal/application/ledger"
	"github.com/jhoicas/boutique-ledger/internal/domain"
	"github.com/jhoicas/boutique-ledger/internal/domain/entity"
	"github.com/jhoicas/boutique-ledger/internal/domain/repository"
	"github.com/jhoicas/boutique-ledger/internal/infrastructure/memory"
)

func TestRecordStockReceipt_IncrementaStockYCalculaRestante(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)
	p := seedProduct(t, st, "Robe", 4)

	cases := []struct {
		total, paid, remaining int64
	}{
		{10000, 4000, 6000},
		{5000, 5000, 0},
		{3000, 4500, 0},
	}
	before := 4
	for _, tc := range cases {
		res, err := svc.RecordStockReceipt(ctx, ledger.StockReceiptInput{
			ProductID:   p.ID,
			Quantity:    3,
			TotalAmount: d(tc.total),
			PaidAmount:  d(tc.paid),
			Provenance:  "Dakar",
		})
		require.NoError(t, err)
		assert.Equal(t, before+3, res.QuantityAfter)
		assert.Equal(t, before+3, quantityOf(t, st, p.ID))
		assert.True(t, d(tc.remaining).Equal(res.Remaining))

		mov, err := st.Movements().GetByID(ctx, res.MovementID)
		require.NoError(t, err)
		assert.Equal(t, entity.MovementKindEntry, mov.Kind)
		assert.Equal(t, 3, mov.Quantity)
		assert.Equal(t, "Dakar", mov.Motif)
		assert.True(t, d(tc.remaining).Equal(mov.RemainingAmount))
		before += 3
	}
}

func TestRecordStockReceipt_ProductoNuevoIniciaEnCero(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)

	res, err := svc.RecordStockReceipt(ctx, ledger.StockReceiptInput{
		NewProduct:  &ledger.NewProductSpec{Name: "Sac", PurchasePrice: d(1000), SalePrice: d(2500)},
		Quantity:    6,
		TotalAmount: d(6000),
		PaidAmount:  d(6000),
	})
	require.NoError(t, err)
	assert.True(t, res.ProductCreated)
	assert.Equal(t, 6, quantityOf(t, st, res.ProductID))
	assert.Equal(t, 1, st.Calls(memory.OpCreate, repository.CollectionProducts))
	assert.NotContains(t, res.Refresh, ledger.ViewSupplierDebts)
}

func TestRecordStockReceipt_RefrescaDeudasSoloConRestante(t *testing.T) {
	n := &recordingNotifier{}
	svc, st := newService(t, ledger.WithNotifier(n))
	p := seedProduct(t, st, "Robe", 0)

	res, err := svc.RecordStockReceipt(context.Background(), ledger.StockReceiptInput{
		ProductID: p.ID, Quantity: 1, TotalAmount: d(100), PaidAmount: d(40),
	})
	require.NoError(t, err)
	assert.Contains(t, res.Refresh, ledger.ViewSupplierDebts)
	require.Len(t, n.calls, 1)
	assert.Equal(t, res.Refresh, n.calls[0])
}

func TestRecordStockReceipt_ValidacionAntesDeEscribir(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)
	p := seedProduct(t, st, "Robe", 0)

	inputs := map[string]ledger.StockReceiptInput{
		"cantidad cero":      {ProductID: p.ID, Quantity: 0},
		"monto negativo":     {ProductID: p.ID, Quantity: 1, TotalAmount: d(-1)},
		"sin producto":       {Quantity: 1},
		"producto y nuevo":   {ProductID: p.ID, NewProduct: &ledger.NewProductSpec{Name: "X"}, Quantity: 1},
		"nuevo sin nombre":   {NewProduct: &ledger.NewProductSpec{}, Quantity: 1},
		"pagado negativo":    {ProductID: p.ID, Quantity: 1, PaidAmount: d(-5)},
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := svc.RecordStockReceipt(ctx, in)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.True(t, ledger.IsValidation(err))
		})
	}
	assert.Equal(t, 0, st.Calls(memory.OpCreate, repository.CollectionMovements))
	assert.Equal(t, 0, st.Calls(memory.OpUpdate, repository.CollectionProducts))
}

func TestRecordStockReceipt_FalloDelMovimientoDejaProductoHuerfano(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)
	st.FailOn(memory.OpCreate, repository.CollectionMovements, 1, domain.ErrUnavailable)

	_, err := svc.RecordStockReceipt(ctx, ledger.StockReceiptInput{
		NewProduct: &ledger.NewProductSpec{Name: "Sac"},
		Quantity:   2,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnavailable)

	var se *ledger.SagaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, ledger.SagaStockReceipt, se.Saga)
	assert.Equal(t, ledger.StepCreateMovement, se.Step)
	assert.Equal(t, []string{ledger.StepCreateProduct}, se.Completed)
	assert.Equal(t, ledger.StepCreateProduct, se.LastCompleted())
	assert.True(t, se.Drift)

	products, err := st.Products().List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 0, products[0].Quantity)
}

func TestRecordStockReceipt_FalloDelIncrementoEsDerivaDetectable(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)
	p := seedProduct(t, st, "Robe", 0)
	st.FailOn(memory.OpUpdate, repository.CollectionProducts, 1, domain.ErrUnavailable)

	_, err := svc.RecordStockReceipt(ctx, ledger.StockReceiptInput{ProductID: p.ID, Quantity: 5})
	var se *ledger.SagaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, ledger.StepIncrementStock, se.Step)
	assert.Equal(t, []string{ledger.StepCreateMovement, ledger.StepReadProduct}, se.Completed)
	assert.Equal(t, 0, quantityOf(t, st, p.ID))

	report, err := svc.CheckDrift(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, report.Drifted())
	assert.Equal(t, 5, report.MovementSum)
	assert.Equal(t, -5, report.Delta)
}

func TestRecordStockReceipt_ProductoInexistente(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.RecordStockReceipt(context.Background(), ledger.StockReceiptInput{ProductID: "nope", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var se *ledger.SagaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, ledger.StepReadProduct, se.Step)
}
