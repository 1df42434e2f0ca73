package ledger_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/boutique-ledger/internal/application/ledger"
	"github.com/jhoicas/boutique-ledger/internal/domain"
	"github.com/jhoicas/boutique-ledger/internal/domain/entity"
	"github.com/jhoicas/boutique-ledger/internal/domain/repository"
	"github.com/jhoicas/boutique-ledger/internal/infrastructure/memory"
)

// creditSale crea una venta con restante 200 y pagado 0.
func creditSale(t *testing.T, svc *ledger.Service, st *memory.Store) string {
	t.Helper()
	p := seedProduct(t, st, "Robe", 10)
	res, err := svc.RecordSale(context.Background(), ledger.SaleInput{
		Lines:       []ledger.SaleLineInput{{ProductID: p.ID, Quantity: 1, UnitPrice: d(200)}},
		PaymentMode: ledger.PaymentPartial,
		AmountPaid:  d(0),
	})
	require.NoError(t, err)
	require.NotNil(t, res.Remaining)
	return res.SaleID
}

func TestSettleDebt_MontoCeroONegativoNoEscribe(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)
	saleID := creditSale(t, svc, st)

	for _, amount := range []int64{0, -50} {
		_, err := svc.SettleDebt(ctx, ledger.SettleInput{Kind: entity.SettlementKindClient, TargetID: saleID, Amount: d(amount)})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}

	rows, err := st.Settlements().List(ctx, entity.SettlementKindClient)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, 0, st.Calls(memory.OpUpdate, repository.CollectionSales))

	sale, err := st.Sales().GetByID(ctx, saleID)
	require.NoError(t, err)
	assert.True(t, d(200).Equal(*sale.Remaining))
}

func TestSettleDebt_TipoDesconocido(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.SettleDebt(context.Background(), ledger.SettleInput{Kind: "bank", TargetID: "x", Amount: d(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettleDebt_DosPagosSucesivos(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)
	saleID := creditSale(t, svc, st)

	_, err := svc.SettleDebt(ctx, ledger.SettleInput{Kind: entity.SettlementKindClient, TargetID: saleID, Amount: d(100)})
	require.NoError(t, err)
	res, err := svc.SettleDebt(ctx, ledger.SettleInput{Kind: entity.SettlementKindClient, TargetID: saleID, Amount: d(50)})
	require.NoError(t, err)
	assert.True(t, d(50).Equal(res.NewRemaining))
	assert.True(t, d(150).Equal(res.NewPaid))

	sale, err := st.Sales().GetByID(ctx, saleID)
	require.NoError(t, err)
	require.NotNil(t, sale.Remaining)
	assert.True(t, d(50).Equal(*sale.Remaining))
	assert.True(t, d(150).Equal(sale.PaidAmount))

	rows, err := st.Settlements().List(ctx, entity.SettlementKindClient)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	sum := rows[0].Amount.Add(rows[1].Amount)
	assert.True(t, d(150).Equal(sum))
	for _, r := range rows {
		assert.Equal(t, saleID, r.TargetID)
		assert.Equal(t, fixedNow, r.Date)
	}
}

func TestSettleDebt_SaldoEnCeroQuedaPresente(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)
	saleID := creditSale(t, svc, st)

	res, err := svc.SettleDebt(ctx, ledger.SettleInput{Kind: entity.SettlementKindClient, TargetID: saleID, Amount: d(300)})
	require.NoError(t, err)
	assert.True(t, res.NewRemaining.IsZero())
	assert.True(t, d(300).Equal(res.NewPaid))

	sale, err := st.Sales().GetByID(ctx, saleID)
	require.NoError(t, err)
	require.NotNil(t, sale.Remaining)
	assert.True(t, sale.Remaining.IsZero())
}

func TestSettleDebt_Proveedor(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)
	p := seedProduct(t, st, "Robe", 0)
	rec, err := svc.RecordStockReceipt(ctx, ledger.StockReceiptInput{
		ProductID: p.ID, Quantity: 2, TotalAmount: d(1000), PaidAmount: d(200),
	})
	require.NoError(t, err)

	res, err := svc.SettleDebt(ctx, ledger.SettleInput{Kind: entity.SettlementKindSupplier, TargetID: rec.MovementID, Amount: d(500)})
	require.NoError(t, err)
	assert.Contains(t, res.Refresh, ledger.ViewSupplierDebts)

	mov, err := st.Movements().GetByID(ctx, rec.MovementID)
	require.NoError(t, err)
	assert.True(t, d(700).Equal(mov.PaidAmount))
	assert.True(t, d(300).Equal(mov.RemainingAmount))

	rows, err := st.Settlements().List(ctx, entity.SettlementKindSupplier)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, rec.MovementID, rows[0].TargetID)
}

func TestSettleDebt_FallaElAgregadoQuedaPagoSinAgregado(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	svc, st := newService(t, ledger.WithLogger(zerolog.New(&buf)))
	saleID := creditSale(t, svc, st)
	st.FailOn(memory.OpUpdate, repository.CollectionSales, 0, domain.ErrUnavailable)

	_, err := svc.SettleDebt(ctx, ledger.SettleInput{Kind: entity.SettlementKindClient, TargetID: saleID, Amount: d(100)})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnavailable)

	var se *ledger.SagaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, ledger.StepUpdateAggregate, se.Step)
	assert.Equal(t, []string{ledger.StepReadTarget, ledger.StepAppendSettlement}, se.Completed)
	assert.True(t, se.Drift)
	assert.Contains(t, buf.String(), `"integrity_drift":true`)
	assert.Contains(t, buf.String(), `"failed_step":"update_aggregate"`)

	rows, err := st.Settlements().List(ctx, entity.SettlementKindClient)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	sale, err := st.Sales().GetByID(ctx, saleID)
	require.NoError(t, err)
	assert.True(t, d(200).Equal(*sale.Remaining))
}

func TestSettleDebt_FallaElRegistroQuedaAgregadoSinPago(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)
	saleID := creditSale(t, svc, st)
	st.FailOn(memory.OpCreate, repository.CollectionClientSettlements, 0, domain.ErrRejected)

	_, err := svc.SettleDebt(ctx, ledger.SettleInput{Kind: entity.SettlementKindClient, TargetID: saleID, Amount: d(100)})
	var se *ledger.SagaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, ledger.StepAppendSettlement, se.Step)
	assert.Equal(t, []string{ledger.StepReadTarget, ledger.StepUpdateAggregate}, se.Completed)
	assert.ErrorIs(t, err, domain.ErrRejected)

	sale, err := st.Sales().GetByID(ctx, saleID)
	require.NoError(t, err)
	assert.True(t, d(100).Equal(*sale.Remaining))
	rows, err := st.Settlements().List(ctx, entity.SettlementKindClient)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSettleDebt_FallanAmbasEscrituras(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)
	saleID := creditSale(t, svc, st)
	st.FailOn(memory.OpUpdate, repository.CollectionSales, 0, domain.ErrUnavailable)
	st.FailOn(memory.OpCreate, repository.CollectionClientSettlements, 0, domain.ErrRejected)

	_, err := svc.SettleDebt(ctx, ledger.SettleInput{Kind: entity.SettlementKindClient, TargetID: saleID, Amount: d(100)})
	var se *ledger.SagaError
	require.True(t, errors.As(err, &se))
	assert.False(t, se.Drift)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.ErrorIs(t, err, domain.ErrRejected)
}

func TestSettleDebt_DestinoInexistente(t *testing.T) {
	svc, st := newService(t)
	_, err := svc.SettleDebt(context.Background(), ledger.SettleInput{Kind: entity.SettlementKindClient, TargetID: "nope", Amount: d(10)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var se *ledger.SagaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, ledger.StepReadTarget, se.Step)
	assert.False(t, se.Drift)
	assert.Equal(t, 0, st.Calls(memory.OpCreate, repository.CollectionClientSettlements))
}
