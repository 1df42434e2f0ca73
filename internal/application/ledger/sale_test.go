package ledger_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/boutique-ledger/internal/application/ledger"
	"github.com/jhoicas/boutique-ledger/internal/domain"
	"github.com/jhoicas/boutique-ledger/internal/domain/entity"
	"github.com/jhoicas/boutique-ledger/internal/domain/repository"
	"github.com/jhoicas/boutique-ledger/internal/infrastructure/memory"
)

func TestRecordSale_PagoCompletoNoEsDeuda(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)
	p := seedProduct(t, st, "Robe", 10)

	res, err := svc.RecordSale(ctx, ledger.SaleInput{
		Lines:       []ledger.SaleLineInput{{ProductID: p.ID, Quantity: 2, UnitPrice: d(500)}},
		Discount:    d(200),
		PaymentMode: ledger.PaymentFull,
	})
	require.NoError(t, err)
	assert.True(t, d(800).Equal(res.Total))
	assert.True(t, d(800).Equal(res.Paid))
	assert.Nil(t, res.Remaining)
	assert.True(t, strings.HasPrefix(res.InvoiceNumber, "FAC-"))
	assert.NotContains(t, res.Refresh, ledger.ViewClientDebts)

	sale, err := st.Sales().GetByID(ctx, res.SaleID)
	require.NoError(t, err)
	assert.False(t, sale.IsDebt())

	exits, err := st.Movements().List(ctx, repository.MovementFilter{Kind: entity.MovementKindExit})
	require.NoError(t, err)
	require.Len(t, exits, 1)
	assert.Equal(t, -2, exits[0].Quantity)
	assert.Equal(t, "Vente "+res.InvoiceNumber, exits[0].Motif)
	assert.True(t, exits[0].RemainingAmount.IsZero())
	assert.Equal(t, 8, quantityOf(t, st, p.ID))

	lines, err := st.SaleLines().ListBySale(ctx, res.SaleID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, d(1000).Equal(lines[0].Subtotal))
}

func TestRecordSale_PagoParcialDejaRestante(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)
	p := seedProduct(t, st, "Robe", 10)

	res, err := svc.RecordSale(ctx, ledger.SaleInput{
		Lines:       []ledger.SaleLineInput{{ProductID: p.ID, Quantity: 2, UnitPrice: d(500)}},
		Discount:    d(200),
		PaymentMode: ledger.PaymentPartial,
		AmountPaid:  d(300),
	})
	require.NoError(t, err)
	require.NotNil(t, res.Remaining)
	assert.True(t, d(500).Equal(*res.Remaining))
	assert.Contains(t, res.Refresh, ledger.ViewClientDebts)

	sale, err := st.Sales().GetByID(ctx, res.SaleID)
	require.NoError(t, err)
	require.NotNil(t, sale.Remaining)
	assert.True(t, d(500).Equal(*sale.Remaining))
}

func TestRecordSale_ParcialQueCubreElTotalUsaCentinela(t *testing.T) {
	svc, st := newService(t)
	p := seedProduct(t, st, "Robe", 10)

	res, err := svc.RecordSale(context.Background(), ledger.SaleInput{
		Lines:       []ledger.SaleLineInput{{ProductID: p.ID, Quantity: 1, UnitPrice: d(500)}},
		PaymentMode: ledger.PaymentPartial,
		AmountPaid:  d(500),
	})
	require.NoError(t, err)
	assert.Nil(t, res.Remaining)
}

func TestRecordSale_DescuentoMayorQueSubtotalDaTotalCero(t *testing.T) {
	svc, st := newService(t)
	p := seedProduct(t, st, "Robe", 10)

	res, err := svc.RecordSale(context.Background(), ledger.SaleInput{
		Lines:       []ledger.SaleLineInput{{ProductID: p.ID, Quantity: 1, UnitPrice: d(100)}},
		Discount:    d(500),
		PaymentMode: ledger.PaymentFull,
	})
	require.NoError(t, err)
	assert.True(t, res.Total.IsZero())
	assert.Nil(t, res.Remaining)
}

func TestRecordSale_ClienteNuevo(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)
	p := seedProduct(t, st, "Robe", 10)

	res, err := svc.RecordSale(ctx, ledger.SaleInput{
		Lines:       []ledger.SaleLineInput{{ProductID: p.ID, Quantity: 1, UnitPrice: d(500)}},
		NewClient:   &ledger.NewClientSpec{Name: "Awa"},
		PaymentMode: ledger.PaymentFull,
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.ClientID)
	assert.Contains(t, res.Refresh, ledger.ViewClients)

	c, err := st.Clients().GetByID(ctx, res.ClientID)
	require.NoError(t, err)
	assert.Equal(t, "Awa", c.Name)

	sale, err := st.Sales().GetByID(ctx, res.SaleID)
	require.NoError(t, err)
	assert.Equal(t, res.ClientID, sale.ClientID)
}

func TestRecordSale_Validacion(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)
	p := seedProduct(t, st, "Robe", 10)
	line := ledger.SaleLineInput{ProductID: p.ID, Quantity: 1, UnitPrice: d(100)}

	inputs := map[string]ledger.SaleInput{
		"sin lineas":          {PaymentMode: ledger.PaymentFull},
		"cantidad cero":       {Lines: []ledger.SaleLineInput{{ProductID: p.ID, Quantity: 0}}, PaymentMode: ledger.PaymentFull},
		"descuento negativo":  {Lines: []ledger.SaleLineInput{line}, Discount: d(-1), PaymentMode: ledger.PaymentFull},
		"modo desconocido":    {Lines: []ledger.SaleLineInput{line}, PaymentMode: "credit"},
		"pago negativo":       {Lines: []ledger.SaleLineInput{line}, PaymentMode: ledger.PaymentPartial, AmountPaid: d(-1)},
		"cliente sin nombre":  {Lines: []ledger.SaleLineInput{line}, NewClient: &ledger.NewClientSpec{}, PaymentMode: ledger.PaymentFull},
		"cliente y nuevo":     {Lines: []ledger.SaleLineInput{line}, ClientID: "c1", NewClient: &ledger.NewClientSpec{Name: "A"}, PaymentMode: ledger.PaymentFull},
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := svc.RecordSale(ctx, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Equal(t, 0, st.Calls(memory.OpCreate, repository.CollectionSales))
}

func TestRecordSale_DescuentoUnitarioMayorQuePrecioRechazado(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)
	p := seedProduct(t, st, "Robe", 10)

	_, err := svc.RecordSale(ctx, ledger.SaleInput{
		Lines:       []ledger.SaleLineInput{{ProductID: p.ID, Quantity: 1, UnitPrice: d(100), UnitDiscount: d(150)}},
		PaymentMode: ledger.PaymentFull,
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	require.Len(t, ve.Fields, 1)
	assert.Equal(t, "ltefield", ve.Fields[0].Rule)
	assert.Contains(t, ve.Fields[0].Field, "UnitDiscount")
	assert.Equal(t, 0, st.Calls(memory.OpCreate, repository.CollectionSales))
	assert.Equal(t, 10, quantityOf(t, st, p.ID))

	res, err := svc.RecordSale(ctx, ledger.SaleInput{
		Lines:       []ledger.SaleLineInput{{ProductID: p.ID, Quantity: 2, UnitPrice: d(100), UnitDiscount: d(100)}},
		PaymentMode: ledger.PaymentFull,
	})
	require.NoError(t, err)
	assert.True(t, res.Total.IsZero())
}

func TestRecordSale_ClampLlevaStockACero(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)
	p := seedProduct(t, st, "Robe", 3)

	res, err := svc.RecordSale(ctx, ledger.SaleInput{
		Lines:       []ledger.SaleLineInput{{ProductID: p.ID, Quantity: 5, UnitPrice: d(100)}},
		PaymentMode: ledger.PaymentFull,
	})
	require.NoError(t, err)
	require.Len(t, res.Lines, 1)
	assert.True(t, res.Lines[0].Clamped)
	assert.Equal(t, 0, res.Lines[0].QuantityAfter)
	assert.Equal(t, 0, quantityOf(t, st, p.ID))

	// La salida registra lo vendido, así que el clamp aparece como deriva.
	report, err := svc.CheckDrift(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, -5, report.MovementSum)
	assert.True(t, report.Drifted())
}

func TestRecordSale_RejectNoEscribeNada(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t, ledger.WithStockPolicy(ledger.StockPolicyReject))
	p := seedProduct(t, st, "Robe", 3)

	_, err := svc.RecordSale(ctx, ledger.SaleInput{
		Lines:       []ledger.SaleLineInput{{ProductID: p.ID, Quantity: 5, UnitPrice: d(100)}},
		NewClient:   &ledger.NewClientSpec{Name: "Awa"},
		PaymentMode: ledger.PaymentFull,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var se *ledger.SagaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, ledger.StepCheckStock, se.Step)
	assert.False(t, se.Drift)
	assert.Equal(t, 0, st.Calls(memory.OpCreate, repository.CollectionSales))
	assert.Equal(t, 0, st.Calls(memory.OpCreate, repository.CollectionClients))
	assert.Equal(t, 3, quantityOf(t, st, p.ID))
}

func TestRecordSale_RejectSumaLineasDelMismoProducto(t *testing.T) {
	svc, st := newService(t, ledger.WithStockPolicy(ledger.StockPolicyReject))
	p := seedProduct(t, st, "Robe", 3)

	_, err := svc.RecordSale(context.Background(), ledger.SaleInput{
		Lines: []ledger.SaleLineInput{
			{ProductID: p.ID, Quantity: 2, UnitPrice: d(100)},
			{ProductID: p.ID, Quantity: 2, UnitPrice: d(100)},
		},
		PaymentMode: ledger.PaymentFull,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 3, quantityOf(t, st, p.ID))
}

func TestRecordSale_RejectConStockSuficiente(t *testing.T) {
	svc, st := newService(t, ledger.WithStockPolicy(ledger.StockPolicyReject))
	p := seedProduct(t, st, "Robe", 5)

	res, err := svc.RecordSale(context.Background(), ledger.SaleInput{
		Lines:       []ledger.SaleLineInput{{ProductID: p.ID, Quantity: 5, UnitPrice: d(100)}},
		PaymentMode: ledger.PaymentFull,
	})
	require.NoError(t, err)
	assert.False(t, res.Lines[0].Clamped)
	assert.Equal(t, 0, quantityOf(t, st, p.ID))
}

func TestRecordSale_FalloEnElBucleDejaVentaParcial(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)
	a := seedProduct(t, st, "Robe", 10)
	b := seedProduct(t, st, "Sac", 10)
	st.FailOn(memory.OpCreate, repository.CollectionSaleLines, 2, domain.ErrUnavailable)

	_, err := svc.RecordSale(ctx, ledger.SaleInput{
		Lines: []ledger.SaleLineInput{
			{ProductID: a.ID, Quantity: 1, UnitPrice: d(100)},
			{ProductID: b.ID, Quantity: 1, UnitPrice: d(100)},
		},
		PaymentMode: ledger.PaymentFull,
	})
	var se *ledger.SagaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, ledger.SagaSale, se.Saga)
	assert.Equal(t, "line[1].create_line", se.Step)
	assert.Equal(t, "line[0].create_exit_movement", se.LastCompleted())
	assert.True(t, se.Drift)

	sales, err := st.Sales().List(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	lines, err := st.SaleLines().ListBySale(ctx, sales[0].ID)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
	assert.Equal(t, 9, quantityOf(t, st, a.ID))
	assert.Equal(t, 10, quantityOf(t, st, b.ID))
}

func TestRecordSale_FalloAlCrearVentaNoDejaLineas(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)
	p := seedProduct(t, st, "Robe", 10)
	st.FailOn(memory.OpCreate, repository.CollectionSales, 0, domain.ErrRejected)

	_, err := svc.RecordSale(ctx, ledger.SaleInput{
		Lines:       []ledger.SaleLineInput{{ProductID: p.ID, Quantity: 1, UnitPrice: d(100)}},
		PaymentMode: ledger.PaymentFull,
	})
	assert.ErrorIs(t, err, domain.ErrRejected)
	var se *ledger.SagaError
	require.True(t, errors.As(err, &se))
	assert.False(t, se.Drift)
	assert.Equal(t, 0, st.Calls(memory.OpCreate, repository.CollectionSaleLines))
	assert.Equal(t, 10, quantityOf(t, st, p.ID))
}

func TestRecordSale_VentasConcurrentesNoPierdenDecrementos(t *testing.T) {
	svc, st := newService(t)
	p := seedProduct(t, st, "Robe", 100)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RecordSale(context.Background(), ledger.SaleInput{
				Lines:       []ledger.SaleLineInput{{ProductID: p.ID, Quantity: 1, UnitPrice: d(100)}},
				PaymentMode: ledger.PaymentFull,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 80, quantityOf(t, st, p.ID))
}

func TestParseStockPolicy(t *testing.T) {
	p, err := ledger.ParseStockPolicy("")
	require.NoError(t, err)
	assert.Equal(t, ledger.StockPolicyClamp, p)

	p, err = ledger.ParseStockPolicy(" Reject ")
	require.NoError(t, err)
	assert.Equal(t, ledger.StockPolicyReject, p)

	_, err = ledger.ParseStockPolicy("maybe")
	assert.Error(t, err)
}
