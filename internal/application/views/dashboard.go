package views

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/boutique-ledger/internal/domain"
	"github.com/jhoicas/boutique-ledger/internal/domain/inventory"
	"github.com/jhoicas/boutique-ledger/internal/domain/repository"
	"github.com/jhoicas/boutique-ledger/internal/infrastructure/cache"
)

// Period ventana del tablero.
type Period string

const (
	PeriodAll   Period = "all"
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// ParsePeriod acepta all|day|month|year; vacío equivale a all.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "", PeriodAll:
		return PeriodAll, nil
	case PeriodDay:
		return PeriodDay, nil
	case PeriodMonth:
		return PeriodMonth, nil
	case PeriodYear:
		return PeriodYear, nil
	}
	return "", fmt.Errorf("%w: periodo %q", domain.ErrInvalidInput, s)
}

// Start devuelve el inicio de la ventana que termina en now; cero para all.
func (p Period) Start(now time.Time) time.Time {
	y, m, d := now.Date()
	switch p {
	case PeriodDay:
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case PeriodMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
	case PeriodYear:
		return time.Date(y, 1, 1, 0, 0, 0, 0, now.Location())
	}
	return time.Time{}
}

func (p Period) contains(t, now time.Time) bool {
	start := p.Start(now)
	return start.IsZero() || (!t.Before(start) && !t.After(now))
}

// Dashboard indicadores del tablero.
type Dashboard struct {
	Period       Period
	ProductCount int
	StockTotal   int
	StockValue   decimal.Decimal // Σ cantidad × precio de compra
	Revenue      decimal.Decimal // ventas del periodo
	SaleCount    int
	ClientDebt   decimal.Decimal // restante presente de todas las ventas
	SupplierDebt decimal.Decimal // restante de los movimientos del periodo
	SupplierPaid decimal.Decimal // pagado de los movimientos del periodo
	Alerts       []inventory.StockAlert
}

// Dashboard calcula los indicadores del periodo.
func (s *Service) Dashboard(ctx context.Context, period Period) (cache.Snapshot[Dashboard], error) {
	return load(ctx, s, keyDashboard+string(period), func(ctx context.Context) (Dashboard, error) {
		now := s.now()
		out := Dashboard{Period: period}

		products, err := s.repos.Products.List(ctx)
		if err != nil {
			return out, err
		}
		out.ProductCount = len(products)
		for _, p := range products {
			out.StockTotal += p.Quantity
			out.StockValue = out.StockValue.Add(p.PurchasePrice.Mul(decimal.NewFromInt(int64(p.Quantity))))
		}
		out.Alerts = inventory.StockAlerts(products, s.threshold)

		sales, err := s.repos.Sales.List(ctx)
		if err != nil {
			return out, err
		}
		for _, v := range sales {
			if v.IsDebt() {
				out.ClientDebt = out.ClientDebt.Add(v.Outstanding())
			}
			if period.contains(v.CreatedAt, now) {
				out.Revenue = out.Revenue.Add(v.Total)
				out.SaleCount++
			}
		}

		movs, err := s.repos.Movements.List(ctx, repository.MovementFilter{})
		if err != nil {
			return out, err
		}
		for _, m := range movs {
			if !period.contains(m.Date, now) {
				continue
			}
			out.SupplierDebt = out.SupplierDebt.Add(m.RemainingAmount)
			out.SupplierPaid = out.SupplierPaid.Add(m.PaidAmount)
		}
		return out, nil
	})
}
