package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/boutique-ledger/internal/domain"
	"github.com/jhoicas/boutique-ledger/internal/domain/entity"
	amounts "github.com/jhoicas/boutique-ledger/internal/domain/ledger"
)

// Pasos del cierre de venta. Los pasos por línea se prefijan con line[i].
const (
	StepCreateClient       = "create_client"
	StepCheckStock         = "check_stock"
	StepCreateSale         = "create_sale"
	StepCreateLine         = "create_line"
	StepDecrementStock     = "decrement_stock"
	StepCreateExitMovement = "create_exit_movement"
)

// Modos de pago.
const (
	PaymentFull    = "full"
	PaymentPartial = "partial"
)

// SaleLineInput una línea del carrito. El descuento unitario no puede superar
// el precio: el subtotal de una línea nunca es negativo.
type SaleLineInput struct {
	ProductID    string          `validate:"required"`
	Quantity     int             `validate:"gte=1"`
	UnitPrice    decimal.Decimal `validate:"gte=0"`
	UnitDiscount decimal.Decimal `validate:"gte=0,ltefield=UnitPrice"`
}

// NewClientSpec datos de un cliente creado durante la venta.
type NewClientSpec struct {
	Name    string `validate:"required"`
	Phone   string
	Email   string `validate:"omitempty,email"`
	Address string
}

// SaleInput entrada de recordSale. Cliente existente, nuevo o ninguno.
type SaleInput struct {
	Lines       []SaleLineInput `validate:"required,min=1,dive"`
	Discount    decimal.Decimal `validate:"gte=0"`
	ClientID    string          `validate:"excluded_with=NewClient"`
	NewClient   *NewClientSpec  `validate:"omitempty"`
	PaymentMode string          `validate:"required,oneof=full partial"`
	// AmountPaid solo se usa con PaymentMode=partial.
	AmountPaid decimal.Decimal `validate:"gte=0"`
}

// LineOutcome efecto de una línea sobre el stock.
type LineOutcome struct {
	LineID        string
	ProductID     string
	Quantity      int
	QuantityAfter int
	// Clamped indica que el stock leído era menor que lo vendido y quedó en 0.
	Clamped    bool
	MovementID string
}

// SaleResult resultado de una venta aplicada por completo.
type SaleResult struct {
	SaleID        string
	InvoiceNumber string
	ClientID      string
	Total         decimal.Decimal
	Paid          decimal.Decimal
	// Remaining nil: la venta no es deuda.
	Remaining *decimal.Decimal
	Lines     []LineOutcome
	Refresh   []string
}

// RecordSale cierra una venta:
// create_client? → create_sale → por línea (create_line, read_product, decrement_stock, create_exit_movement).
//
// Un fallo dentro del bucle deja la venta y las líneas ya procesadas; las demás faltan.
// El SagaError indica la línea y el paso exactos.
func (s *Service) RecordSale(ctx context.Context, in SaleInput) (*SaleResult, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	subtotals := make([]decimal.Decimal, len(in.Lines))
	productKeys := make([]string, len(in.Lines))
	for i, l := range in.Lines {
		subtotals[i] = amounts.LineSubtotal(l.UnitPrice, l.UnitDiscount, l.Quantity)
		productKeys[i] = productKey(l.ProductID)
	}
	total := amounts.SaleTotal(subtotals, in.Discount)
	paid := total
	if in.PaymentMode == PaymentPartial {
		paid = in.AmountPaid
	}
	remaining := amounts.SaleRemaining(total, paid)

	unlock := s.locks.Lock(productKeys...)
	defer unlock()

	g := s.begin(SagaSale, map[string]any{"lines": len(in.Lines), "total": total.String()})

	if s.policy == StockPolicyReject {
		if err := g.read(StepCheckStock, func() error { return s.checkStock(ctx, in.Lines) }); err != nil {
			return nil, err
		}
	}

	res := &SaleResult{ClientID: in.ClientID, Total: total, Paid: paid, Remaining: remaining}

	if in.NewClient != nil {
		c := &entity.Client{
			Name:    in.NewClient.Name,
			Phone:   in.NewClient.Phone,
			Email:   in.NewClient.Email,
			Address: in.NewClient.Address,
		}
		if err := g.write(StepCreateClient, func() error { return s.repos.Clients.Create(ctx, c) }); err != nil {
			return nil, err
		}
		res.ClientID = c.ID
	}

	sale := &entity.Sale{
		ClientID:      res.ClientID,
		InvoiceNumber: s.invoiceNumber(),
		Total:         total,
		Discount:      in.Discount,
		PaidAmount:    paid,
		Remaining:     remaining,
	}
	if err := g.write(StepCreateSale, func() error { return s.repos.Sales.Create(ctx, sale) }); err != nil {
		return nil, err
	}
	res.SaleID = sale.ID
	res.InvoiceNumber = sale.InvoiceNumber

	for i, l := range in.Lines {
		out, err := s.applyLine(ctx, g, i, sale, l, subtotals[i])
		if err != nil {
			return nil, err
		}
		res.Lines = append(res.Lines, out)
	}

	res.Refresh = saleRefresh(remaining != nil, in.NewClient != nil)
	g.finish()
	s.notify(res.Refresh)
	return res, nil
}

func (s *Service) applyLine(ctx context.Context, g *saga, i int, sale *entity.Sale, l SaleLineInput, subtotal decimal.Decimal) (LineOutcome, error) {
	out := LineOutcome{ProductID: l.ProductID, Quantity: l.Quantity}

	line := &entity.SaleLine{
		SaleID:       sale.ID,
		ProductID:    l.ProductID,
		Quantity:     l.Quantity,
		UnitPrice:    l.UnitPrice,
		UnitDiscount: l.UnitDiscount,
		Subtotal:     subtotal,
	}
	if err := g.write(lineStep(i, StepCreateLine), func() error { return s.repos.SaleLines.Create(ctx, line) }); err != nil {
		return out, err
	}
	out.LineID = line.ID

	var current *entity.Product
	if err := g.read(lineStep(i, StepReadProduct), func() (err error) {
		current, err = s.repos.Products.GetByID(ctx, l.ProductID)
		return err
	}); err != nil {
		return out, err
	}

	next, clamped := amounts.DecrementStock(current.Quantity, l.Quantity)
	if clamped && s.policy == StockPolicyReject {
		return out, g.fail(lineStep(i, StepDecrementStock),
			fmt.Errorf("%w: %s tiene %d, se piden %d", domain.ErrInsufficientStock, current.Label(), current.Quantity, l.Quantity))
	}
	if err := g.write(lineStep(i, StepDecrementStock), func() error {
		return s.repos.Products.UpdateQuantity(ctx, l.ProductID, next)
	}); err != nil {
		return out, err
	}
	out.QuantityAfter = next
	out.Clamped = clamped
	if clamped {
		g.log.Warn().
			Str("product_id", l.ProductID).
			Int("stock_read", current.Quantity).
			Int("requested", l.Quantity).
			Msg("stock insuficiente: cantidad llevada a 0")
	}

	mov := &entity.StockMovement{
		ProductID: l.ProductID,
		Kind:      entity.MovementKindExit,
		Quantity:  -l.Quantity,
		Motif:     "Vente " + sale.InvoiceNumber,
	}
	if err := g.write(lineStep(i, StepCreateExitMovement), func() error { return s.repos.Movements.Create(ctx, mov) }); err != nil {
		return out, err
	}
	out.MovementID = mov.ID
	return out, nil
}

// checkStock verifica todas las líneas antes de crear la venta (política reject).
// Las cantidades del mismo producto en varias líneas se suman.
func (s *Service) checkStock(ctx context.Context, lines []SaleLineInput) error {
	requested := make(map[string]int, len(lines))
	order := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := requested[l.ProductID]; !ok {
			order = append(order, l.ProductID)
		}
		requested[l.ProductID] += l.Quantity
	}
	for _, id := range order {
		p, err := s.repos.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p.Quantity < requested[id] {
			return fmt.Errorf("%w: %s tiene %d, se piden %d", domain.ErrInsufficientStock, p.Label(), p.Quantity, requested[id])
		}
	}
	return nil
}

// invoiceNumber genera FAC-<milisegundos unix>-<sufijo aleatorio>.
func (s *Service) invoiceNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("FAC-%d-%s", s.now().UnixMilli(), suffix)
}
