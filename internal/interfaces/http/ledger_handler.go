package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/boutique-ledger/internal/application/dto"
	"github.com/jhoicas/boutique-ledger/internal/application/ledger"
)

// LedgerHandler expone las tres operaciones del orquestador.
type LedgerHandler struct {
	svc *ledger.Service
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(svc *ledger.Service) *LedgerHandler {
	return &LedgerHandler{svc: svc}
}

// RecordStockReceipt godoc
// @Summary      Registrar recepción de mercancía
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockReceiptRequest  true  "Recepción"
// @Success      201   {object}  dto.ReceiptResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/stock/receipts [post]
func (h *LedgerHandler) RecordStockReceipt(c *fiber.Ctx) error {
	var in dto.StockReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.svc.RecordStockReceipt(c.Context(), receiptInput(in))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ReceiptResponse{
		MovementID:     res.MovementID,
		ProductID:      res.ProductID,
		ProductCreated: res.ProductCreated,
		QuantityAfter:  res.QuantityAfter,
		Remaining:      res.Remaining,
		Refresh:        res.Refresh,
	})
}

// RecordSale godoc
// @Summary      Cerrar una venta
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaleRequest  true  "Carrito"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *LedgerHandler) RecordSale(c *fiber.Ctx) error {
	var in dto.SaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.svc.RecordSale(c.Context(), saleInput(in))
	if err != nil {
		return respondError(c, err)
	}
	out := dto.SaleResponse{
		SaleID:        res.SaleID,
		InvoiceNumber: res.InvoiceNumber,
		ClientID:      res.ClientID,
		Total:         res.Total,
		Paid:          res.Paid,
		Remaining:     res.Remaining,
		Lines:         make([]dto.SaleLineOutcomeDTO, 0, len(res.Lines)),
		Refresh:       res.Refresh,
	}
	for _, l := range res.Lines {
		out.Lines = append(out.Lines, dto.SaleLineOutcomeDTO{
			LineID:        l.LineID,
			ProductID:     l.ProductID,
			Quantity:      l.Quantity,
			QuantityAfter: l.QuantityAfter,
			Clamped:       l.Clamped,
			MovementID:    l.MovementID,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// SettleDebt godoc
// @Summary      Registrar un pago de deuda
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        kind  path  string  true  "client | supplier"
// @Param        id    path  string  true  "ID de la venta o del movimiento"
// @Param        body  body  dto.SettleRequest  true  "Importe"
// @Success      201   {object}  dto.SettleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/debts/{kind}/{id}/settlements [post]
func (h *LedgerHandler) SettleDebt(c *fiber.Ctx) error {
	var in dto.SettleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.svc.SettleDebt(c.Context(), ledger.SettleInput{
		Kind:     c.Params("kind"),
		TargetID: c.Params("id"),
		Amount:   in.Amount,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SettleResponse{
		Kind:         res.Kind,
		TargetID:     res.TargetID,
		SettlementID: res.SettlementID,
		NewPaid:      res.NewPaid,
		NewRemaining: res.NewRemaining,
		Refresh:      res.Refresh,
	})
}

func receiptInput(in dto.StockReceiptRequest) ledger.StockReceiptInput {
	out := ledger.StockReceiptInput{
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		TotalAmount: in.TotalAmount,
		PaidAmount:  in.PaidAmount,
		SupplierID:  in.SupplierID,
		Provenance:  in.Provenance,
	}
	if p := in.NewProduct; p != nil {
		out.NewProduct = &ledger.NewProductSpec{
			Name:          p.Name,
			Reference:     p.Reference,
			Category:      p.Category,
			PurchasePrice: p.PurchasePrice,
			SalePrice:     p.SalePrice,
		}
	}
	return out
}

func saleInput(in dto.SaleRequest) ledger.SaleInput {
	out := ledger.SaleInput{
		Lines:       make([]ledger.SaleLineInput, 0, len(in.Lines)),
		Discount:    in.Discount,
		ClientID:    in.ClientID,
		PaymentMode: in.PaymentMode,
		AmountPaid:  in.AmountPaid,
	}
	if out.PaymentMode == "" {
		out.PaymentMode = ledger.PaymentFull
	}
	for _, l := range in.Lines {
		out.Lines = append(out.Lines, ledger.SaleLineInput{
			ProductID:    l.ProductID,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
			UnitDiscount: l.UnitDiscount,
		})
	}
	if nc := in.NewClient; nc != nil {
		out.NewClient = &ledger.NewClientSpec{Name: nc.Name, Phone: nc.Phone, Email: nc.Email, Address: nc.Address}
	}
	return out
}
