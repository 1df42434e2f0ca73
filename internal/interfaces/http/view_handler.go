package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/boutique-ledger/internal/application/dto"
	"github.com/jhoicas/boutique-ledger/internal/application/history"
	"github.com/jhoicas/boutique-ledger/internal/application/usecase"
	"github.com/jhoicas/boutique-ledger/internal/application/views"
)

// ViewHandler sirve los listados de lectura y el tablero.
type ViewHandler struct {
	views   *views.Service
	history *history.Service
}

// NewViewHandler construye el handler.
func NewViewHandler(v *views.Service, h *history.Service) *ViewHandler {
	return &ViewHandler{views: v, history: h}
}

func meta(fetchedAt time.Time, stale bool, refreshErr error) dto.SnapshotMeta {
	m := dto.SnapshotMeta{FetchedAt: fetchedAt, Stale: stale}
	if stale && refreshErr != nil {
		m.Warning = "almacén no disponible, datos de " + fetchedAt.Format(time.RFC3339)
	}
	return m
}

// Movements GET /api/movements
func (h *ViewHandler) Movements(c *fiber.Ctx) error {
	snap, err := h.views.Movements(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.MovementResponse, 0, len(snap.Value))
	for _, m := range snap.Value {
		items = append(items, dto.MovementResponse{
			ID:           m.ID,
			ProductID:    m.ProductID,
			ProductName:  m.ProductName,
			Kind:         m.Kind,
			Quantity:     m.Quantity,
			Date:         m.Date,
			Motif:        m.Motif,
			Provenance:   m.Provenance,
			SupplierID:   m.SupplierID,
			SupplierName: m.SupplierName,
			TotalAmount:  m.TotalAmount,
			PaidAmount:   m.PaidAmount,
			Remaining:    m.RemainingAmount,
		})
	}
	return c.JSON(dto.ListResponse[dto.MovementResponse]{Items: items, Meta: meta(snap.FetchedAt, snap.Stale, snap.RefreshErr)})
}

// Sales GET /api/sales
func (h *ViewHandler) Sales(c *fiber.Ctx) error {
	snap, err := h.views.Sales(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.SaleSummaryResponse, 0, len(snap.Value))
	for _, v := range snap.Value {
		items = append(items, dto.SaleSummaryResponse{
			ID:            v.ID,
			InvoiceNumber: v.InvoiceNumber,
			ClientID:      v.ClientID,
			ClientName:    v.ClientName,
			Total:         v.Total,
			Discount:      v.Discount,
			Paid:          v.PaidAmount,
			Remaining:     v.Remaining,
			CreatedAt:     v.CreatedAt,
		})
	}
	return c.JSON(dto.ListResponse[dto.SaleSummaryResponse]{Items: items, Meta: meta(snap.FetchedAt, snap.Stale, snap.RefreshErr)})
}

// ClientDebts GET /api/debts/clients?status=all|open|settled
func (h *ViewHandler) ClientDebts(c *fiber.Ctx) error {
	filter, err := views.ParseDebtFilter(c.Query("status"))
	if err != nil {
		return respondError(c, err)
	}
	snap, err := h.views.ClientDebts(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.DebtResponse, 0, len(snap.Value))
	for _, d := range snap.Value {
		items = append(items, dto.DebtResponse{
			TargetID:  d.SaleID,
			PartyID:   d.ClientID,
			PartyName: d.ClientName,
			Reference: d.InvoiceNumber,
			Total:     d.Total,
			Paid:      d.Paid,
			Remaining: d.Remaining,
			Open:      d.Open,
			Date:      d.Date,
		})
	}
	return c.JSON(dto.ListResponse[dto.DebtResponse]{Items: items, Meta: meta(snap.FetchedAt, snap.Stale, snap.RefreshErr)})
}

// SupplierDebts GET /api/debts/suppliers?status=all|open|settled
func (h *ViewHandler) SupplierDebts(c *fiber.Ctx) error {
	filter, err := views.ParseDebtFilter(c.Query("status"))
	if err != nil {
		return respondError(c, err)
	}
	snap, err := h.views.SupplierDebts(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.DebtResponse, 0, len(snap.Value))
	for _, d := range snap.Value {
		items = append(items, dto.DebtResponse{
			TargetID:  d.MovementID,
			PartyID:   d.SupplierID,
			PartyName: d.SupplierName,
			Reference: d.ProductName,
			Total:     d.Total,
			Paid:      d.Paid,
			Remaining: d.Remaining,
			Open:      d.Open,
			Date:      d.Date,
		})
	}
	return c.JSON(dto.ListResponse[dto.DebtResponse]{Items: items, Meta: meta(snap.FetchedAt, snap.Stale, snap.RefreshErr)})
}

// Alerts GET /api/alerts
func (h *ViewHandler) Alerts(c *fiber.Ctx) error {
	snap, err := h.views.Alerts(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.StockAlertDTO, 0, len(snap.Value))
	for _, a := range snap.Value {
		items = append(items, dto.StockAlertDTO(a))
	}
	return c.JSON(dto.ListResponse[dto.StockAlertDTO]{Items: items, Meta: meta(snap.FetchedAt, snap.Stale, snap.RefreshErr)})
}

// Dashboard GET /api/dashboard?period=all|day|month|year
func (h *ViewHandler) Dashboard(c *fiber.Ctx) error {
	period, err := views.ParsePeriod(c.Query("period"))
	if err != nil {
		return respondError(c, err)
	}
	snap, err := h.views.Dashboard(c.Context(), period)
	if err != nil {
		return respondError(c, err)
	}
	d := snap.Value
	out := dto.DashboardResponse{
		Period:       string(d.Period),
		ProductCount: d.ProductCount,
		StockTotal:   d.StockTotal,
		StockValue:   d.StockValue,
		Revenue:      d.Revenue,
		SaleCount:    d.SaleCount,
		ClientDebt:   d.ClientDebt,
		SupplierDebt: d.SupplierDebt,
		SupplierPaid: d.SupplierPaid,
		Alerts:       make([]dto.StockAlertDTO, 0, len(d.Alerts)),
		Meta:         meta(snap.FetchedAt, snap.Stale, snap.RefreshErr),
	}
	for _, a := range d.Alerts {
		out.Alerts = append(out.Alerts, dto.StockAlertDTO(a))
	}
	return c.JSON(out)
}

// History GET /api/settlements/history
func (h *ViewHandler) History(c *fiber.Ctx) error {
	entries, err := h.history.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"items": entries})
}

// ClientList adapta la vista de clientes al listado HTTP.
func (h *ViewHandler) ClientList(ctx context.Context) (dto.ListResponse[dto.PartyResponse], error) {
	snap, err := h.views.Clients(ctx)
	if err != nil {
		return dto.ListResponse[dto.PartyResponse]{}, err
	}
	items := make([]dto.PartyResponse, 0, len(snap.Value))
	for _, cl := range snap.Value {
		items = append(items, *usecase.ClientResponse(cl))
	}
	return dto.ListResponse[dto.PartyResponse]{Items: items, Meta: meta(snap.FetchedAt, snap.Stale, snap.RefreshErr)}, nil
}

// SupplierList adapta la vista de proveedores al listado HTTP.
func (h *ViewHandler) SupplierList(ctx context.Context) (dto.ListResponse[dto.PartyResponse], error) {
	snap, err := h.views.Suppliers(ctx)
	if err != nil {
		return dto.ListResponse[dto.PartyResponse]{}, err
	}
	items := make([]dto.PartyResponse, 0, len(snap.Value))
	for _, f := range snap.Value {
		items = append(items, *usecase.SupplierResponse(f))
	}
	return dto.ListResponse[dto.PartyResponse]{Items: items, Meta: meta(snap.FetchedAt, snap.Stale, snap.RefreshErr)}, nil
}
