package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/boutique-ledger/internal/application/exports"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler descarga los listados como hojas de cálculo.
type ExportHandler struct {
	svc *exports.Service
}

// NewExportHandler construye el handler.
func NewExportHandler(svc *exports.Service) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// Products godoc
// @Summary      Exportar el catálogo a Excel
// @Tags         exports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}    binary
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/exports/products.xlsx [get]
func (h *ExportHandler) Products(c *fiber.Ctx) error {
	file, err := h.svc.Products(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return sendXLSX(c, file)
}

// Sales godoc
// @Summary      Exportar las ventas a Excel
// @Tags         exports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}    binary
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/exports/sales.xlsx [get]
func (h *ExportHandler) Sales(c *fiber.Ctx) error {
	file, err := h.svc.Sales(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return sendXLSX(c, file)
}

// Debts godoc
// @Summary      Exportar las deudas de clientes y proveedores a Excel
// @Tags         exports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}    binary
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/exports/debts.xlsx [get]
func (h *ExportHandler) Debts(c *fiber.Ctx) error {
	file, err := h.svc.Debts(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return sendXLSX(c, file)
}

// sendXLSX envía el libro; X-Snapshot-Stale avisa si se exportó una instantánea vieja.
func sendXLSX(c *fiber.Ctx, file *exports.File) error {
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+file.Name+`"`)
	c.Set("X-Snapshot-Stale", strconv.FormatBool(file.Stale))
	if !file.FetchedAt.IsZero() {
		c.Set("X-Snapshot-Fetched-At", file.FetchedAt.UTC().Format(time.RFC3339))
	}
	return c.Send(file.Content)
}
