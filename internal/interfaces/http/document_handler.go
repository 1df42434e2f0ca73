package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/boutique-ledger/internal/application/documents"
)

// DocumentHandler descarga la factura de una venta y el albarán de una recepción.
type DocumentHandler struct {
	svc *documents.Service
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(svc *documents.Service) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

// InvoicePDF godoc
// @Summary      Descargar la factura de una venta
// @Tags         documents
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/invoice.pdf [get]
func (h *DocumentHandler) InvoicePDF(c *fiber.Ctx) error {
	doc, name, err := h.svc.InvoicePDF(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return sendPDF(c, doc, name)
}

// ReceiptNotePDF godoc
// @Summary      Descargar el albarán de una recepción
// @Tags         documents
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del movimiento de entrada"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/receipt.pdf [get]
func (h *DocumentHandler) ReceiptNotePDF(c *fiber.Ctx) error {
	doc, name, err := h.svc.ReceiptNotePDF(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return sendPDF(c, doc, name)
}

func sendPDF(c *fiber.Ctx, doc []byte, name string) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(doc)
}
