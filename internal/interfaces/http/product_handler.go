package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/boutique-ledger/internal/application/dto"
	"github.com/jhoicas/boutique-ledger/internal/application/ledger"
	"github.com/jhoicas/boutique-ledger/internal/application/usecase"
	"github.com/jhoicas/boutique-ledger/internal/application/views"
)

// ProductHandler maneja las peticiones HTTP para Product (protegido).
type ProductHandler struct {
	uc       *usecase.ProductUseCase
	views    *views.Service
	ledger   *ledger.Service
	notifier ledger.Notifier
}

// NewProductHandler construye el handler. notifier puede ser nil.
func NewProductHandler(uc *usecase.ProductUseCase, v *views.Service, l *ledger.Service, notifier ledger.Notifier) *ProductHandler {
	return &ProductHandler{uc: uc, views: v, ledger: l, notifier: notifier}
}

func (h *ProductHandler) changed() {
	if h.notifier != nil {
		h.notifier.Notify([]string{ledger.ViewProducts, ledger.ViewDashboard})
	}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	h.changed()
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos (instantánea si el almacén no responde)
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.ProductResponse]
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	snap, err := h.views.Products(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.ProductResponse, 0, len(snap.Value))
	for _, p := range snap.Value {
		items = append(items, h.uc.ToResponse(p))
	}
	return c.JSON(dto.ListResponse[dto.ProductResponse]{Items: items, Meta: meta(snap.FetchedAt, snap.Stale, snap.RefreshErr)})
}

// Update godoc
// @Summary      Actualizar producto (la cantidad no se edita)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	h.changed()
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto
// @Tags         products
// @Security     Bearer
// @Param        id   path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	h.changed()
	return c.SendStatus(fiber.StatusNoContent)
}

// Drift godoc
// @Summary      Comparar el stock con la suma de movimientos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.DriftResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/drift [get]
func (h *ProductHandler) Drift(c *fiber.Ctx) error {
	r, err := h.ledger.CheckDrift(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.DriftResponse{
		ProductID:   r.ProductID,
		Quantity:    r.Quantity,
		MovementSum: r.MovementSum,
		Delta:       r.Delta,
		Movements:   r.Movements,
		Drifted:     r.Drifted(),
	})
}
