package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/boutique-ledger/internal/application/dto"
	"github.com/jhoicas/boutique-ledger/internal/application/ledger"
)

// partyUseCase CRUD común a clientes y proveedores.
type partyUseCase interface {
	Create(ctx context.Context, in dto.PartyRequest) (*dto.PartyResponse, error)
	GetByID(ctx context.Context, id string) (*dto.PartyResponse, error)
	Update(ctx context.Context, id string, in dto.PartyRequest) (*dto.PartyResponse, error)
	Delete(ctx context.Context, id string) error
}

// partyLister lista desde la vista en caché.
type partyLister func(ctx context.Context) (dto.ListResponse[dto.PartyResponse], error)

// PartyHandler maneja /clients y /suppliers.
type PartyHandler struct {
	uc       partyUseCase
	list     partyLister
	notifier ledger.Notifier
	view     string
}

// NewPartyHandler construye el handler. view es la vista a refrescar tras escribir.
func NewPartyHandler(uc partyUseCase, list partyLister, notifier ledger.Notifier, view string) *PartyHandler {
	return &PartyHandler{uc: uc, list: list, notifier: notifier, view: view}
}

func (h *PartyHandler) changed() {
	if h.notifier != nil {
		h.notifier.Notify([]string{h.view})
	}
}

// Create POST /api/clients | /api/suppliers
func (h *PartyHandler) Create(c *fiber.Ctx) error {
	var in dto.PartyRequest
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

// GetByID GET /api/clients/:id
func (h *PartyHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List GET /api/clients
func (h *PartyHandler) List(c *fiber.Ctx) error {
	out, err := h.list(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update PUT /api/clients/:id
func (h *PartyHandler) Update(c *fiber.Ctx) error {
	var in dto.PartyRequest
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

// Delete DELETE /api/clients/:id
func (h *PartyHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	h.changed()
	return c.SendStatus(fiber.StatusNoContent)
}
