package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/boutique-ledger/internal/application/dto"
	"github.com/jhoicas/boutique-ledger/internal/application/ledger"
	"github.com/jhoicas/boutique-ledger/internal/domain"
)

// statusOf traduce la causa de un error de dominio a código HTTP y código de error.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrRejected):
		return fiber.StatusUnprocessableEntity, "REJECTED"
	case errors.Is(err, domain.ErrUnavailable):
		return fiber.StatusServiceUnavailable, "UNAVAILABLE"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// respondError escribe dto.ErrorResponse. Los campos inválidos y el detalle de la
// saga interrumpida se incluyen cuando existen.
func respondError(c *fiber.Ctx, err error) error {
	status, code := statusOf(err)
	body := dto.ErrorResponse{Code: code, Message: err.Error()}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		for _, f := range ve.Fields {
			body.Fields = append(body.Fields, dto.FieldErrorDTO{Field: f.Field, Rule: f.Rule, Param: f.Param})
		}
	}
	var se *ledger.SagaError
	if errors.As(err, &se) {
		body.Saga = &dto.SagaFailureDTO{
			Saga:           se.Saga,
			FailedStep:     se.Step,
			CompletedSteps: append([]string{}, se.Completed...),
			IntegrityDrift: se.Drift,
		}
	}
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("error no clasificado")
		body.Message = "error interno"
	}
	return c.Status(status).JSON(body)
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
