package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-silo/internal/application/dto"
	"github.com/jhoicas/inventario-silo/internal/domain"
)

// LocalError guarda el error interno para que el logger de peticiones lo registre.
const LocalError = "error"

// respondError traduce los errores de dominio a status y cuerpo HTTP.
func respondError(c *fiber.Ctx, err error) error {
	status, body := mapError(err)
	if status == fiber.StatusInternalServerError {
		c.Locals(LocalError, err)
	}
	return c.Status(status).JSON(body)
}

func mapError(err error) (int, dto.ErrorResponse) {
	var (
		validationErr *domain.ValidationError
		idErr         *domain.InvalidIdentifierError
		stockErr      *domain.InsufficientStockError
		snapshotErr   *domain.SnapshotMismatchError
		notFoundErr   *domain.NotFoundError
		rangeErr      *domain.InvalidRangeError
		fiberErr      *fiber.Error
	)
	switch {
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: validationErr.Message, Field: validationErr.Field}
	case errors.As(err, &idErr):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "INVALID_ID", Message: idErr.Error(), Field: idErr.Field}
	case errors.As(err, &rangeErr):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "INVALID_RANGE", Message: rangeErr.Error()}
	case errors.As(err, &stockErr):
		return fiber.StatusConflict, dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: "stock insuficiente",
			Details: map[string]any{
				"item_id":   stockErr.ItemID,
				"requested": stockErr.Requested,
				"available": stockErr.Available,
			},
		}
	case errors.As(err, &snapshotErr):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{Code: "SNAPSHOT_MISMATCH", Message: snapshotErr.Error(), Field: snapshotErr.Field}
	case errors.As(err, &notFoundErr):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: notFoundErr.Error()}
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()}
	case errors.Is(err, domain.ErrInUse):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "IN_USE", Message: err.Error()}
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"}
	case errors.As(err, &fiberErr):
		return fiberErr.Code, dto.ErrorResponse{Code: "HTTP_ERROR", Message: fiberErr.Message}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
}

// ErrorHandler es el manejador de errores de Fiber: rutas inexistentes, pánicos recuperados
// y cualquier error que un handler devuelva sin responder.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return respondError(c, err)
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
