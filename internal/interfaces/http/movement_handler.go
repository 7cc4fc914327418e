package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-silo/internal/application/dto"
	"github.com/jhoicas/inventario-silo/internal/application/inventory"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
)

// MovementHandler maneja recepciones o entregas según kind (protegido).
type MovementHandler struct {
	uc   *inventory.LedgerUseCase
	kind entity.MovementKind
}

// NewMovementHandler construye el handler para un tipo de movimiento.
func NewMovementHandler(uc *inventory.LedgerUseCase, kind entity.MovementKind) *MovementHandler {
	return &MovementHandler{uc: uc, kind: kind}
}

// Create godoc
// @Summary      Registrar recepción o entrega
// @Description  Valida el item por item_id o code, comprueba el stock y guarda el movimiento
// @Description  junto con el nuevo saldo en una sola transacción.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MovementRequest  true  "item_id o code, description, unit, quantity, counterparty"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/receipts [post]
// @Router       /api/deliveries [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	var in dto.MovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), h.kind, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar recepciones o entregas
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        code  query  string  false  "Filtrar por código"
// @Success      200   {object}  dto.MovementListResponse
// @Router       /api/receipts [get]
// @Router       /api/deliveries [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), h.kind, c.Query("code"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), h.kind, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar recepción o entrega
// @Description  Aplica la diferencia de cantidad o mueve el movimiento a otro item.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del movimiento"
// @Param        body  body  dto.MovementRequest  true  "Datos nuevos"
// @Success      200   {object}  dto.MovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/receipts/{id} [put]
// @Router       /api/deliveries/{id} [put]
func (h *MovementHandler) Update(c *fiber.Ctx) error {
	var in dto.MovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), h.kind, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar recepción o entrega
// @Description  Revierte su efecto en el stock; una recepción ya consumida no se puede borrar.
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.DeletedResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/receipts/{id} [delete]
// @Router       /api/deliveries/{id} [delete]
func (h *MovementHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.uc.Delete(c.UserContext(), h.kind, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.DeletedResponse{ID: id, Deleted: true})
}
