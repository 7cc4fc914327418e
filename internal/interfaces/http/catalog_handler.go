package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-silo/internal/application/dto"
)

// catalogService lo cumplen CategoryUseCase y LocationUseCase.
type catalogService[R, L any] interface {
	Create(ctx context.Context, req dto.CatalogRequest) (*R, error)
	GetByID(ctx context.Context, id string) (*R, error)
	Update(ctx context.Context, id string, req dto.CatalogRequest) (*R, error)
	List(ctx context.Context) (*L, error)
	Delete(ctx context.Context, id string) error
}

// CatalogHandler maneja categorías o ubicaciones; ambas tienen la misma forma.
type CatalogHandler[R, L any] struct {
	svc catalogService[R, L]
}

// NewCatalogHandler construye el handler para un catálogo.
func NewCatalogHandler[R, L any](svc catalogService[R, L]) *CatalogHandler[R, L] {
	return &CatalogHandler[R, L]{svc: svc}
}

// Create godoc
// @Summary      Crear categoría o ubicación
// @Tags         catalogs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CatalogRequest  true  "name, description"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
// @Router       /api/locations [post]
func (h *CatalogHandler[R, L]) Create(c *fiber.Ctx) error {
	var in dto.CatalogRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *CatalogHandler[R, L]) GetByID(c *fiber.Ctx) error {
	out, err := h.svc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Renombrar categoría o ubicación
// @Description  El nombre nuevo se copia en los items que la usan.
// @Tags         catalogs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID"
// @Param        body  body  dto.CatalogRequest  true  "name, description"
// @Success      200   {object}  dto.CategoryResponse
// @Router       /api/categories/{id} [put]
// @Router       /api/locations/{id} [put]
func (h *CatalogHandler[R, L]) Update(c *fiber.Ctx) error {
	var in dto.CatalogRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *CatalogHandler[R, L]) List(c *fiber.Ctx) error {
	out, err := h.svc.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar categoría o ubicación
// @Description  Rechazado con IN_USE mientras haya items que la referencian.
// @Tags         catalogs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.DeletedResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [delete]
// @Router       /api/locations/{id} [delete]
func (h *CatalogHandler[R, L]) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.svc.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.DeletedResponse{ID: id, Deleted: true})
}
