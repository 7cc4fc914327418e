package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-silo/internal/application/dto"
	appinv "github.com/jhoicas/inventario-silo/internal/application/inventory"
	"github.com/jhoicas/inventario-silo/internal/application/validation"
	"github.com/jhoicas/inventario-silo/internal/domain"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	"github.com/jhoicas/inventario-silo/internal/domain/inventory"
	"github.com/jhoicas/inventario-silo/internal/domain/repository"
	"github.com/jhoicas/inventario-silo/pkg/logger"
)

// ItemUseCase casos de uso CRUD para items.
// Stock editado directamente se compensa con un movimiento sintético; los cambios de
// identidad y el borrado se propagan a los movimientos.
type ItemUseCase struct {
	txRunner   appinv.TxRunner
	items      repository.ItemRepository
	categories repository.CategoryRepository
	locations  repository.LocationRepository
	reconciler *appinv.Reconciler
	clock      appinv.Clock
	log        *logger.Logger
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(
	txRunner appinv.TxRunner,
	items repository.ItemRepository,
	categories repository.CategoryRepository,
	locations repository.LocationRepository,
	reconciler *appinv.Reconciler,
	clock appinv.Clock,
	log *logger.Logger,
) *ItemUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ItemUseCase{
		txRunner:   txRunner,
		items:      items,
		categories: categories,
		locations:  locations,
		reconciler: reconciler,
		clock:      clock,
		log:        log.Component("items"),
	}
}

// Create crea un item. Un stock inicial mayor que cero queda respaldado por una recepción sintética.
func (uc *ItemUseCase) Create(ctx context.Context, req dto.ItemRequest) (*dto.ItemResponse, error) {
	in, err := validation.ItemRequest(req)
	if err != nil {
		return nil, err
	}
	category, location, err := uc.catalogRefs(ctx, in.CategoryID, in.LocationID)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	item := &entity.Item{
		ID:          uuid.New().String(),
		CategoryID:  category.ID,
		LocationID:  location.ID,
		Code:        in.Code,
		Name:        category.Name,
		Description: in.Description,
		Unit:        in.Unit,
		Stock:       in.Stock,
		Location:    location.Name,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var synthetic *entity.Movement
	err = uc.txRunner.Run(ctx, func(items repository.ItemRepository, movements repository.MovementRepository) error {
		if err := ensureFreeCode(ctx, items, item.Code, ""); err != nil {
			return err
		}
		if err := items.Create(ctx, item); err != nil {
			return err
		}
		synthetic, err = uc.reconciler.Compensate(ctx, movements, item, decimal.Zero)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.reconciler.Emitted(synthetic)
	return toItemResponse(item), nil
}

// Update reemplaza los datos del item.
// Si cambia el stock se registra el movimiento sintético en la misma transacción;
// si cambia código, descripción o unidad se reescriben los movimientos después de confirmar.
func (uc *ItemUseCase) Update(ctx context.Context, id string, req dto.ItemRequest) (*dto.ItemResponse, error) {
	id, err := validation.ID("id", id)
	if err != nil {
		return nil, err
	}
	in, err := validation.ItemRequest(req)
	if err != nil {
		return nil, err
	}
	category, location, err := uc.catalogRefs(ctx, in.CategoryID, in.LocationID)
	if err != nil {
		return nil, err
	}

	var previous, updated *entity.Item
	var synthetic *entity.Movement
	err = uc.txRunner.Run(ctx, func(items repository.ItemRepository, movements repository.MovementRepository) error {
		current, err := items.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.NewNotFound("item", id)
		}
		if err := ensureFreeCode(ctx, items, in.Code, id); err != nil {
			return err
		}
		previous = current.Clone()

		next := current.Clone()
		next.CategoryID = category.ID
		next.LocationID = location.ID
		next.Code = in.Code
		next.Name = category.Name
		next.Description = in.Description
		next.Unit = in.Unit
		next.Stock = in.Stock
		next.Location = location.Name
		next.UpdatedAt = uc.clock.Now()

		updated, err = items.Update(ctx, next)
		if err != nil {
			return err
		}
		if updated == nil {
			return domain.NewNotFound("item", id)
		}
		synthetic, err = uc.reconciler.Compensate(ctx, movements, updated, previous.Stock)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.reconciler.Emitted(synthetic)

	if inventory.IdentityChanged(previous.Snapshot(), updated.Snapshot()) {
		if err := uc.reconciler.PropagateIdentity(ctx, previous, updated); err != nil {
			uc.log.Warn().Err(err).Str("item_id", id).Msg("el item quedó actualizado pero no todos sus movimientos")
		}
	}
	return toItemResponse(updated), nil
}

// Delete borra los movimientos del item y luego el item.
// Si la cascada falla el item se conserva y el borrado puede reintentarse.
func (uc *ItemUseCase) Delete(ctx context.Context, id string) error {
	id, err := validation.ID("id", id)
	if err != nil {
		return err
	}
	item, err := uc.items.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.NewNotFound("item", id)
	}
	if err := uc.reconciler.CascadeDelete(ctx, item); err != nil {
		return err
	}
	deleted, err := uc.items.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.NewNotFound("item", id)
	}
	uc.log.Info().Str("item_id", id).Str("code", item.Code).Msg("item eliminado")
	return nil
}

// GetByID obtiene un item por ID.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	id, err := validation.ID("id", id)
	if err != nil {
		return nil, err
	}
	item, err := uc.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NewNotFound("item", id)
	}
	return toItemResponse(item), nil
}

// GetByCode obtiene un item por código sin distinguir mayúsculas.
func (uc *ItemUseCase) GetByCode(ctx context.Context, code string) (*dto.ItemResponse, error) {
	code, err := validation.Code("code", code, validation.MaxCodeLength, true)
	if err != nil {
		return nil, err
	}
	item, err := uc.items.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NewNotFound("item", code)
	}
	return toItemResponse(item), nil
}

// List lista todos los items.
func (uc *ItemUseCase) List(ctx context.Context) (*dto.ItemListResponse, error) {
	list, err := uc.items.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		out = append(out, *toItemResponse(it))
	}
	return &dto.ItemListResponse{Items: out}, nil
}

func (uc *ItemUseCase) catalogRefs(ctx context.Context, categoryID, locationID string) (*entity.Category, *entity.Location, error) {
	category, err := uc.categories.GetByID(ctx, categoryID)
	if err != nil {
		return nil, nil, err
	}
	if category == nil {
		return nil, nil, domain.NewValidation("category_id", "la categoría seleccionada no existe")
	}
	location, err := uc.locations.GetByID(ctx, locationID)
	if err != nil {
		return nil, nil, err
	}
	if location == nil {
		return nil, nil, domain.NewValidation("location_id", "la ubicación seleccionada no existe")
	}
	return category, location, nil
}

// ensureFreeCode falla si otro item ya usa el código.
func ensureFreeCode(ctx context.Context, items repository.ItemRepository, code, selfID string) error {
	other, err := items.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if other != nil && other.ID != selfID {
		return fmt.Errorf("%w: ya existe un item con código %s", domain.ErrDuplicate, strings.ToUpper(code))
	}
	return nil
}

func toItemResponse(i *entity.Item) *dto.ItemResponse {
	if i == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:          i.ID,
		CategoryID:  i.CategoryID,
		LocationID:  i.LocationID,
		Code:        i.Code,
		Name:        i.Name,
		Description: i.Description,
		Unit:        i.Unit,
		Stock:       i.Stock,
		Location:    i.Location,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}
