package inventory

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-silo/internal/application/dto"
	"github.com/jhoicas/inventario-silo/internal/application/validation"
	"github.com/jhoicas/inventario-silo/internal/domain"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	"github.com/jhoicas/inventario-silo/internal/domain/inventory"
	"github.com/jhoicas/inventario-silo/internal/domain/repository"
)

// KardexUseCase arma la vista cronológica de un item.
type KardexUseCase struct {
	items     repository.ItemRepository
	movements repository.MovementRepository
	renderer  KardexRenderer
	clock     Clock
}

func NewKardexUseCase(items repository.ItemRepository, movements repository.MovementRepository, renderer KardexRenderer, clock Clock) *KardexUseCase {
	return &KardexUseCase{items: items, movements: movements, renderer: renderer, clock: clock}
}

// Build resuelve el item por referencia o código y junta sus recepciones y entregas.
func (uc *KardexUseCase) Build(ctx context.Context, itemID, code string) (*inventory.Kardex, error) {
	itemID, err := validation.OptionalID("item_id", itemID)
	if err != nil {
		return nil, err
	}
	if itemID == "" && strings.TrimSpace(code) == "" {
		return nil, domain.NewValidation("code", "indica item_id o code")
	}
	item, err := ResolveItem(ctx, uc.items, itemID, code)
	if err != nil {
		return nil, err
	}

	sel := inventory.SelectorFor(item)
	filter := repository.MovementFilter{Selector: &sel}

	var receipts, deliveries []*entity.Movement
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		receipts, err = uc.movements.Find(gctx, entity.MovementReceipt, filter)
		return err
	})
	g.Go(func() error {
		var err error
		deliveries, err = uc.movements.Find(gctx, entity.MovementDelivery, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return inventory.BuildKardex(item, receipts, deliveries), nil
}

// Get devuelve el kardex como DTO.
func (uc *KardexUseCase) Get(ctx context.Context, itemID, code string) (*dto.KardexResponse, error) {
	k, err := uc.Build(ctx, itemID, code)
	if err != nil {
		return nil, err
	}
	return ToKardexResponse(k), nil
}

// PDF genera el documento del kardex. Devuelve también el kardex para nombrar el archivo.
func (uc *KardexUseCase) PDF(ctx context.Context, itemID, code string) ([]byte, *inventory.Kardex, error) {
	k, err := uc.Build(ctx, itemID, code)
	if err != nil {
		return nil, nil, err
	}
	doc, err := uc.renderer.RenderKardex(ctx, k, uc.clock.Now())
	if err != nil {
		return nil, nil, err
	}
	return doc, k, nil
}
