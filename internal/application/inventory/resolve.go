package inventory

import (
	"context"
	"strings"

	"github.com/jhoicas/inventario-silo/internal/domain"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	"github.com/jhoicas/inventario-silo/internal/domain/repository"
)

// ResolveItem busca primero por referencia y, si no la hay o no existe, por código.
func ResolveItem(ctx context.Context, items repository.ItemRepository, itemID, code string) (*entity.Item, error) {
	if itemID = strings.TrimSpace(itemID); itemID != "" {
		item, err := items.GetByID(ctx, itemID)
		if err != nil {
			return nil, err
		}
		if item != nil {
			return item, nil
		}
	}
	if code = strings.TrimSpace(code); code != "" {
		item, err := items.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if item != nil {
			return item, nil
		}
	}
	key := code
	if key == "" {
		key = itemID
	}
	return nil, domain.NewNotFound("item", key)
}

// lockItems bloquea las filas en orden de id para que dos transacciones
// que tocan el mismo par de items no se bloqueen mutuamente.
func lockItems(ctx context.Context, items repository.ItemRepository, ids ...string) (map[string]*entity.Item, error) {
	ordered := append([]string(nil), ids...)
	if len(ordered) == 2 && ordered[1] < ordered[0] {
		ordered[0], ordered[1] = ordered[1], ordered[0]
	}
	locked := make(map[string]*entity.Item, len(ordered))
	for _, id := range ordered {
		if _, ok := locked[id]; ok {
			continue
		}
		item, err := items.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.NewNotFound("item", id)
		}
		locked[id] = item
	}
	return locked, nil
}
