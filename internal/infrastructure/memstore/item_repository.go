package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-silo/internal/domain"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	"github.com/jhoicas/inventario-silo/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepository)(nil)

// ItemRepository implementa repository.ItemRepository sobre Store.
type ItemRepository struct {
	s    *Store
	inTx bool
}

func (r *ItemRepository) Create(_ context.Context, item *entity.Item) error {
	defer r.s.writeLock(r.inTx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.items[item.ID]; ok {
		return fmt.Errorf("%w: item %s", domain.ErrDuplicate, item.ID)
	}
	if r.byCodeLocked(item.Code) != nil {
		return fmt.Errorf("%w: código %s", domain.ErrDuplicate, item.Code)
	}
	if item.Stock.IsNegative() {
		return &domain.InsufficientStockError{ItemID: item.ID, Requested: item.Stock.Neg(), Available: decimal.Zero}
	}
	r.s.items[item.ID] = item.Clone()
	return nil
}

func (r *ItemRepository) GetByID(_ context.Context, id string) (*entity.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.items[id].Clone(), nil
}

func (r *ItemRepository) GetByCode(_ context.Context, code string) (*entity.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.byCodeLocked(code).Clone(), nil
}

func (r *ItemRepository) byCodeLocked(code string) *entity.Item {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}
	for _, it := range r.s.items {
		if strings.EqualFold(it.Code, code) {
			return it
		}
	}
	return nil
}

// GetForUpdate equivale a GetByID: el TxRunner ya serializa las escrituras.
func (r *ItemRepository) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.GetByID(ctx, id)
}

func (r *ItemRepository) List(_ context.Context) ([]*entity.Item, error) {
	r.s.mu.RLock()
	out := make([]*entity.Item, 0, len(r.s.items))
	for _, it := range r.s.items {
		out = append(out, it.Clone())
	}
	r.s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.Location != b.Location {
			return a.Location < b.Location
		}
		if a.Description != b.Description {
			return a.Description < b.Description
		}
		return a.Code < b.Code
	})
	return out, nil
}

func (r *ItemRepository) Update(_ context.Context, item *entity.Item) (*entity.Item, error) {
	defer r.s.writeLock(r.inTx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.items[item.ID]
	if !ok {
		return nil, nil
	}
	if other := r.byCodeLocked(item.Code); other != nil && other.ID != item.ID {
		return nil, fmt.Errorf("%w: código %s", domain.ErrDuplicate, item.Code)
	}
	if item.Stock.IsNegative() {
		return nil, &domain.InsufficientStockError{ItemID: item.ID, Requested: item.Stock.Neg(), Available: current.Stock}
	}
	next := item.Clone()
	next.CreatedAt = current.CreatedAt
	r.s.items[item.ID] = next
	return next.Clone(), nil
}

func (r *ItemRepository) IncrementStock(_ context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	defer r.s.writeLock(r.inTx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	it, ok := r.s.items[id]
	if !ok {
		return decimal.Zero, domain.NewNotFound("item", id)
	}
	next := it.Stock.Add(delta)
	if next.IsNegative() {
		return decimal.Zero, &domain.InsufficientStockError{ItemID: id, Requested: delta.Neg(), Available: it.Stock}
	}
	it.Stock = next
	return next, nil
}

func (r *ItemRepository) Delete(_ context.Context, id string) (bool, error) {
	defer r.s.writeLock(r.inTx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.items[id]; !ok {
		return false, nil
	}
	delete(r.s.items, id)
	return true, nil
}

func (r *ItemRepository) ExistsByCategory(_ context.Context, categoryID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, it := range r.s.items {
		if it.CategoryID == categoryID {
			return true, nil
		}
	}
	return false, nil
}

func (r *ItemRepository) ExistsByLocation(_ context.Context, locationID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, it := range r.s.items {
		if it.LocationID == locationID {
			return true, nil
		}
	}
	return false, nil
}

func (r *ItemRepository) RenameCategory(_ context.Context, categoryID, name string) (int64, error) {
	defer r.s.writeLock(r.inTx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, it := range r.s.items {
		if it.CategoryID == categoryID {
			it.Name = name
			n++
		}
	}
	return n, nil
}

func (r *ItemRepository) RenameLocation(_ context.Context, locationID, name string) (int64, error) {
	defer r.s.writeLock(r.inTx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, it := range r.s.items {
		if it.LocationID == locationID {
			it.Location = name
			n++
		}
	}
	return n, nil
}
