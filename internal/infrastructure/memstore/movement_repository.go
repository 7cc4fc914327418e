package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/inventario-silo/internal/domain"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	"github.com/jhoicas/inventario-silo/internal/domain/inventory"
	"github.com/jhoicas/inventario-silo/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepository)(nil)

// MovementRepository implementa repository.MovementRepository sobre Store.
type MovementRepository struct {
	s    *Store
	inTx bool
}

func (r *MovementRepository) collection(kind entity.MovementKind) (map[string]*entity.Movement, error) {
	coll, ok := r.s.movements[kind]
	if !ok {
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, kind)
	}
	return coll, nil
}

func (r *MovementRepository) Insert(_ context.Context, m *entity.Movement) error {
	defer r.s.writeLock(r.inTx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	coll, err := r.collection(m.Kind)
	if err != nil {
		return err
	}
	if _, ok := coll[m.ID]; ok {
		return fmt.Errorf("%w: movimiento %s", domain.ErrDuplicate, m.ID)
	}
	if !m.Quantity.IsPositive() {
		return domain.NewValidation("quantity", "la cantidad debe ser mayor que cero")
	}
	coll[m.ID] = m.Clone()
	r.s.seq++
	r.s.order[m.ID] = r.s.seq
	return nil
}

func (r *MovementRepository) GetByID(_ context.Context, kind entity.MovementKind, id string) (*entity.Movement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	coll, err := r.collection(kind)
	if err != nil {
		return nil, err
	}
	return coll[id].Clone(), nil
}

func matchesFilter(m *entity.Movement, f repository.MovementFilter) bool {
	if f.Selector != nil && !f.Selector.Matches(m) {
		return false
	}
	if code := strings.TrimSpace(f.Code); code != "" && !strings.EqualFold(strings.TrimSpace(m.Code), code) {
		return false
	}
	if f.From != nil && m.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && m.Date.After(*f.To) {
		return false
	}
	return true
}

func (r *MovementRepository) Find(_ context.Context, kind entity.MovementKind, filter repository.MovementFilter) ([]*entity.Movement, error) {
	r.s.mu.RLock()
	coll, err := r.collection(kind)
	if err != nil {
		r.s.mu.RUnlock()
		return nil, err
	}
	if filter.Selector != nil && filter.Selector.Empty() {
		r.s.mu.RUnlock()
		return []*entity.Movement{}, nil
	}
	out := make([]*entity.Movement, 0)
	order := make(map[string]uint64)
	for id, m := range coll {
		if matchesFilter(m, filter) {
			out = append(out, m.Clone())
			order[id] = r.s.order[id]
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return order[out[i].ID] < order[out[j].ID]
	})
	return out, nil
}

func (r *MovementRepository) Update(_ context.Context, m *entity.Movement) (*entity.Movement, error) {
	defer r.s.writeLock(r.inTx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	coll, err := r.collection(m.Kind)
	if err != nil {
		return nil, err
	}
	current, ok := coll[m.ID]
	if !ok {
		return nil, nil
	}
	if !m.Quantity.IsPositive() {
		return nil, domain.NewValidation("quantity", "la cantidad debe ser mayor que cero")
	}
	next := m.Clone()
	next.Date = current.Date
	next.Synthetic = current.Synthetic
	coll[m.ID] = next
	return next.Clone(), nil
}

func (r *MovementRepository) Delete(_ context.Context, kind entity.MovementKind, id string) (bool, error) {
	defer r.s.writeLock(r.inTx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	coll, err := r.collection(kind)
	if err != nil {
		return false, err
	}
	if _, ok := coll[id]; !ok {
		return false, nil
	}
	delete(coll, id)
	delete(r.s.order, id)
	return true, nil
}

func (r *MovementRepository) ApplySnapshot(_ context.Context, kind entity.MovementKind, sel inventory.Selector, itemID string, snap entity.Snapshot) (int64, error) {
	if sel.Empty() {
		return 0, nil
	}
	defer r.s.writeLock(r.inTx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	coll, err := r.collection(kind)
	if err != nil {
		return 0, err
	}
	var n int64
	for _, m := range coll {
		if sel.Matches(m) {
			m.Apply(itemID, snap)
			n++
		}
	}
	return n, nil
}

func (r *MovementRepository) DeleteMatching(_ context.Context, kind entity.MovementKind, sel inventory.Selector) (int64, error) {
	if sel.Empty() {
		return 0, nil
	}
	defer r.s.writeLock(r.inTx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	coll, err := r.collection(kind)
	if err != nil {
		return 0, err
	}
	var n int64
	for id, m := range coll {
		if sel.Matches(m) {
			delete(coll, id)
			delete(r.s.order, id)
			n++
		}
	}
	return n, nil
}
