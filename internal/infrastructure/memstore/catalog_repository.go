package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/inventario-silo/internal/domain"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	"github.com/jhoicas/inventario-silo/internal/domain/repository"
)

var (
	_ repository.CategoryRepository = (*CategoryRepository)(nil)
	_ repository.LocationRepository = (*LocationRepository)(nil)
)

// CategoryRepository implementa repository.CategoryRepository sobre Store.
type CategoryRepository struct {
	s *Store
}

func (r *CategoryRepository) Create(_ context.Context, c *entity.Category) error {
	defer r.s.writeLock(false)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.categories {
		if other.ID == c.ID || strings.EqualFold(other.Name, c.Name) {
			return fmt.Errorf("%w: categoría %s", domain.ErrDuplicate, c.Name)
		}
	}
	cp := *c
	r.s.categories[c.ID] = &cp
	return nil
}

func (r *CategoryRepository) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *CategoryRepository) GetByName(_ context.Context, name string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.categories {
		if strings.EqualFold(c.Name, strings.TrimSpace(name)) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *CategoryRepository) Update(_ context.Context, c *entity.Category) error {
	defer r.s.writeLock(false)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[c.ID]; !ok {
		return domain.NewNotFound("categoría", c.ID)
	}
	cp := *c
	r.s.categories[c.ID] = &cp
	return nil
}

func (r *CategoryRepository) List(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.RLock()
	out := make([]*entity.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		cp := *c
		out = append(out, &cp)
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CategoryRepository) Delete(_ context.Context, id string) (bool, error) {
	defer r.s.writeLock(false)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[id]; !ok {
		return false, nil
	}
	delete(r.s.categories, id)
	return true, nil
}

// LocationRepository implementa repository.LocationRepository sobre Store.
type LocationRepository struct {
	s *Store
}

func (r *LocationRepository) Create(_ context.Context, l *entity.Location) error {
	defer r.s.writeLock(false)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.locations {
		if other.ID == l.ID || strings.EqualFold(other.Name, l.Name) {
			return fmt.Errorf("%w: ubicación %s", domain.ErrDuplicate, l.Name)
		}
	}
	cp := *l
	r.s.locations[l.ID] = &cp
	return nil
}

func (r *LocationRepository) GetByID(_ context.Context, id string) (*entity.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.locations[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *LocationRepository) GetByName(_ context.Context, name string) (*entity.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, l := range r.s.locations {
		if strings.EqualFold(l.Name, strings.TrimSpace(name)) {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *LocationRepository) Update(_ context.Context, l *entity.Location) error {
	defer r.s.writeLock(false)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.locations[l.ID]; !ok {
		return domain.NewNotFound("ubicación", l.ID)
	}
	cp := *l
	r.s.locations[l.ID] = &cp
	return nil
}

func (r *LocationRepository) List(_ context.Context) ([]*entity.Location, error) {
	r.s.mu.RLock()
	out := make([]*entity.Location, 0, len(r.s.locations))
	for _, l := range r.s.locations {
		cp := *l
		out = append(out, &cp)
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *LocationRepository) Delete(_ context.Context, id string) (bool, error) {
	defer r.s.writeLock(false)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.locations[id]; !ok {
		return false, nil
	}
	delete(r.s.locations, id)
	return true, nil
}
