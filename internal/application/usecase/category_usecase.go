package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-silo/internal/application/dto"
	appinv "github.com/jhoicas/inventario-silo/internal/application/inventory"
	"github.com/jhoicas/inventario-silo/internal/application/validation"
	"github.com/jhoicas/inventario-silo/internal/domain"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	"github.com/jhoicas/inventario-silo/internal/domain/repository"
)

// CategoryUseCase casos de uso CRUD para categorías. El nombre de la categoría es el nombre del item.
type CategoryUseCase struct {
	repo  repository.CategoryRepository
	items repository.ItemRepository
	clock appinv.Clock
}

func NewCategoryUseCase(repo repository.CategoryRepository, items repository.ItemRepository, clock appinv.Clock) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, items: items, clock: clock}
}

func (uc *CategoryUseCase) Create(ctx context.Context, req dto.CatalogRequest) (*dto.CategoryResponse, error) {
	in, err := validation.CatalogRequest(req)
	if err != nil {
		return nil, err
	}
	if err := uc.ensureFreeName(ctx, in.Name, ""); err != nil {
		return nil, err
	}
	now := uc.clock.Now()
	category := &entity.Category{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	category, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// Update renombra la categoría y copia el nombre nuevo en sus items.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, req dto.CatalogRequest) (*dto.CategoryResponse, error) {
	category, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	in, err := validation.CatalogRequest(req)
	if err != nil {
		return nil, err
	}
	if err := uc.ensureFreeName(ctx, in.Name, category.ID); err != nil {
		return nil, err
	}
	renamed := category.Name != in.Name
	category.Name = in.Name
	category.Description = in.Description
	category.UpdatedAt = uc.clock.Now()
	if err := uc.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	if renamed {
		if _, err := uc.items.RenameCategory(ctx, category.ID, category.Name); err != nil {
			return nil, fmt.Errorf("rename category on items: %w", err)
		}
	}
	return toCategoryResponse(category), nil
}

func (uc *CategoryUseCase) List(ctx context.Context) (*dto.CategoryListResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCategoryResponse(c))
	}
	return &dto.CategoryListResponse{Items: out}, nil
}

// Delete falla con ErrInUse si algún item pertenece a la categoría.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	category, err := uc.get(ctx, id)
	if err != nil {
		return err
	}
	used, err := uc.items.ExistsByCategory(ctx, category.ID)
	if err != nil {
		return err
	}
	if used {
		return fmt.Errorf("%w: hay items en la categoría %s", domain.ErrInUse, category.Name)
	}
	deleted, err := uc.repo.Delete(ctx, category.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.NewNotFound("categoría", category.ID)
	}
	return nil
}

func (uc *CategoryUseCase) get(ctx context.Context, id string) (*entity.Category, error) {
	id, err := validation.ID("id", id)
	if err != nil {
		return nil, err
	}
	category, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.NewNotFound("categoría", id)
	}
	return category, nil
}

func (uc *CategoryUseCase) ensureFreeName(ctx context.Context, name, selfID string) error {
	other, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if other != nil && other.ID != selfID {
		return fmt.Errorf("%w: ya existe la categoría %s", domain.ErrDuplicate, name)
	}
	return nil
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	if c == nil {
		return nil
	}
	return &dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
