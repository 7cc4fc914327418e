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

// LocationUseCase casos de uso CRUD para ubicaciones del silo.
type LocationUseCase struct {
	repo  repository.LocationRepository
	items repository.ItemRepository
	clock appinv.Clock
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository, items repository.ItemRepository, clock appinv.Clock) *LocationUseCase {
	return &LocationUseCase{repo: repo, items: items, clock: clock}
}

// Create crea una ubicación con nombre único.
func (uc *LocationUseCase) Create(ctx context.Context, req dto.CatalogRequest) (*dto.LocationResponse, error) {
	in, err := validation.CatalogRequest(req)
	if err != nil {
		return nil, err
	}
	if err := uc.ensureFreeName(ctx, in.Name, ""); err != nil {
		return nil, err
	}
	now := uc.clock.Now()
	location := &entity.Location{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, location); err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// GetByID obtiene una ubicación por ID.
func (uc *LocationUseCase) GetByID(ctx context.Context, id string) (*dto.LocationResponse, error) {
	location, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// Update actualiza una ubicación. Un cambio de nombre se copia en los items que la usan.
func (uc *LocationUseCase) Update(ctx context.Context, id string, req dto.CatalogRequest) (*dto.LocationResponse, error) {
	location, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	in, err := validation.CatalogRequest(req)
	if err != nil {
		return nil, err
	}
	if err := uc.ensureFreeName(ctx, in.Name, location.ID); err != nil {
		return nil, err
	}
	renamed := location.Name != in.Name
	location.Name = in.Name
	location.Description = in.Description
	location.UpdatedAt = uc.clock.Now()
	if err := uc.repo.Update(ctx, location); err != nil {
		return nil, err
	}
	if renamed {
		if _, err := uc.items.RenameLocation(ctx, location.ID, location.Name); err != nil {
			return nil, fmt.Errorf("rename location on items: %w", err)
		}
	}
	return toLocationResponse(location), nil
}

// List lista las ubicaciones por nombre.
func (uc *LocationUseCase) List(ctx context.Context) (*dto.LocationListResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		out = append(out, *toLocationResponse(l))
	}
	return &dto.LocationListResponse{Items: out}, nil
}

// Delete elimina una ubicación que ningún item usa.
func (uc *LocationUseCase) Delete(ctx context.Context, id string) error {
	location, err := uc.get(ctx, id)
	if err != nil {
		return err
	}
	used, err := uc.items.ExistsByLocation(ctx, location.ID)
	if err != nil {
		return err
	}
	if used {
		return fmt.Errorf("%w: hay items en la ubicación %s", domain.ErrInUse, location.Name)
	}
	deleted, err := uc.repo.Delete(ctx, location.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.NewNotFound("ubicación", location.ID)
	}
	return nil
}

func (uc *LocationUseCase) get(ctx context.Context, id string) (*entity.Location, error) {
	id, err := validation.ID("id", id)
	if err != nil {
		return nil, err
	}
	location, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.NewNotFound("ubicación", id)
	}
	return location, nil
}

func (uc *LocationUseCase) ensureFreeName(ctx context.Context, name, selfID string) error {
	other, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if other != nil && other.ID != selfID {
		return fmt.Errorf("%w: ya existe la ubicación %s", domain.ErrDuplicate, name)
	}
	return nil
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	if l == nil {
		return nil
	}
	return &dto.LocationResponse{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}
