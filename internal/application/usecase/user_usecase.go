package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/inventario-silo/internal/application/auth"
	"github.com/jhoicas/inventario-silo/internal/application/dto"
	appinv "github.com/jhoicas/inventario-silo/internal/application/inventory"
	"github.com/jhoicas/inventario-silo/internal/application/validation"
	"github.com/jhoicas/inventario-silo/internal/domain"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	"github.com/jhoicas/inventario-silo/internal/domain/repository"
)

// UserUseCase administración de usuarios (solo admin).
type UserUseCase struct {
	repo  repository.UserRepository
	clock appinv.Clock
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, clock appinv.Clock) *UserUseCase {
	return &UserUseCase{repo: repo, clock: clock}
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}

// List lista los usuarios ordenados por nombre de usuario.
func (uc *UserUseCase) List(ctx context.Context) (*dto.UserListResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *auth.ToUserResponse(u))
	}
	return &dto.UserListResponse{Items: out}, nil
}

// Update cambia nombre, rol o contraseña. No deja el sistema sin administradores.
func (uc *UserUseCase) Update(ctx context.Context, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name, err := validation.Text("name", *in.Name, validation.MaxNameLength, validation.TextOptions{TitleCase: true})
		if err != nil {
			return nil, err
		}
		user.Name = name
	}
	if in.Role != nil {
		role := strings.ToLower(strings.TrimSpace(*in.Role))
		if !entity.ValidRole(role) {
			return nil, domain.NewValidation("role", "rol inválido %q", *in.Role)
		}
		if user.Role == entity.RoleAdmin && role != entity.RoleAdmin {
			admins, err := uc.repo.CountByRole(ctx, entity.RoleAdmin)
			if err != nil {
				return nil, err
			}
			if admins <= 1 {
				return nil, fmt.Errorf("%w: debe quedar al menos un administrador", domain.ErrConflict)
			}
		}
		user.Role = role
	}
	if in.Password != nil {
		if err := validation.Password("password", *in.Password); err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = uc.clock.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}

func (uc *UserUseCase) get(ctx context.Context, id string) (*entity.User, error) {
	id, err := validation.ID("id", id)
	if err != nil {
		return nil, err
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}
