package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inventario-silo/internal/application/dto"
	"github.com/jhoicas/inventario-silo/internal/application/validation"
	"github.com/jhoicas/inventario-silo/internal/domain"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	"github.com/jhoicas/inventario-silo/internal/domain/repository"
	"github.com/jhoicas/inventario-silo/pkg/config"
	"github.com/jhoicas/inventario-silo/pkg/jwt"
	"github.com/jhoicas/inventario-silo/pkg/logger"
)

// AuthUseCase casos de uso de autenticación: login, registro y perfil.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtOpts  jwt.Options
	log      *logger.Logger
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtOpts jwt.Options, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{userRepo: userRepo, jwtOpts: jwtOpts, log: log.Component("auth"), now: time.Now}
}

// HashPassword hashea con bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// looksHashed distingue un hash bcrypt de una contraseña guardada en texto plano.
func looksHashed(stored string) bool {
	return strings.HasPrefix(stored, "$2")
}

func verifyPassword(password, stored string) bool {
	if stored == "" {
		return false
	}
	if looksHashed(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	return password == stored
}

// Register crea un usuario con rol "usuario" salvo que se indique otro válido. Solo lo invoca un admin.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	username, err := validation.Username("username", in.Username)
	if err != nil {
		return nil, err
	}
	if err := validation.Password("password", in.Password); err != nil {
		return nil, err
	}
	name, err := validation.Text("name", in.Name, validation.MaxNameLength, validation.TextOptions{TitleCase: true})
	if err != nil {
		return nil, err
	}
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if role == "" {
		role = entity.RoleUsuario
	}
	if !entity.ValidRole(role) {
		return nil, domain.NewValidation("role", "rol inválido %q", in.Role)
	}

	existing, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: ya existe un usuario con ese nombre", domain.ErrDuplicate)
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// Login verifica usuario/password, genera JWT y retorna token + usuario.
// Las contraseñas antiguas en texto plano se rehashean al primer login correcto.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	if username == "" {
		return nil, domain.NewValidation("username", "el usuario es obligatorio")
	}
	if in.Password == "" {
		return nil, domain.NewValidation("password", "la contraseña es obligatoria")
	}
	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !verifyPassword(in.Password, user.PasswordHash) {
		return nil, domain.ErrUnauthorized
	}

	dirty := false
	if !looksHashed(user.PasswordHash) {
		hash, err := HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
		dirty = true
	}
	if user.Role == "" {
		user.Role = entity.RoleUsuario
		dirty = true
	}
	if dirty {
		user.UpdatedAt = uc.now()
		if err := uc.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
		uc.log.Info().Str("username", user.Username).Msg("credenciales heredadas actualizadas")
	}

	token, err := jwt.Generate(uc.jwtOpts, user.ID, user.Username, user.Name, user.Role)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *ToUserResponse(user),
	}, nil
}

// Profile devuelve el usuario del token.
func (uc *AuthUseCase) Profile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return ToUserResponse(user), nil
}

// EnsureAdmin crea el administrador configurado o corrige su rol, nombre y contraseña heredada.
// Devuelve false sin error si la configuración está incompleta.
func (uc *AuthUseCase) EnsureAdmin(ctx context.Context, cfg config.AdminConfig) (bool, error) {
	if !cfg.Complete() {
		uc.log.Info().Msg("sin configuración de admin, se omite el seeding")
		return false, nil
	}
	username := strings.ToLower(strings.TrimSpace(cfg.Username))
	existing, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return false, err
	}

	if existing != nil {
		dirty := false
		if existing.Role != entity.RoleAdmin {
			existing.Role = entity.RoleAdmin
			dirty = true
		}
		if existing.Name != cfg.Name {
			existing.Name = cfg.Name
			dirty = true
		}
		if !looksHashed(existing.PasswordHash) {
			hash, err := HashPassword(cfg.Password)
			if err != nil {
				return false, err
			}
			existing.PasswordHash = hash
			dirty = true
		}
		if dirty {
			existing.UpdatedAt = uc.now()
			if err := uc.userRepo.Update(ctx, existing); err != nil {
				return false, err
			}
			uc.log.Info().Str("username", username).Msg("usuario admin existente actualizado")
		}
		return dirty, nil
	}

	hash, err := HashPassword(cfg.Password)
	if err != nil {
		return false, err
	}
	now := uc.now()
	admin := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		Name:         cfg.Name,
		Role:         entity.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, admin); err != nil {
		return false, err
	}
	uc.log.Info().Str("username", username).Msg("usuario admin creado")
	return true, nil
}

// ToUserResponse convierte un usuario a DTO sin la contraseña.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
