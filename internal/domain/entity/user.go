package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin   = "admin"
	RoleUsuario = "usuario"
)

// User representa un operador del sistema.
type User struct {
	ID           string
	Username     string // siempre en minúsculas
	PasswordHash string // bcrypt; filas antiguas pueden traer texto plano hasta el próximo login
	Name         string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidRole indica si el rol es conocido.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUsuario
}
