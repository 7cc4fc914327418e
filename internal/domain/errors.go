package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Errores de dominio. Los errores tipados de abajo envuelven a estos centinelas
// para que el transporte pueda usar errors.Is sin conocer el detalle.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrSnapshotMismatch  = errors.New("los datos del movimiento no coinciden con el item")
	ErrInvalidRange      = errors.New("rango de fechas inválido")
	ErrInvalidIdentifier = errors.New("identificador inválido")
	ErrInUse             = errors.New("el recurso está en uso")
)

// NotFoundError indica que la entidad buscada (por id o código) no existe.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s no encontrado: %s", e.Entity, e.Key)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFound construye un NotFoundError.
func NewNotFound(entity, key string) error {
	return &NotFoundError{Entity: entity, Key: key}
}

// SnapshotMismatchError indica qué campo enviado por el cliente no coincide con el item resuelto.
type SnapshotMismatchError struct {
	Field string
}

func (e *SnapshotMismatchError) Error() string {
	return fmt.Sprintf("el campo %s no coincide con el item", e.Field)
}

func (e *SnapshotMismatchError) Unwrap() error { return ErrSnapshotMismatch }

// InsufficientStockError rechaza una operación que dejaría el stock negativo.
type InsufficientStockError struct {
	ItemID    string
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para el item %s: solicitado %s, disponible %s",
		e.ItemID, e.Requested.String(), e.Available.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// InvalidRangeError se produce cuando el fin del periodo es anterior al inicio.
type InvalidRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("la fecha final %s es anterior a la inicial %s",
		e.End.Format(time.DateOnly), e.Start.Format(time.DateOnly))
}

func (e *InvalidRangeError) Unwrap() error { return ErrInvalidRange }

// InvalidIdentifierError indica un id con formato inválido.
type InvalidIdentifierError struct {
	Field string
	Value string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("%s no es un identificador válido: %q", e.Field, e.Value)
}

func (e *InvalidIdentifierError) Unwrap() error { return ErrInvalidIdentifier }

// ValidationError describe un campo de entrada rechazado por la normalización.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidation construye un ValidationError.
func NewValidation(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
