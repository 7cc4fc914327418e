package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-silo/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item (DIP).
// Las lecturas devuelven (nil, nil) cuando el item no existe.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	// GetByCode busca sin distinguir mayúsculas.
	GetByCode(ctx context.Context, code string) (*entity.Item, error)
	// GetForUpdate lee el item y bloquea su fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Item, error)
	// List ordena por nombre, ubicación y descripción.
	List(ctx context.Context) ([]*entity.Item, error)
	// Update reemplaza los campos editables y devuelve la imagen posterior (nil si no existe).
	Update(ctx context.Context, item *entity.Item) (*entity.Item, error)
	// IncrementStock suma delta (con signo) de forma atómica y devuelve el nuevo saldo.
	IncrementStock(ctx context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error)
	Delete(ctx context.Context, id string) (bool, error)

	ExistsByCategory(ctx context.Context, categoryID string) (bool, error)
	ExistsByLocation(ctx context.Context, locationID string) (bool, error)
	// RenameCategory y RenameLocation actualizan los nombres copiados en los items.
	RenameCategory(ctx context.Context, categoryID, name string) (int64, error)
	RenameLocation(ctx context.Context, locationID, name string) (int64, error)
}
