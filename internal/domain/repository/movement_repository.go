package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	"github.com/jhoicas/inventario-silo/internal/domain/inventory"
)

// MovementFilter restringe una búsqueda de movimientos. Los campos vacíos no filtran.
type MovementFilter struct {
	Selector *inventory.Selector
	Code     string // código del snapshot, sin distinguir mayúsculas
	From     *time.Time
	To       *time.Time
}

// MovementRepository define el puerto de persistencia de recepciones y entregas.
// Cada método recibe el tipo para elegir la colección; ambas comparten forma.
type MovementRepository interface {
	Insert(ctx context.Context, m *entity.Movement) error
	GetByID(ctx context.Context, kind entity.MovementKind, id string) (*entity.Movement, error)
	// Find devuelve los movimientos en orden ascendente por fecha.
	Find(ctx context.Context, kind entity.MovementKind, filter MovementFilter) ([]*entity.Movement, error)
	// Update reescribe el movimiento por id y devuelve la imagen posterior (nil si no existe).
	Update(ctx context.Context, m *entity.Movement) (*entity.Movement, error)
	Delete(ctx context.Context, kind entity.MovementKind, id string) (bool, error)

	// ApplySnapshot reescribe la identidad de todas las filas que alcanza sel y las ancla a itemID.
	ApplySnapshot(ctx context.Context, kind entity.MovementKind, sel inventory.Selector, itemID string, snap entity.Snapshot) (int64, error)
	// DeleteMatching borra todas las filas que alcanza sel.
	DeleteMatching(ctx context.Context, kind entity.MovementKind, sel inventory.Selector) (int64, error)
}
