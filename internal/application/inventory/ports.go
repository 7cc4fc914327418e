package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	"github.com/jhoicas/inventario-silo/internal/domain/inventory"
	"github.com/jhoicas/inventario-silo/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que la validación, el incremento de stock y la escritura del movimiento se confirmen juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		items repository.ItemRepository,
		movements repository.MovementRepository,
	) error) error
}

// Clock fuente de tiempo del libro (zona horaria configurada).
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

// Operaciones reportadas a Metrics.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Metrics recibe los eventos del libro.
type Metrics interface {
	MovementApplied(kind entity.MovementKind, op string)
	SyntheticEmitted(kind entity.MovementKind)
	Rejected(reason string)
	CascadeFinished(op string, elapsed time.Duration, err error)
}

// NopMetrics descarta los eventos.
type NopMetrics struct{}

func (NopMetrics) MovementApplied(entity.MovementKind, string)  {}
func (NopMetrics) SyntheticEmitted(entity.MovementKind)         {}
func (NopMetrics) Rejected(string)                              {}
func (NopMetrics) CascadeFinished(string, time.Duration, error) {}

// KardexRenderer convierte un kardex en documento (PDF).
type KardexRenderer interface {
	RenderKardex(ctx context.Context, k *inventory.Kardex, generatedAt time.Time) ([]byte, error)
}

// PeriodReportRenderer convierte el reporte por periodo en documento (XLSX).
type PeriodReportRenderer interface {
	RenderPeriodReport(ctx context.Context, period inventory.Period, rows []inventory.PeriodRow) ([]byte, error)
}
