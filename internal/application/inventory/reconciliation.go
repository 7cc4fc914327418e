package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	"github.com/jhoicas/inventario-silo/internal/domain/inventory"
	"github.com/jhoicas/inventario-silo/internal/domain/repository"
	"github.com/jhoicas/inventario-silo/pkg/logger"
)

// Reconciler mantiene el libro coherente ante cambios hechos sobre el item:
// ediciones directas del stock, cambios de identidad y borrado.
type Reconciler struct {
	movements repository.MovementRepository
	clock     Clock
	metrics   Metrics
	log       *logger.Logger
}

// NewReconciler construye el reconciliador. movements se usa para las cascadas, que corren fuera de tx.
func NewReconciler(movements repository.MovementRepository, clock Clock, metrics Metrics, log *logger.Logger) *Reconciler {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Reconciler{movements: movements, clock: clock, metrics: metrics, log: log.Component("reconciler")}
}

// Compensate registra el movimiento sintético que explica el paso de oldStock al stock actual del item.
// Debe llamarse con el repositorio de la misma transacción que modificó el item.
// Devuelve nil si el stock no cambió.
func (r *Reconciler) Compensate(ctx context.Context, movements repository.MovementRepository, item *entity.Item, oldStock decimal.Decimal) (*entity.Movement, error) {
	kind, qty, ok := inventory.Compensation(oldStock, item.Stock)
	if !ok {
		return nil, nil
	}
	m := &entity.Movement{
		ID:           uuid.New().String(),
		Kind:         kind,
		Quantity:     qty,
		Counterparty: entity.SyntheticCounterparty,
		Notes:        entity.SyntheticCounterparty,
		Date:         r.clock.Now(),
		Synthetic:    true,
	}
	m.Apply(item.ID, item.Snapshot())
	if err := movements.Insert(ctx, m); err != nil {
		return nil, fmt.Errorf("insert synthetic %s: %w", kind, err)
	}
	return m, nil
}

// Emitted reporta un movimiento sintético ya confirmado.
func (r *Reconciler) Emitted(m *entity.Movement) {
	if m == nil {
		return
	}
	r.metrics.SyntheticEmitted(m.Kind)
	r.log.Info().
		Str("item_id", m.ItemID).
		Str("kind", string(m.Kind)).
		Str("quantity", m.Quantity.String()).
		Msg("movimiento sintético registrado")
}

// PropagateIdentity reescribe código, descripción y unidad en todos los movimientos del item,
// incluidas las filas heredadas que llevaban el código anterior, y las ancla a su referencia.
// Las dos colecciones se actualizan en paralelo y sin transacción común; repetir la llamada es seguro.
func (r *Reconciler) PropagateIdentity(ctx context.Context, previous, updated *entity.Item) error {
	sel := inventory.Selector{ItemID: updated.ID, LegacyCode: previous.Code}
	snap := updated.Snapshot()
	start := time.Now()

	counts := make([]int64, len(entity.MovementKinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range entity.MovementKinds {
		i, kind := i, kind
		g.Go(func() error {
			n, err := r.movements.ApplySnapshot(gctx, kind, sel, updated.ID, snap)
			if err != nil {
				return fmt.Errorf("propagate identity to %s: %w", kind, err)
			}
			counts[i] = n
			return nil
		})
	}
	err := g.Wait()
	r.metrics.CascadeFinished("propagate", time.Since(start), err)
	if err != nil {
		r.log.Error().Err(err).Str("item_id", updated.ID).Msg("propagación de identidad incompleta")
		return err
	}
	r.log.Debug().
		Str("item_id", updated.ID).
		Int64("receipts", counts[0]).
		Int64("deliveries", counts[1]).
		Msg("identidad propagada")
	return nil
}

// CascadeDelete borra los movimientos del item, tanto los referenciados como los heredados por código.
func (r *Reconciler) CascadeDelete(ctx context.Context, item *entity.Item) error {
	sel := inventory.SelectorFor(item)
	if sel.Empty() {
		return nil
	}
	start := time.Now()

	counts := make([]int64, len(entity.MovementKinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range entity.MovementKinds {
		i, kind := i, kind
		g.Go(func() error {
			n, err := r.movements.DeleteMatching(gctx, kind, sel)
			if err != nil {
				return fmt.Errorf("cascade delete %s: %w", kind, err)
			}
			counts[i] = n
			return nil
		})
	}
	err := g.Wait()
	r.metrics.CascadeFinished("delete", time.Since(start), err)
	if err != nil {
		r.log.Error().Err(err).Str("item_id", item.ID).Msg("borrado en cascada incompleto")
		return err
	}
	r.log.Debug().
		Str("item_id", item.ID).
		Int64("receipts", counts[0]).
		Int64("deliveries", counts[1]).
		Msg("movimientos del item eliminados")
	return nil
}
