package inventory

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-silo/internal/application/dto"
	"github.com/jhoicas/inventario-silo/internal/application/validation"
	"github.com/jhoicas/inventario-silo/internal/domain"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	"github.com/jhoicas/inventario-silo/internal/domain/inventory"
	"github.com/jhoicas/inventario-silo/internal/domain/repository"
)

// LedgerUseCase registra, edita y elimina recepciones y entregas.
// Cada operación valida, ajusta el stock y escribe el movimiento dentro de una
// transacción con la fila del item bloqueada (SELECT FOR UPDATE).
type LedgerUseCase struct {
	txRunner  TxRunner
	movements repository.MovementRepository
	clock     Clock
	metrics   Metrics
}

// NewLedgerUseCase construye el caso de uso. movements se usa solo para lecturas fuera de tx.
func NewLedgerUseCase(txRunner TxRunner, movements repository.MovementRepository, clock Clock, metrics Metrics) *LedgerUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &LedgerUseCase{txRunner: txRunner, movements: movements, clock: clock, metrics: metrics}
}

// CreateReceipt registra una entrada y suma la cantidad al stock del item.
func (uc *LedgerUseCase) CreateReceipt(ctx context.Context, in dto.MovementRequest) (*dto.MovementResponse, error) {
	return uc.Create(ctx, entity.MovementReceipt, in)
}

// CreateDelivery registra una salida; falla con stock insuficiente.
func (uc *LedgerUseCase) CreateDelivery(ctx context.Context, in dto.MovementRequest) (*dto.MovementResponse, error) {
	return uc.Create(ctx, entity.MovementDelivery, in)
}

// Create registra un movimiento del tipo indicado.
func (uc *LedgerUseCase) Create(ctx context.Context, kind entity.MovementKind, req dto.MovementRequest) (*dto.MovementResponse, error) {
	if !kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	in, err := validation.MovementRequest(req)
	if err != nil {
		return nil, uc.reject(err)
	}

	var created *entity.Movement
	err = uc.txRunner.Run(ctx, func(items repository.ItemRepository, movements repository.MovementRepository) error {
		resolved, err := ResolveItem(ctx, items, in.ItemID, in.Code)
		if err != nil {
			return err
		}
		locked, err := lockItems(ctx, items, resolved.ID)
		if err != nil {
			return err
		}
		item := locked[resolved.ID]

		if err := inventory.CheckSnapshot(item, in.Snapshot); err != nil {
			return err
		}
		effect := inventory.Effect(kind, in.Quantity)
		if err := inventory.EnsureAvailable(item.ID, item.Stock, effect); err != nil {
			return err
		}
		if _, err := items.IncrementStock(ctx, item.ID, effect); err != nil {
			return err
		}

		m := &entity.Movement{
			ID:           uuid.New().String(),
			Kind:         kind,
			Quantity:     in.Quantity,
			Counterparty: in.Counterparty,
			Notes:        in.Notes,
			Date:         uc.clock.Now(),
		}
		m.Apply(item.ID, item.Snapshot())
		if err := movements.Insert(ctx, m); err != nil {
			return err
		}
		created = m
		return nil
	})
	if err != nil {
		return nil, uc.reject(err)
	}
	uc.metrics.MovementApplied(kind, OpCreate)
	return ToMovementResponse(created), nil
}

// Update edita cantidad, item y datos de un movimiento.
// Si cambia el item, revierte el movimiento completo en el original y lo aplica en el destino;
// si no, aplica solo la diferencia de cantidades.
func (uc *LedgerUseCase) Update(ctx context.Context, kind entity.MovementKind, id string, req dto.MovementRequest) (*dto.MovementResponse, error) {
	if !kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	id, err := validation.ID("id", id)
	if err != nil {
		return nil, uc.reject(err)
	}
	in, err := validation.MovementRequest(req)
	if err != nil {
		return nil, uc.reject(err)
	}

	var updated *entity.Movement
	err = uc.txRunner.Run(ctx, func(items repository.ItemRepository, movements repository.MovementRepository) error {
		existing, err := movements.GetByID(ctx, kind, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.NewNotFound("movimiento", id)
		}
		original, err := ResolveItem(ctx, items, existing.ItemID, existing.Code)
		if err != nil {
			return err
		}

		var destination *entity.Item
		if isMove(original, in) {
			dest, err := ResolveItem(ctx, items, in.ItemID, in.Code)
			if err != nil {
				return err
			}
			if dest.ID != original.ID {
				destination = dest
			}
		}

		var target *entity.Item
		if destination != nil {
			target, err = moveMovement(ctx, items, kind, existing, original.ID, destination.ID, in)
		} else {
			target, err = adjustMovement(ctx, items, kind, existing, original.ID, in)
		}
		if err != nil {
			return err
		}

		existing.Apply(target.ID, target.Snapshot())
		existing.Quantity = in.Quantity
		existing.Counterparty = in.Counterparty
		existing.Notes = in.Notes
		updated, err = movements.Update(ctx, existing)
		if err != nil {
			return err
		}
		if updated == nil {
			return domain.NewNotFound("movimiento", id)
		}
		return nil
	})
	if err != nil {
		return nil, uc.reject(err)
	}
	uc.metrics.MovementApplied(kind, OpUpdate)
	return ToMovementResponse(updated), nil
}

// isMove decide si la edición cambia de item: por referencia si el cliente la envía,
// si no por código sin distinguir mayúsculas.
func isMove(original *entity.Item, in validation.Movement) bool {
	if in.ItemID != "" {
		return in.ItemID != original.ID
	}
	return !strings.EqualFold(in.Code, original.Code)
}

// moveMovement revierte el movimiento en el item original y lo aplica en el destino.
// Todas las validaciones se hacen antes del primer incremento.
func moveMovement(
	ctx context.Context,
	items repository.ItemRepository,
	kind entity.MovementKind,
	existing *entity.Movement,
	originalID, destinationID string,
	in validation.Movement,
) (*entity.Item, error) {
	locked, err := lockItems(ctx, items, originalID, destinationID)
	if err != nil {
		return nil, err
	}
	src, dst := locked[originalID], locked[destinationID]

	reversal := inventory.Reversal(kind, existing.Quantity)
	if err := inventory.EnsureAvailable(src.ID, src.Stock, reversal); err != nil {
		return nil, err
	}
	if err := inventory.CheckSnapshot(dst, in.Snapshot); err != nil {
		return nil, err
	}
	effect := inventory.Effect(kind, in.Quantity)
	if err := inventory.EnsureAvailable(dst.ID, dst.Stock, effect); err != nil {
		return nil, err
	}

	if _, err := items.IncrementStock(ctx, src.ID, reversal); err != nil {
		return nil, err
	}
	if _, err := items.IncrementStock(ctx, dst.ID, effect); err != nil {
		return nil, err
	}
	return dst, nil
}

// adjustMovement aplica la diferencia entre la cantidad nueva y la anterior.
func adjustMovement(
	ctx context.Context,
	items repository.ItemRepository,
	kind entity.MovementKind,
	existing *entity.Movement,
	itemID string,
	in validation.Movement,
) (*entity.Item, error) {
	locked, err := lockItems(ctx, items, itemID)
	if err != nil {
		return nil, err
	}
	item := locked[itemID]

	if err := inventory.CheckSnapshot(item, in.Snapshot); err != nil {
		return nil, err
	}
	delta := inventory.Effect(kind, in.Quantity.Sub(existing.Quantity))
	if err := inventory.EnsureAvailable(item.ID, item.Stock, delta); err != nil {
		return nil, err
	}
	if !delta.IsZero() {
		if _, err := items.IncrementStock(ctx, item.ID, delta); err != nil {
			return nil, err
		}
	}
	return item, nil
}

// Delete elimina un movimiento y revierte su efecto sobre el stock.
// Borrar una recepción falla si el stock actual no alcanza a cubrirla.
func (uc *LedgerUseCase) Delete(ctx context.Context, kind entity.MovementKind, id string) error {
	if !kind.Valid() {
		return domain.ErrInvalidInput
	}
	id, err := validation.ID("id", id)
	if err != nil {
		return uc.reject(err)
	}

	err = uc.txRunner.Run(ctx, func(items repository.ItemRepository, movements repository.MovementRepository) error {
		existing, err := movements.GetByID(ctx, kind, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.NewNotFound("movimiento", id)
		}
		resolved, err := ResolveItem(ctx, items, existing.ItemID, existing.Code)
		if err != nil {
			return err
		}
		locked, err := lockItems(ctx, items, resolved.ID)
		if err != nil {
			return err
		}
		item := locked[resolved.ID]

		reversal := inventory.Reversal(kind, existing.Quantity)
		if err := inventory.EnsureAvailable(item.ID, item.Stock, reversal); err != nil {
			return err
		}
		if _, err := items.IncrementStock(ctx, item.ID, reversal); err != nil {
			return err
		}
		deleted, err := movements.Delete(ctx, kind, id)
		if err != nil {
			return err
		}
		if !deleted {
			return domain.NewNotFound("movimiento", id)
		}
		return nil
	})
	if err != nil {
		return uc.reject(err)
	}
	uc.metrics.MovementApplied(kind, OpDelete)
	return nil
}

// Get obtiene un movimiento por id.
func (uc *LedgerUseCase) Get(ctx context.Context, kind entity.MovementKind, id string) (*dto.MovementResponse, error) {
	id, err := validation.ID("id", id)
	if err != nil {
		return nil, err
	}
	m, err := uc.movements.GetByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.NewNotFound("movimiento", id)
	}
	return ToMovementResponse(m), nil
}

// List devuelve los movimientos del tipo, opcionalmente filtrados por código del snapshot.
func (uc *LedgerUseCase) List(ctx context.Context, kind entity.MovementKind, code string) (*dto.MovementListResponse, error) {
	filter := repository.MovementFilter{}
	if strings.TrimSpace(code) != "" {
		normalized, err := validation.Code("code", code, validation.MaxCodeLength, true)
		if err != nil {
			return nil, err
		}
		filter.Code = normalized
	}
	list, err := uc.movements.Find(ctx, kind, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *ToMovementResponse(m))
	}
	return &dto.MovementListResponse{Items: out}, nil
}

// reject registra el motivo del rechazo y devuelve el error sin modificar.
func (uc *LedgerUseCase) reject(err error) error {
	uc.metrics.Rejected(RejectReason(err))
	return err
}

// RejectReason clasifica un error para métricas.
func RejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrSnapshotMismatch):
		return "snapshot_mismatch"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidIdentifier), errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	default:
		return "internal"
	}
}
