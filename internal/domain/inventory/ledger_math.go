package inventory

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-silo/internal/domain"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
)

// Effect devuelve el cambio de stock que produce un movimiento de tipo kind por qty.
func Effect(kind entity.MovementKind, qty decimal.Decimal) decimal.Decimal {
	return qty.Mul(kind.Sign())
}

// Reversal devuelve el cambio de stock que deshace un movimiento de tipo kind por qty.
func Reversal(kind entity.MovementKind, qty decimal.Decimal) decimal.Decimal {
	return Effect(kind, qty).Neg()
}

// EnsureAvailable falla si aplicar delta sobre available deja el stock negativo.
func EnsureAvailable(itemID string, available, delta decimal.Decimal) error {
	if !delta.IsNegative() {
		return nil
	}
	if available.Add(delta).IsNegative() {
		return &domain.InsufficientStockError{
			ItemID:    itemID,
			Requested: delta.Neg(),
			Available: available,
		}
	}
	return nil
}

// Compensation traduce una edición directa del stock en el movimiento sintético
// que la explica. ok es false cuando el stock no cambió.
func Compensation(oldStock, newStock decimal.Decimal) (kind entity.MovementKind, qty decimal.Decimal, ok bool) {
	delta := newStock.Sub(oldStock)
	switch {
	case delta.IsZero():
		return "", decimal.Zero, false
	case delta.IsPositive():
		return entity.MovementReceipt, delta, true
	default:
		return entity.MovementDelivery, delta.Abs(), true
	}
}

// CheckSnapshot compara la identidad que envía el cliente con la del item resuelto.
// Los campos vacíos no se comparan; la comparación no distingue mayúsculas.
func CheckSnapshot(item *entity.Item, claimed entity.Snapshot) error {
	if claimed.Code != "" && !strings.EqualFold(strings.TrimSpace(claimed.Code), item.Code) {
		return &domain.SnapshotMismatchError{Field: "code"}
	}
	if claimed.Description != "" && !strings.EqualFold(strings.TrimSpace(claimed.Description), item.Description) {
		return &domain.SnapshotMismatchError{Field: "description"}
	}
	if claimed.Unit != "" && !strings.EqualFold(strings.TrimSpace(claimed.Unit), item.Unit) {
		return &domain.SnapshotMismatchError{Field: "unit"}
	}
	return nil
}

// IdentityChanged indica si cambió algún campo que se copia en los movimientos.
func IdentityChanged(before, after entity.Snapshot) bool {
	return before != after
}
