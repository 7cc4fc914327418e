package inventory_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-silo/internal/domain"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	"github.com/jhoicas/inventario-silo/internal/domain/inventory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestEffectAndReversal(t *testing.T) {
	assert.True(t, inventory.Effect(entity.MovementReceipt, dec("4")).Equal(dec("4")))
	assert.True(t, inventory.Effect(entity.MovementDelivery, dec("4")).Equal(dec("-4")))
	assert.True(t, inventory.Reversal(entity.MovementReceipt, dec("2.5")).Equal(dec("-2.5")))
	assert.True(t, inventory.Reversal(entity.MovementDelivery, dec("2.5")).Equal(dec("2.5")))
}

func TestEnsureAvailable(t *testing.T) {
	require.NoError(t, inventory.EnsureAvailable("x", dec("5"), dec("-5")))
	require.NoError(t, inventory.EnsureAvailable("x", dec("0"), dec("3")))

	err := inventory.EnsureAvailable("x", dec("2"), dec("-3"))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.True(t, stockErr.Requested.Equal(dec("3")))
	assert.True(t, stockErr.Available.Equal(dec("2")))
}

func TestCompensation(t *testing.T) {
	kind, qty, ok := inventory.Compensation(dec("12"), dec("9"))
	require.True(t, ok)
	assert.Equal(t, entity.MovementDelivery, kind)
	assert.True(t, qty.Equal(dec("3")))

	kind, qty, ok = inventory.Compensation(dec("1"), dec("1.75"))
	require.True(t, ok)
	assert.Equal(t, entity.MovementReceipt, kind)
	assert.True(t, qty.Equal(dec("0.75")))

	_, _, ok = inventory.Compensation(dec("4"), dec("4.00"))
	assert.False(t, ok)
}

func TestCheckSnapshot(t *testing.T) {
	item := &entity.Item{Code: "CEM-01", Description: "Cemento gris", Unit: "Kg"}

	require.NoError(t, inventory.CheckSnapshot(item, entity.Snapshot{Code: "cem-01", Description: "CEMENTO GRIS", Unit: "kg"}))
	require.NoError(t, inventory.CheckSnapshot(item, entity.Snapshot{}))

	err := inventory.CheckSnapshot(item, entity.Snapshot{Code: "CEM-01", Unit: "Lt"})
	var mismatch *domain.SnapshotMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "unit", mismatch.Field)
}

func TestSelectorMatches(t *testing.T) {
	sel := inventory.Selector{ItemID: "item-1", LegacyCode: "ABC"}

	assert.True(t, sel.Matches(&entity.Movement{ItemID: "item-1", Code: "OTRO"}))
	assert.True(t, sel.Matches(&entity.Movement{Code: "abc"}))
	assert.True(t, sel.Matches(&entity.Movement{ItemID: "  ", Code: " ABC "}))
	assert.False(t, sel.Matches(&entity.Movement{ItemID: "item-2", Code: "ABC"}), "una fila con otra referencia no es heredada")
	assert.False(t, sel.Matches(&entity.Movement{Code: "ABD"}))
	assert.False(t, inventory.Selector{ItemID: "item-1"}.Matches(&entity.Movement{Code: ""}))
}
