package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-silo/internal/domain"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	"github.com/jhoicas/inventario-silo/internal/domain/inventory"
)

var laPaz = time.FixedZone("UTC-4", -4*60*60)

func TestBuildKardex_OrdenEstable(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 10, 0, 0, 0, laPaz)
	item := &entity.Item{ID: "x", Code: "X", Name: "Cemento", Stock: dec("12")}

	receipts := []*entity.Movement{
		{ID: "r1", Kind: entity.MovementReceipt, Quantity: dec("2"), Date: t0.Add(2 * time.Hour)},
		{ID: "r2", Kind: entity.MovementReceipt, Quantity: dec("1"), Date: t0},
	}
	deliveries := []*entity.Movement{
		{ID: "d1", Kind: entity.MovementDelivery, Quantity: dec("3"), Date: t0},
		{ID: "d2", Kind: entity.MovementDelivery, Quantity: dec("1"), Date: t0.Add(time.Hour)},
	}

	k := inventory.BuildKardex(item, receipts, deliveries)
	require.Len(t, k.Entries, 4)

	ids := make([]string, 0, 4)
	for _, e := range k.Entries {
		ids = append(ids, e.OriginID)
	}
	assert.Equal(t, []string{"r2", "d1", "d2", "r1"}, ids, "empate en t0: primero la recepción")
	assert.Equal(t, entity.DirectionOut, k.Entries[1].Direction)
	assert.True(t, k.Stock.Equal(dec("12")))
	assert.True(t, k.Balance().Equal(dec("-1")))
}

func TestNewPeriod(t *testing.T) {
	from := time.Date(2024, 1, 10, 15, 30, 0, 0, laPaz)
	to := time.Date(2024, 1, 12, 8, 0, 0, 0, laPaz)

	p, err := inventory.NewPeriod(from, to, laPaz)
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 1, 10, 0, 0, 0, 0, laPaz).Equal(p.Start))
	assert.True(t, time.Date(2024, 1, 12, 23, 59, 59, 999999999, laPaz).Equal(p.End))
	assert.True(t, p.Contains(time.Date(2024, 1, 12, 23, 59, 0, 0, laPaz)))
	assert.False(t, p.Contains(time.Date(2024, 1, 13, 0, 0, 0, 0, laPaz)))

	_, err = inventory.NewPeriod(to, from, laPaz)
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestAggregatePeriod(t *testing.T) {
	items := []*entity.Item{
		{ID: "x", Code: "X-1", Stock: dec("12")},
		{ID: "y", Code: "Y-1", Stock: dec("0")},
	}
	receipts := []*entity.Movement{
		{ItemID: "x", Code: "X-1", Quantity: dec("2")},
		{ItemID: "", Code: "x-1", Quantity: dec("5")},
		{ItemID: "x", Code: "X-1", Quantity: dec("1"), Synthetic: true},
		{ItemID: "", Code: "SIN-ITEM", Quantity: dec("9")},
	}
	deliveries := []*entity.Movement{
		{ItemID: "", Code: "X-1", Quantity: dec("3"), Synthetic: true},
	}

	rows := inventory.AggregatePeriod(items, receipts, deliveries)
	require.Len(t, rows, 2)

	x := rows[0]
	assert.True(t, x.TotalIn.Equal(dec("8")))
	assert.True(t, x.TotalInSynthetic.Equal(dec("1")))
	assert.True(t, x.TotalOut.Equal(dec("3")))
	assert.True(t, x.TotalOutSynthetic.Equal(dec("3")))
	assert.True(t, x.StockAfter.Equal(dec("12")))

	y := rows[1]
	assert.True(t, y.TotalIn.IsZero())
	assert.True(t, y.TotalOut.IsZero())
}
