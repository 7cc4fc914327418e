package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	domain "github.com/jhoicas/inventario-silo/internal/domain/inventory"
)

func TestRenderKardex(t *testing.T) {
	day := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	k := &domain.Kardex{
		ItemID: "it-1", Code: "CEM-01", Name: "Cemento", Description: "Cemento gris",
		Unit: "UND", Location: "Galpón A", Stock: decimal.NewFromInt(6),
		Entries: []domain.KardexEntry{
			{Date: day, Direction: entity.DirectionIn, Counterparty: "Proveedor", Quantity: decimal.NewFromInt(10), OriginKind: entity.MovementReceipt},
			{Date: day.Add(time.Hour), Direction: entity.DirectionOut, Counterparty: entity.SyntheticCounterparty, Quantity: decimal.NewFromInt(4), OriginKind: entity.MovementDelivery, Synthetic: true},
		},
	}

	data, err := NewKardexGenerator("Silo").RenderKardex(context.Background(), k, day)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestRenderKardex_SinMovimientos(t *testing.T) {
	k := &domain.Kardex{Code: "", Name: "Vacío"}
	data, err := NewKardexGenerator("").RenderKardex(context.Background(), k, time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestRenderKardex_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	k := &domain.Kardex{Code: "X", Entries: []domain.KardexEntry{{Quantity: decimal.NewFromInt(1), OriginKind: entity.MovementReceipt}}}

	_, err := NewKardexGenerator("").RenderKardex(ctx, k, time.Now())
	assert.ErrorIs(t, err, context.Canceled)
}
