package domain_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-silo/internal/domain"
)

func TestTypedErrors_UnwrapToSentinels(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"not found", domain.NewNotFound("item", "ABC"), domain.ErrNotFound},
		{"snapshot", &domain.SnapshotMismatchError{Field: "unit"}, domain.ErrSnapshotMismatch},
		{"stock", &domain.InsufficientStockError{ItemID: "x", Requested: decimal.NewFromInt(5), Available: decimal.NewFromInt(2)}, domain.ErrInsufficientStock},
		{"range", &domain.InvalidRangeError{Start: time.Now(), End: time.Now().Add(-time.Hour)}, domain.ErrInvalidRange},
		{"id", &domain.InvalidIdentifierError{Field: "id", Value: "zzz"}, domain.ErrInvalidIdentifier},
		{"validation", domain.NewValidation("code", "máximo %d caracteres", 25), domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("capa externa: %w", tc.err)
			assert.ErrorIs(t, wrapped, tc.sentinel)
		})
	}
}

func TestInsufficientStockError_Payload(t *testing.T) {
	err := fmt.Errorf("entrega: %w", &domain.InsufficientStockError{
		ItemID:    "item-1",
		Requested: decimal.NewFromInt(7),
		Available: decimal.NewFromInt(3),
	})

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "item-1", stockErr.ItemID)
	assert.True(t, stockErr.Requested.Equal(decimal.NewFromInt(7)))
	assert.Contains(t, err.Error(), "disponible 3")
}
