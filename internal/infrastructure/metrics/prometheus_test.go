package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-silo/internal/domain/entity"
)

func TestLedger_Contadores(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLedger(reg)

	m.MovementApplied(entity.MovementReceipt, "create")
	m.MovementApplied(entity.MovementReceipt, "create")
	m.MovementApplied(entity.MovementDelivery, "delete")
	m.SyntheticEmitted(entity.MovementDelivery)
	m.Rejected("insufficient_stock")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.applied.WithLabelValues("RECEIPT", "create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.applied.WithLabelValues("DELIVERY", "delete")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.synthetic.WithLabelValues("DELIVERY")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejected.WithLabelValues("insufficient_stock")))
}

func TestLedger_CascadaPorResultado(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLedger(reg)

	m.CascadeFinished("delete", 20*time.Millisecond, nil)
	m.CascadeFinished("propagate", time.Millisecond, errors.New("falló"))

	n, err := testutil.GatherAndCount(reg, "silo_cascade_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
