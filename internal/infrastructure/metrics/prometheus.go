package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/inventario-silo/internal/application/inventory"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
)

const namespace = "silo"

var _ inventory.Metrics = (*Ledger)(nil)

// Ledger publica en Prometheus los eventos del libro de inventario.
type Ledger struct {
	applied   *prometheus.CounterVec
	synthetic *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	cascades  *prometheus.HistogramVec
}

// NewLedger registra los colectores en reg. Con nil usa el registro global.
func NewLedger(reg prometheus.Registerer) *Ledger {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Ledger{
		applied: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "movements_applied_total",
			Help:      "Movimientos confirmados por tipo y operación.",
		}, []string{"kind", "op"}),
		synthetic: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "synthetic_movements_total",
			Help:      "Movimientos sin registro generados por ediciones directas del stock.",
		}, []string{"kind"}),
		rejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "movements_rejected_total",
			Help:      "Operaciones del libro rechazadas por motivo.",
		}, []string{"reason"}),
		cascades: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cascade_duration_seconds",
			Help:      "Duración de propagaciones y borrados en cascada.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "result"}),
	}
}

func (l *Ledger) MovementApplied(kind entity.MovementKind, op string) {
	l.applied.WithLabelValues(string(kind), op).Inc()
}

func (l *Ledger) SyntheticEmitted(kind entity.MovementKind) {
	l.synthetic.WithLabelValues(string(kind)).Inc()
}

func (l *Ledger) Rejected(reason string) {
	l.rejected.WithLabelValues(reason).Inc()
}

func (l *Ledger) CascadeFinished(op string, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	l.cascades.WithLabelValues(op, result).Observe(elapsed.Seconds())
}
