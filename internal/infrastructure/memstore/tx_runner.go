package memstore

import (
	"context"

	"github.com/jhoicas/inventario-silo/internal/domain/repository"
)

// TxRunner ejecuta la función con acceso exclusivo de escritura y
// restaura el estado anterior si devuelve error.
type TxRunner struct {
	s *Store
}

func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

func (r *TxRunner) Run(ctx context.Context, fn func(
	items repository.ItemRepository,
	movements repository.MovementRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.tx.Lock()
	defer r.s.tx.Unlock()

	before := r.s.snapshot()
	items := &ItemRepository{s: r.s, inTx: true}
	movements := &MovementRepository{s: r.s, inTx: true}
	if err := fn(items, movements); err != nil {
		r.s.restore(before)
		return err
	}
	return nil
}
