package inventory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-silo/internal/domain/entity"
)

// KardexEntry es una línea del kardex: una recepción (IN) o una entrega (OUT).
type KardexEntry struct {
	Date         time.Time
	Direction    string
	Counterparty string
	Description  string
	Notes        string
	Quantity     decimal.Decimal
	Unit         string
	OriginKind   entity.MovementKind
	OriginID     string
	Synthetic    bool
}

// Kardex es la vista cronológica de los movimientos de un item.
type Kardex struct {
	ItemID      string
	Code        string
	Name        string
	Description string
	Unit        string
	Location    string
	Stock       decimal.Decimal
	Entries     []KardexEntry
}

// BuildKardex mezcla recepciones y entregas en orden ascendente por fecha.
// Ante fechas iguales quedan primero las recepciones y luego el orden de llegada.
func BuildKardex(item *entity.Item, receipts, deliveries []*entity.Movement) *Kardex {
	entries := make([]KardexEntry, 0, len(receipts)+len(deliveries))
	for _, group := range [][]*entity.Movement{receipts, deliveries} {
		for _, m := range group {
			entries = append(entries, KardexEntry{
				Date:         m.Date,
				Direction:    m.Kind.Direction(),
				Counterparty: m.Counterparty,
				Description:  m.Description,
				Notes:        m.Notes,
				Quantity:     m.Quantity,
				Unit:         m.Unit,
				OriginKind:   m.Kind,
				OriginID:     m.ID,
				Synthetic:    m.Synthetic,
			})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})

	return &Kardex{
		ItemID:      item.ID,
		Code:        item.Code,
		Name:        item.Name,
		Description: item.Description,
		Unit:        item.Unit,
		Location:    item.Location,
		Stock:       item.Stock,
		Entries:     entries,
	}
}

// Balance suma las entradas y resta las salidas del kardex.
func (k *Kardex) Balance() decimal.Decimal {
	total := decimal.Zero
	for _, e := range k.Entries {
		total = total.Add(Effect(e.OriginKind, e.Quantity))
	}
	return total
}
