package inventory

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-silo/internal/domain"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
)

// Period es una ventana de días completos en la zona horaria del libro.
type Period struct {
	Start time.Time // 00:00:00 del primer día
	End   time.Time // último instante del último día
}

// NewPeriod normaliza [from, to] a días completos en loc.
func NewPeriod(from, to time.Time, loc *time.Location) (Period, error) {
	if loc == nil {
		loc = time.UTC
	}
	if to.Before(from) {
		return Period{}, &domain.InvalidRangeError{Start: from, End: to}
	}
	start := startOfDay(from.In(loc))
	end := startOfDay(to.In(loc)).AddDate(0, 0, 1).Add(-time.Nanosecond)
	return Period{Start: start, End: end}, nil
}

// Contains indica si t cae dentro del periodo, ambos extremos incluidos.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// PeriodRow es la fila del reporte de un item.
type PeriodRow struct {
	ItemID            string
	Code              string
	Name              string
	Description       string
	Location          string
	Unit              string
	TotalIn           decimal.Decimal
	TotalOut          decimal.Decimal
	TotalInSynthetic  decimal.Decimal
	TotalOutSynthetic decimal.Decimal
	StockAfter        decimal.Decimal // saldo guardado al momento de consultar
}

// sums acumula cantidades por referencia y por código heredado.
type sums struct {
	byRef           map[string]decimal.Decimal
	byLegacyCode    map[string]decimal.Decimal
	synByRef        map[string]decimal.Decimal
	synByLegacyCode map[string]decimal.Decimal
}

func sumMovements(movs []*entity.Movement) sums {
	s := sums{
		byRef:           map[string]decimal.Decimal{},
		byLegacyCode:    map[string]decimal.Decimal{},
		synByRef:        map[string]decimal.Decimal{},
		synByLegacyCode: map[string]decimal.Decimal{},
	}
	for _, m := range movs {
		if ref := strings.TrimSpace(m.ItemID); ref != "" {
			s.byRef[ref] = s.byRef[ref].Add(m.Quantity)
			if m.Synthetic {
				s.synByRef[ref] = s.synByRef[ref].Add(m.Quantity)
			}
			continue
		}
		key := LegacyKey(m.Code)
		s.byLegacyCode[key] = s.byLegacyCode[key].Add(m.Quantity)
		if m.Synthetic {
			s.synByLegacyCode[key] = s.synByLegacyCode[key].Add(m.Quantity)
		}
	}
	return s
}

func (s sums) total(item *entity.Item) decimal.Decimal {
	return s.byRef[item.ID].Add(s.byLegacyCode[LegacyKey(item.Code)])
}

func (s sums) synthetic(item *entity.Item) decimal.Decimal {
	return s.synByRef[item.ID].Add(s.synByLegacyCode[LegacyKey(item.Code)])
}

// AggregatePeriod arma una fila por item, incluidos los que no tuvieron movimientos.
// Los movimientos ya deben venir filtrados por el periodo.
func AggregatePeriod(items []*entity.Item, receipts, deliveries []*entity.Movement) []PeriodRow {
	in := sumMovements(receipts)
	out := sumMovements(deliveries)

	rows := make([]PeriodRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, PeriodRow{
			ItemID:            item.ID,
			Code:              item.Code,
			Name:              item.Name,
			Description:       item.Description,
			Location:          item.Location,
			Unit:              item.Unit,
			TotalIn:           in.total(item),
			TotalOut:          out.total(item),
			TotalInSynthetic:  in.synthetic(item),
			TotalOutSynthetic: out.synthetic(item),
			StockAfter:        item.Stock,
		})
	}
	return rows
}
