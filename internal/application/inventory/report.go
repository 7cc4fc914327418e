package inventory

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-silo/internal/application/dto"
	"github.com/jhoicas/inventario-silo/internal/domain"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	"github.com/jhoicas/inventario-silo/internal/domain/inventory"
	"github.com/jhoicas/inventario-silo/internal/domain/repository"
)

// ReportUseCase calcula los totales de entradas y salidas por item en un periodo.
type ReportUseCase struct {
	items     repository.ItemRepository
	movements repository.MovementRepository
	renderer  PeriodReportRenderer
	clock     Clock
}

func NewReportUseCase(items repository.ItemRepository, movements repository.MovementRepository, renderer PeriodReportRenderer, clock Clock) *ReportUseCase {
	return &ReportUseCase{items: items, movements: movements, renderer: renderer, clock: clock}
}

// ParseDay interpreta una fecha YYYY-MM-DD (o RFC3339) en la zona horaria del libro.
func ParseDay(field, value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, domain.NewValidation(field, "la fecha es obligatoria")
	}
	if t, err := time.ParseInLocation(time.DateOnly, value, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(loc), nil
	}
	return time.Time{}, domain.NewValidation(field, "fecha inválida %q, usa YYYY-MM-DD", value)
}

// ParseRange interpreta los extremos del periodo en la zona del libro.
func (uc *ReportUseCase) ParseRange(from, to string) (time.Time, time.Time, error) {
	loc := uc.clock.Location()
	start, err := ParseDay("from", from, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ParseDay("to", to, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// Period normaliza [from, to] a días completos y agrega los movimientos de cada item.
// StockAfter es el saldo actual del item, no el saldo al cierre del periodo.
func (uc *ReportUseCase) Period(ctx context.Context, from, to time.Time) (inventory.Period, []inventory.PeriodRow, error) {
	period, err := inventory.NewPeriod(from, to, uc.clock.Location())
	if err != nil {
		return inventory.Period{}, nil, err
	}
	filter := repository.MovementFilter{From: &period.Start, To: &period.End}

	var (
		items      []*entity.Item
		receipts   []*entity.Movement
		deliveries []*entity.Movement
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = uc.items.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		receipts, err = uc.movements.Find(gctx, entity.MovementReceipt, filter)
		return err
	})
	g.Go(func() error {
		var err error
		deliveries, err = uc.movements.Find(gctx, entity.MovementDelivery, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return inventory.Period{}, nil, err
	}
	return period, inventory.AggregatePeriod(items, receipts, deliveries), nil
}

// PeriodReport devuelve el reporte como DTO.
func (uc *ReportUseCase) PeriodReport(ctx context.Context, from, to time.Time) (*dto.PeriodReportResponse, error) {
	period, rows, err := uc.Period(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return ToPeriodReportResponse(period, rows), nil
}

// PeriodWorkbook genera el reporte en XLSX.
func (uc *ReportUseCase) PeriodWorkbook(ctx context.Context, from, to time.Time) ([]byte, inventory.Period, error) {
	period, rows, err := uc.Period(ctx, from, to)
	if err != nil {
		return nil, inventory.Period{}, err
	}
	doc, err := uc.renderer.RenderPeriodReport(ctx, period, rows)
	if err != nil {
		return nil, inventory.Period{}, err
	}
	return doc, period, nil
}
