package inventory

import (
	"github.com/jhoicas/inventario-silo/internal/application/dto"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	"github.com/jhoicas/inventario-silo/internal/domain/inventory"
)

// ToMovementResponse convierte un movimiento a DTO.
func ToMovementResponse(m *entity.Movement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	return &dto.MovementResponse{
		ID:           m.ID,
		Kind:         string(m.Kind),
		ItemID:       m.ItemID,
		Code:         m.Code,
		Description:  m.Description,
		Unit:         m.Unit,
		Quantity:     m.Quantity,
		Counterparty: m.Counterparty,
		Notes:        m.Notes,
		Date:         m.Date,
		Synthetic:    m.Synthetic,
	}
}

// ToKardexResponse convierte el kardex a DTO.
func ToKardexResponse(k *inventory.Kardex) *dto.KardexResponse {
	entries := make([]dto.KardexEntryResponse, 0, len(k.Entries))
	for _, e := range k.Entries {
		entries = append(entries, dto.KardexEntryResponse{
			Date:         e.Date,
			Direction:    e.Direction,
			Counterparty: e.Counterparty,
			Description:  e.Description,
			Notes:        e.Notes,
			Quantity:     e.Quantity,
			Unit:         e.Unit,
			OriginKind:   string(e.OriginKind),
			OriginID:     e.OriginID,
			Synthetic:    e.Synthetic,
		})
	}
	return &dto.KardexResponse{
		ItemID:      k.ItemID,
		Code:        k.Code,
		Name:        k.Name,
		Description: k.Description,
		Unit:        k.Unit,
		Location:    k.Location,
		Stock:       k.Stock,
		Entries:     entries,
	}
}

// ToPeriodReportResponse convierte las filas del reporte a DTO.
func ToPeriodReportResponse(p inventory.Period, rows []inventory.PeriodRow) *dto.PeriodReportResponse {
	out := make([]dto.PeriodReportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.PeriodReportRow{
			ItemID:            r.ItemID,
			Code:              r.Code,
			Name:              r.Name,
			Description:       r.Description,
			Location:          r.Location,
			Unit:              r.Unit,
			TotalIn:           r.TotalIn,
			TotalOut:          r.TotalOut,
			TotalInSynthetic:  r.TotalInSynthetic,
			TotalOutSynthetic: r.TotalOutSynthetic,
			StockAfter:        r.StockAfter,
		})
	}
	return &dto.PeriodReportResponse{From: p.Start, To: p.End, Rows: out}
}
