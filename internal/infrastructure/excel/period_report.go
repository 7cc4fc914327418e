package excel

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/inventario-silo/internal/application/inventory"
	domain "github.com/jhoicas/inventario-silo/internal/domain/inventory"
)

const sheetName = "Reporte"

var _ inventory.PeriodReportRenderer = (*PeriodReportWriter)(nil)

var header = []interface{}{
	"Código", "Nombre", "Descripción", "Ubicación", "Unidad",
	"Entradas", "Salidas", "Entradas S/R", "Salidas S/R", "Saldo",
}

// PeriodReportWriter genera el reporte por periodo como libro XLSX.
type PeriodReportWriter struct{}

// NewPeriodReportWriter construye el generador.
func NewPeriodReportWriter() *PeriodReportWriter {
	return &PeriodReportWriter{}
}

// RenderPeriodReport escribe título en A1, encabezado en la fila 3 y una fila por item.
func (w *PeriodReportWriter) RenderPeriodReport(ctx context.Context, period domain.Period, rows []domain.PeriodRow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheetName); err != nil {
		return nil, fmt.Errorf("excel: renombrar hoja: %w", err)
	}

	title := fmt.Sprintf("Movimientos del %s al %s",
		period.Start.Format("02/01/2006"), period.End.Format("02/01/2006"))
	if err := f.SetCellValue(sheetName, "A1", title); err != nil {
		return nil, fmt.Errorf("excel: título: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A3", &header); err != nil {
		return nil, fmt.Errorf("excel: encabezado: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("excel: estilo: %w", err)
	}
	_ = f.SetCellStyle(sheetName, "A1", "A1", bold)
	_ = f.SetCellStyle(sheetName, "A3", "J3", bold)

	row := 4
	for _, r := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		values := []interface{}{
			r.Code, r.Name, r.Description, r.Location, r.Unit,
			r.TotalIn.InexactFloat64(),
			r.TotalOut.InexactFloat64(),
			r.TotalInSynthetic.InexactFloat64(),
			r.TotalOutSynthetic.InexactFloat64(),
			r.StockAfter.InexactFloat64(),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("excel: celda: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("excel: fila %d: %w", row, err)
		}
		row++
	}
	_ = f.SetColWidth(sheetName, "A", "A", 14)
	_ = f.SetColWidth(sheetName, "B", "D", 24)

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("excel: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
