package excel

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	domain "github.com/jhoicas/inventario-silo/internal/domain/inventory"
)

func TestRenderPeriodReport(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	period, err := domain.NewPeriod(from, from.AddDate(0, 0, 30), time.UTC)
	require.NoError(t, err)

	rows := []domain.PeriodRow{{
		Code: "CEM-01", Name: "Cemento", Description: "Cemento gris", Location: "Galpón A", Unit: "UND",
		TotalIn: decimal.NewFromInt(10), TotalOut: decimal.RequireFromString("4.5"),
		TotalInSynthetic: decimal.Zero, TotalOutSynthetic: decimal.NewFromInt(3),
		StockAfter: decimal.RequireFromString("5.5"),
	}}

	data, err := NewPeriodReportWriter().RenderPeriodReport(context.Background(), period, rows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Movimientos del 01/03/2024 al 31/03/2024", title)

	got, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, "Código", got[2][0])
	assert.Equal(t, []string{"CEM-01", "Cemento", "Cemento gris", "Galpón A", "UND", "10", "4.5", "0", "3", "5.5"}, got[3])
}

func TestRenderPeriodReport_SinItems(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	period, err := domain.NewPeriod(day, day, time.UTC)
	require.NoError(t, err)

	data, err := NewPeriodReportWriter().RenderPeriodReport(context.Background(), period, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
