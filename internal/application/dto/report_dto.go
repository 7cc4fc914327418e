package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Kardex ────────────────────────────────────────────────────────────────────

// KardexEntryResponse una línea del kardex.
type KardexEntryResponse struct {
	Date         time.Time       `json:"date"`
	Direction    string          `json:"direction"` // IN | OUT
	Counterparty string          `json:"counterparty"`
	Description  string          `json:"description"`
	Notes        string          `json:"notes,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	OriginKind   string          `json:"origin_kind"` // RECEIPT | DELIVERY
	OriginID     string          `json:"origin_id"`
	Synthetic    bool            `json:"synthetic"`
}

// KardexResponse vista cronológica de un item.
type KardexResponse struct {
	ItemID      string                `json:"item_id"`
	Code        string                `json:"code"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Unit        string                `json:"unit"`
	Location    string                `json:"location"`
	Stock       decimal.Decimal       `json:"stock"`
	Entries     []KardexEntryResponse `json:"entries"`
}

// ── Reporte por periodo ───────────────────────────────────────────────────────

// PeriodReportRequest parámetros para GET /api/reports/period.
type PeriodReportRequest struct {
	From string `query:"from"` // YYYY-MM-DD
	To   string `query:"to"`   // YYYY-MM-DD
}

// PeriodReportRow totales de un item en el periodo.
type PeriodReportRow struct {
	ItemID            string          `json:"item_id"`
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Location          string          `json:"location"`
	Unit              string          `json:"unit"`
	TotalIn           decimal.Decimal `json:"total_in"`
	TotalOut          decimal.Decimal `json:"total_out"`
	TotalInSynthetic  decimal.Decimal `json:"total_in_synthetic"`
	TotalOutSynthetic decimal.Decimal `json:"total_out_synthetic"`
	StockAfter        decimal.Decimal `json:"stock_after"` // saldo actual, no histórico
}

// PeriodReportResponse reporte completo.
type PeriodReportResponse struct {
	From time.Time         `json:"from"`
	To   time.Time         `json:"to"`
	Rows []PeriodReportRow `json:"rows"`
}
