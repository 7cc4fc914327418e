package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementRequest body para POST/PUT de /api/receipts y /api/deliveries.
// ItemID es opcional: sin él, el item se resuelve por Code.
type MovementRequest struct {
	ItemID       string          `json:"item_id,omitempty"`
	Code         string          `json:"code"`
	Description  string          `json:"description"`
	Unit         string          `json:"unit"`
	Quantity     decimal.Decimal `json:"quantity"`
	Counterparty string          `json:"counterparty"` // recibido de / entregado a
	Notes        string          `json:"notes,omitempty"`
}

// MovementResponse salida de una recepción o entrega.
type MovementResponse struct {
	ID           string          `json:"id"`
	Kind         string          `json:"kind"` // RECEIPT | DELIVERY
	ItemID       string          `json:"item_id,omitempty"`
	Code         string          `json:"code"`
	Description  string          `json:"description"`
	Unit         string          `json:"unit"`
	Quantity     decimal.Decimal `json:"quantity"`
	Counterparty string          `json:"counterparty"`
	Notes        string          `json:"notes,omitempty"`
	Date         time.Time       `json:"date"`
	Synthetic    bool            `json:"synthetic"`
}

// MovementListResponse listado de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
}
