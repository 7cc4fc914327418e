package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemRequest body para crear o reemplazar un item.
// En la edición, Stock distinto del actual genera un movimiento sintético.
type ItemRequest struct {
	CategoryID  string          `json:"category_id"`
	LocationID  string          `json:"location_id"`
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	Stock       decimal.Decimal `json:"stock"`
}

// ItemResponse salida de un item.
type ItemResponse struct {
	ID          string          `json:"id"`
	CategoryID  string          `json:"category_id"`
	LocationID  string          `json:"location_id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	Stock       decimal.Decimal `json:"stock"`
	Location    string          `json:"location"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ItemListResponse listado de items.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
}
