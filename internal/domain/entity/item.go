package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un material del silo con su saldo actual.
// Name y Location son copias del nombre de la categoría y la ubicación para listar sin joins.
type Item struct {
	ID          string
	CategoryID  string
	LocationID  string
	Code        string // canónico en mayúsculas, único sin distinguir mayúsculas
	Name        string
	Description string
	Unit        string
	Stock       decimal.Decimal // nunca negativo
	Location    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Snapshot devuelve la identidad que se copia en cada movimiento del item.
func (i *Item) Snapshot() Snapshot {
	return Snapshot{Code: i.Code, Description: i.Description, Unit: i.Unit}
}

// Clone copia el item para no compartir punteros entre capas.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}
