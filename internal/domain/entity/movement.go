package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind distingue recepciones (entradas) de entregas (salidas).
type MovementKind string

const (
	MovementReceipt  MovementKind = "RECEIPT"
	MovementDelivery MovementKind = "DELIVERY"
)

// Dirección del movimiento tal como aparece en el kardex.
const (
	DirectionIn  = "IN"
	DirectionOut = "OUT"
)

// SyntheticCounterparty es la contraparte de los movimientos generados por
// ediciones directas del stock ("sin registro").
const SyntheticCounterparty = "S/R"

// MovementKinds lista ambas colecciones en el orden en que se recorren.
var MovementKinds = []MovementKind{MovementReceipt, MovementDelivery}

// Valid indica si el tipo es conocido.
func (k MovementKind) Valid() bool {
	return k == MovementReceipt || k == MovementDelivery
}

// Sign devuelve +1 para recepciones y -1 para entregas.
func (k MovementKind) Sign() decimal.Decimal {
	if k == MovementDelivery {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}

// Direction devuelve IN u OUT.
func (k MovementKind) Direction() string {
	if k == MovementDelivery {
		return DirectionOut
	}
	return DirectionIn
}

// Snapshot es la copia de la identidad del item guardada en el movimiento.
type Snapshot struct {
	Code        string
	Description string
	Unit        string
}

// Movement es una recepción o una entrega. Ambas comparten forma; Kind decide el signo.
// ItemID vacío marca una fila heredada que solo se asocia al item por Code.
type Movement struct {
	ID           string
	Kind         MovementKind
	ItemID       string
	Code         string
	Description  string
	Unit         string
	Quantity     decimal.Decimal // siempre > 0
	Counterparty string          // proveedor en recepciones, receptor en entregas
	Notes        string
	Date         time.Time
	Synthetic    bool
}

// IsLegacy indica que el movimiento no tiene referencia al item.
func (m *Movement) IsLegacy() bool {
	return m.ItemID == ""
}

// Apply copia la identidad del item en el movimiento y lo ancla a su referencia.
func (m *Movement) Apply(itemID string, s Snapshot) {
	m.ItemID = itemID
	m.Code = s.Code
	m.Description = s.Description
	m.Unit = s.Unit
}

// Clone copia el movimiento.
func (m *Movement) Clone() *Movement {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}
