package inventory

import (
	"strings"

	"github.com/jhoicas/inventario-silo/internal/domain/entity"
)

// Selector identifica los movimientos atribuidos a un item: los que lo referencian
// por id y, entre los que no tienen referencia, los que llevan su código.
// Lo usan por igual las búsquedas, las cascadas y la propagación de identidad.
type Selector struct {
	ItemID     string
	LegacyCode string
}

// SelectorFor arma el selector del item con su código actual.
func SelectorFor(item *entity.Item) Selector {
	return Selector{ItemID: item.ID, LegacyCode: item.Code}
}

// Empty indica que el selector no alcanza ninguna fila.
func (s Selector) Empty() bool {
	return s.ItemID == "" && strings.TrimSpace(s.LegacyCode) == ""
}

// Matches aplica la regla de resolución a un movimiento.
func (s Selector) Matches(m *entity.Movement) bool {
	if s.ItemID != "" && m.ItemID == s.ItemID {
		return true
	}
	if strings.TrimSpace(m.ItemID) != "" {
		return false
	}
	code := strings.TrimSpace(s.LegacyCode)
	return code != "" && strings.EqualFold(strings.TrimSpace(m.Code), code)
}

// LegacyKey normaliza un código para agrupar filas heredadas.
func LegacyKey(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
