package entity

import "time"

// Category agrupa items; su nombre se muestra como nombre del item.
type Category struct {
	ID          string
	Name        string // único
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
