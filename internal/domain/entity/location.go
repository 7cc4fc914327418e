package entity

import "time"

// Location representa una ubicación física del silo donde se guardan items.
type Location struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
