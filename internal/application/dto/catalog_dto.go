package dto

import "time"

// CatalogRequest body para crear o editar una categoría o ubicación.
type CatalogRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LocationResponse salida de una ubicación.
type LocationResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryListResponse listado de categorías.
type CategoryListResponse struct {
	Items []CategoryResponse `json:"items"`
}

// LocationListResponse listado de ubicaciones.
type LocationListResponse struct {
	Items []LocationResponse `json:"items"`
}
