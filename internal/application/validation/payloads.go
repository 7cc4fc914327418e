package validation

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-silo/internal/application/dto"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
)

// Movement entrada normalizada de una recepción o entrega.
type Movement struct {
	ItemID       string
	Code         string
	Snapshot     entity.Snapshot
	Quantity     decimal.Decimal
	Counterparty string
	Notes        string
}

// MovementRequest normaliza el body de una recepción o entrega.
func MovementRequest(in dto.MovementRequest) (Movement, error) {
	itemID, err := OptionalID("item_id", in.ItemID)
	if err != nil {
		return Movement{}, err
	}
	code, err := Code("code", in.Code, MaxCodeLength, true)
	if err != nil {
		return Movement{}, err
	}
	counterparty, err := Text("counterparty", in.Counterparty, MaxCounterpartyLength, TextOptions{TitleCase: true})
	if err != nil {
		return Movement{}, err
	}
	description, err := Text("description", in.Description, MaxDescriptionLength, TextOptions{AllowAnyChar: true})
	if err != nil {
		return Movement{}, err
	}
	unit, err := Unit("unit", in.Unit)
	if err != nil {
		return Movement{}, err
	}
	qty, err := Quantity("quantity", in.Quantity, MovementMinQuantity, MovementMaxQuantity)
	if err != nil {
		return Movement{}, err
	}
	return Movement{
		ItemID:       itemID,
		Code:         code,
		Snapshot:     entity.Snapshot{Code: code, Description: description, Unit: unit},
		Quantity:     qty,
		Counterparty: counterparty,
		Notes:        OptionalText(in.Notes, MaxNotesLength, true),
	}, nil
}

// Item entrada normalizada de un item.
type Item struct {
	CategoryID  string
	LocationID  string
	Code        string
	Description string
	Unit        string
	Stock       decimal.Decimal
}

// ItemRequest normaliza el body de un item.
func ItemRequest(in dto.ItemRequest) (Item, error) {
	categoryID, err := ID("category_id", in.CategoryID)
	if err != nil {
		return Item{}, err
	}
	locationID, err := ID("location_id", in.LocationID)
	if err != nil {
		return Item{}, err
	}
	code, err := Code("code", in.Code, MaxCodeLength, true)
	if err != nil {
		return Item{}, err
	}
	description, err := Text("description", in.Description, MaxDescriptionLength, TextOptions{AllowAnyChar: true})
	if err != nil {
		return Item{}, err
	}
	stock, err := Quantity("stock", in.Stock, ItemMinStock, ItemMaxStock)
	if err != nil {
		return Item{}, err
	}
	unit, err := Unit("unit", in.Unit)
	if err != nil {
		return Item{}, err
	}
	return Item{
		CategoryID:  categoryID,
		LocationID:  locationID,
		Code:        code,
		Description: description,
		Unit:        unit,
		Stock:       stock,
	}, nil
}

// Catalog entrada normalizada de una categoría o ubicación.
type Catalog struct {
	Name        string
	Description string
}

// CatalogRequest normaliza el body de una categoría o ubicación.
func CatalogRequest(in dto.CatalogRequest) (Catalog, error) {
	name, err := Text("name", in.Name, MaxNameLength, TextOptions{TitleCase: true})
	if err != nil {
		return Catalog{}, err
	}
	var description string
	if in.Description != "" {
		description, err = Text("description", in.Description, MaxDescriptionLength, TextOptions{})
		if err != nil {
			return Catalog{}, err
		}
	}
	return Catalog{Name: name, Description: description}, nil
}
