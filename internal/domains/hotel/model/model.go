package model

import "stay/shared/model"

const (
	TableName  = "hotels"
	EntityName = "hotel"

	FieldID          = "id"
	FieldName        = "name"
	FieldAddress     = "address"
	FieldCity        = "city"
	FieldDescription = "description"
	FieldActive      = "active"
)

type Hotel struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Address     string `db:"address"`
	City        string `db:"city"`
	Description string `db:"description"`
	Active      bool   `db:"active"`
	model.Metadata
}
