package model

import "stay/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID         = "id"
	FieldHotelID    = "hotel_id"
	FieldRoomNumber = "room_number"
	FieldRoomType   = "room_type"
	FieldPrice      = "price"
	FieldCapacity   = "capacity"
	FieldImage      = "image"
	FieldActive     = "active"
)

type Room struct {
	ID         string  `db:"id"`
	HotelID    string  `db:"hotel_id"`
	RoomNumber string  `db:"room_number"`
	RoomType   string  `db:"room_type"`
	Price      float64 `db:"price"`
	Capacity   int     `db:"capacity"`
	Image      string  `db:"image"`
	Active     bool    `db:"active"`
	model.Metadata
}
