package model

import "stay/shared/model"

const (
	TableName  = "notifications"
	EntityName = "notification"

	FieldID        = "id"
	FieldUserID    = "user_id"
	FieldBookingID = "booking_id"
	FieldType      = "type"
	FieldTitle     = "title"
	FieldMessage   = "message"
	FieldRead      = "read"
)

type Notification struct {
	ID        string `db:"id"`
	UserID    string `db:"user_id"`
	BookingID string `db:"booking_id"`
	Type      string `db:"type"`
	Title     string `db:"title"`
	Message   string `db:"message"`
	Read      bool   `db:"read"`
	model.Metadata
}
