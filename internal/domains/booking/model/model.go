package model

import (
	"stay/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID              = "id"
	FieldRoomID          = "room_id"
	FieldUserID          = "user_id"
	FieldCheckIn         = "check_in"
	FieldCheckOut        = "check_out"
	FieldStatus          = "status"
	FieldTotalAmount     = "total_amount"
	FieldDurationType    = "duration_type"
	FieldGuestCount      = "guest_count"
	FieldSpecialRequests = "special_requests"
	FieldPaymentStatus   = "payment_status"
)

const (
	StatusActive    = "ACTIVE"
	StatusCancelled = "CANCELLED"
	StatusCompleted = "COMPLETED"
)

// ConflictingStatuses lists the statuses that hold their room. A cancelled
// booking frees its interval immediately.
func ConflictingStatuses() []string {
	return []string{StatusActive, StatusCompleted}
}

func IsValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

type Booking struct {
	ID     string `db:"id"`
	RoomID string `db:"room_id"`
	UserID string `db:"user_id"`
	Interval
	Status          string  `db:"status"`
	TotalAmount     float64 `db:"total_amount"`
	DurationType    string  `db:"duration_type"`
	GuestCount      int     `db:"guest_count"`
	SpecialRequests string  `db:"special_requests"`
	PaymentStatus   string  `db:"payment_status"`
	model.Metadata
}
