package dto

import (
	"fmt"
	"time"

	bookingDto "stay/internal/domains/booking/model/dto"
	"stay/internal/domains/notification/model"
	"stay/shared"
	gDto "stay/shared/dto"
	gModel "stay/shared/model"
	"stay/shared/timezone"

	"github.com/google/uuid"
)

const stayDateFormat = "02 Jan 2006"

// FromBookingEvent builds the notification row for a booking lifecycle event.
func FromBookingEvent(event bookingDto.BookingEvent) model.Notification {
	var title, message string

	stay := fmt.Sprintf("%s to %s",
		event.CheckIn.Format(stayDateFormat),
		event.CheckOut.Format(stayDateFormat),
	)

	switch event.Type {
	case bookingDto.EventBookingCreated:
		title = "Booking confirmed"
		message = fmt.Sprintf("Your booking for %s is confirmed.", stay)
	case bookingDto.EventBookingUpdated:
		title = "Booking updated"
		message = fmt.Sprintf("Your booking was updated. New stay: %s.", stay)
	case bookingDto.EventBookingCancelled:
		title = "Booking cancelled"
		message = fmt.Sprintf("Your booking for %s was cancelled.", stay)
	default:
		title = "Booking notice"
		message = fmt.Sprintf("Your booking for %s changed.", stay)
	}

	return model.Notification{
		ID:        uuid.NewString(),
		UserID:    event.UserID,
		BookingID: event.BookingID,
		Type:      event.Type,
		Title:     title,
		Message:   message,
		Read:      false,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  "system",
			ModifiedBy: "system",
		},
	}
}

type NotificationResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	BookingID string `json:"booking_id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

func (r *NotificationResponse) FromModel(model model.Notification) {
	r.ID = model.ID
	r.UserID = model.UserID
	r.BookingID = model.BookingID
	r.Type = model.Type
	r.Title = model.Title
	r.Message = model.Message
	r.Read = model.Read
	r.CreatedAt = model.CreatedAt.Format(time.RFC3339)
}

type GetNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	TotalPage     int                    `json:"total_page"`
	TotalData     int                    `json:"total_data"`
}

func (r *GetNotificationsResponse) FromModels(models []model.Notification, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Notifications = make([]NotificationResponse, len(models))
	for i, mod := range models {
		r.Notifications[i].FromModel(mod)
	}
}

// FilterByUser scopes notification queries to one recipient.
func FilterByUser(userID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldUserID,
				Operator: gDto.FilterOperatorEq,
				Value:    userID,
				Table:    model.TableName,
			},
		},
	}
}
