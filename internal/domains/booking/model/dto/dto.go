package dto

import (
	"time"

	"stay/internal/domains/booking/model"
	"stay/shared"
	gDto "stay/shared/dto"
	gModel "stay/shared/model"
	"stay/shared/timezone"

	"github.com/google/uuid"
)

const dateFormat = "2006-01-02"

type SaveBookingRequest struct {
	RoomID          string  `json:"room_id"          validate:"required"`
	UserID          string  `json:"user_id"          validate:"omitempty"`
	CheckIn         string  `json:"check_in"         validate:"required"`
	CheckOut        string  `json:"check_out"        validate:"required"`
	Status          string  `json:"status"           validate:"omitempty,oneof=ACTIVE CANCELLED COMPLETED"`
	TotalAmount     float64 `json:"total_amount"     validate:"omitempty,min=0"`
	DurationType    string  `json:"duration_type"    validate:"omitempty,max=20"`
	GuestCount      int     `json:"guest_count"      validate:"omitempty,min=0"`
	SpecialRequests string  `json:"special_requests" validate:"omitempty"`
	PaymentStatus   string  `json:"payment_status"   validate:"omitempty,max=30"`
}

// Interval parses the requested stay range. Date-only values are accepted
// alongside RFC3339 timestamps.
func (r *SaveBookingRequest) Interval() (model.Interval, error) {
	checkIn, err := parseTime(r.CheckIn)
	if err != nil {
		return model.Interval{}, err
	}

	checkOut, err := parseTime(r.CheckOut)
	if err != nil {
		return model.Interval{}, err
	}

	return model.NewInterval(checkIn, checkOut), nil
}

func parseTime(value string) (time.Time, error) {
	if parsed, err := time.Parse(dateFormat, value); err == nil {
		return parsed, nil
	}

	return time.Parse(time.RFC3339, value)
}

func (r *SaveBookingRequest) ToModel(user string, interval model.Interval) model.Booking {
	status := model.StatusActive
	if r.Status != "" {
		status = r.Status
	}

	userID := r.UserID
	if userID == "" {
		userID = user
	}

	return model.Booking{
		ID:              uuid.NewString(),
		RoomID:          r.RoomID,
		UserID:          userID,
		Interval:        interval,
		Status:          status,
		TotalAmount:     r.TotalAmount,
		DurationType:    r.DurationType,
		GuestCount:      r.GuestCount,
		SpecialRequests: r.SpecialRequests,
		PaymentStatus:   r.PaymentStatus,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// ApplyTo carries the request fields onto an existing booking, keeping its
// identity and creation metadata.
func (r *SaveBookingRequest) ApplyTo(existing model.Booking, user string, interval model.Interval) model.Booking {
	updated := existing

	updated.RoomID = r.RoomID
	updated.Interval = interval

	if r.UserID != "" {
		updated.UserID = r.UserID
	}

	if r.Status != "" {
		updated.Status = r.Status
	}

	if r.TotalAmount != 0 {
		updated.TotalAmount = r.TotalAmount
	}

	if r.DurationType != "" {
		updated.DurationType = r.DurationType
	}

	if r.GuestCount != 0 {
		updated.GuestCount = r.GuestCount
	}

	if r.SpecialRequests != "" {
		updated.SpecialRequests = r.SpecialRequests
	}

	if r.PaymentStatus != "" {
		updated.PaymentStatus = r.PaymentStatus
	}

	updated.ModifiedAt = timezone.Now()
	updated.ModifiedBy = user

	return updated
}

type BookingResponse struct {
	ID              string  `json:"id"`
	RoomID          string  `json:"room_id"`
	UserID          string  `json:"user_id"`
	CheckIn         string  `json:"check_in"`
	CheckOut        string  `json:"check_out"`
	Status          string  `json:"status"`
	TotalAmount     float64 `json:"total_amount"`
	DurationType    string  `json:"duration_type"`
	GuestCount      int     `json:"guest_count"`
	SpecialRequests string  `json:"special_requests"`
	PaymentStatus   string  `json:"payment_status"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.RoomID = model.RoomID
	r.UserID = model.UserID
	r.CheckIn = model.CheckIn.Format(time.RFC3339)
	r.CheckOut = model.CheckOut.Format(time.RFC3339)
	r.Status = model.Status
	r.TotalAmount = model.TotalAmount
	r.DurationType = model.DurationType
	r.GuestCount = model.GuestCount
	r.SpecialRequests = model.SpecialRequests
	r.PaymentStatus = model.PaymentStatus
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type CheckAvailabilityRequest struct {
	RoomIDs  []string `json:"room_ids"  validate:"required,min=1,dive,required"`
	CheckIn  string   `json:"check_in"  validate:"required"`
	CheckOut string   `json:"check_out" validate:"required"`
}

func (r *CheckAvailabilityRequest) Interval() (model.Interval, error) {
	checkIn, err := parseTime(r.CheckIn)
	if err != nil {
		return model.Interval{}, err
	}

	checkOut, err := parseTime(r.CheckOut)
	if err != nil {
		return model.Interval{}, err
	}

	return model.NewInterval(checkIn, checkOut), nil
}

type AvailabilityResponse struct {
	Availability map[string]bool `json:"availability"`
}

const (
	EventBookingCreated   = "booking.created"
	EventBookingUpdated   = "booking.updated"
	EventBookingCancelled = "booking.cancelled"
)

type BookingEvent struct {
	Type       string    `json:"type"`
	BookingID  string    `json:"booking_id"`
	RoomID     string    `json:"room_id"`
	UserID     string    `json:"user_id"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewBookingEvent(eventType string, booking model.Booking) BookingEvent {
	return BookingEvent{
		Type:       eventType,
		BookingID:  booking.ID,
		RoomID:     booking.RoomID,
		UserID:     booking.UserID,
		CheckIn:    booking.CheckIn,
		CheckOut:   booking.CheckOut,
		Status:     booking.Status,
		OccurredAt: timezone.Now(),
	}
}
