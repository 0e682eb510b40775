package dto

import (
	"mime/multipart"
	"time"

	bookingModel "stay/internal/domains/booking/model"
	"stay/internal/domains/room/model"
	"stay/shared"
	gDto "stay/shared/dto"
	gModel "stay/shared/model"
	"stay/shared/timezone"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	HotelID    string                `json:"hotel_id"    validate:"required"`
	RoomNumber string                `json:"room_number" validate:"required,max=20"`
	RoomType   string                `json:"room_type"   validate:"omitempty,max=50"`
	Price      float64               `json:"price"       validate:"omitempty,min=0"`
	Capacity   int                   `json:"capacity"    validate:"omitempty,min=0"`
	Image      *multipart.FileHeader `json:"image"       validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile  multipart.File        `json:"-"`
	Active     *bool                 `json:"active"      validate:"omitempty"`
}

func (c *CreateRoomRequest) ToModel(user string, imageURL string) model.Room {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Room{
		ID:         uuid.NewString(),
		HotelID:    c.HotelID,
		RoomNumber: c.RoomNumber,
		RoomType:   c.RoomType,
		Price:      c.Price,
		Capacity:   c.Capacity,
		Image:      imageURL,
		Active:     active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomRequest struct {
	RoomNumber string                `db:"room_number" json:"room_number"                                                          validate:"omitempty,max=20"`
	RoomType   string                `db:"room_type"   json:"room_type"                                                            validate:"omitempty,max=50"`
	Price      *float64              `db:"price"       json:"price"                                                                validate:"omitempty,min=0"`
	Capacity   *int                  `db:"capacity"    json:"capacity"                                                             validate:"omitempty,min=0"`
	Image      *multipart.FileHeader `json:"image"     validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile  multipart.File        `json:"-"`
	Active     *bool                 `db:"active"      json:"active"                                                               validate:"omitempty"`
}

type RoomResponse struct {
	ID         string  `json:"id"`
	HotelID    string  `json:"hotel_id"`
	RoomNumber string  `json:"room_number"`
	RoomType   string  `json:"room_type"`
	Price      float64 `json:"price"`
	Capacity   int     `json:"capacity"`
	Image      string  `json:"image"`
	Active     bool    `json:"active"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.HotelID = model.HotelID
	r.RoomNumber = model.RoomNumber
	r.RoomType = model.RoomType
	r.Price = model.Price
	r.Capacity = model.Capacity
	r.Image = model.Image
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

type AvailableRoomsRequest struct {
	HotelID  string `json:"hotel_id"  validate:"required"`
	CheckIn  string `json:"check_in"  validate:"required"`
	CheckOut string `json:"check_out" validate:"required"`
}

// Interval parses the requested stay range. Date-only values are accepted
// alongside RFC3339 timestamps.
func (r *AvailableRoomsRequest) Interval() (bookingModel.Interval, error) {
	checkIn, err := parseTime(r.CheckIn)
	if err != nil {
		return bookingModel.Interval{}, err
	}

	checkOut, err := parseTime(r.CheckOut)
	if err != nil {
		return bookingModel.Interval{}, err
	}

	return bookingModel.NewInterval(checkIn, checkOut), nil
}

func parseTime(value string) (time.Time, error) {
	if parsed, err := time.Parse("2006-01-02", value); err == nil {
		return parsed, nil
	}

	return time.Parse(time.RFC3339, value)
}

type AvailableRoomsResponse struct {
	Rooms []RoomResponse `json:"rooms"`
	Total int            `json:"total"`
}

func (r *AvailableRoomsResponse) FromModels(models []model.Room) {
	r.Total = len(models)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
