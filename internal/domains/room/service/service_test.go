package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"stay/config"
	"stay/infras/otel/mocks"
	s3Mocks "stay/infras/s3/mocks"
	bookingMocks "stay/internal/domains/booking/mocks"
	bookingModel "stay/internal/domains/booking/model"
	roomMocks "stay/internal/domains/room/mocks"
	"stay/internal/domains/room/model"
	"stay/internal/domains/room/model/dto"
	"stay/internal/domains/room/service"
	cacheMocks "stay/shared/cache/mocks"
	"stay/shared/failure"
)

func activeRoom(id, hotelID, number string) model.Room {
	return model.Room{
		ID:         id,
		HotelID:    hotelID,
		RoomNumber: number,
		RoomType:   "standard",
		Price:      150,
		Capacity:   2,
		Active:     true,
	}
}

func conflictingBooking(roomID string) bookingModel.Booking {
	return bookingModel.Booking{
		ID:     "booking-" + roomID,
		RoomID: roomID,
		UserID: "user-1",
		Interval: bookingModel.NewInterval(
			time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC),
		),
		Status: bookingModel.StatusActive,
	}
}

func TestRoomService_Available(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := roomMocks.NewMockRoom(ctrl)
	mockBookingRepo := bookingMocks.NewMockBooking(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockS3 := s3Mocks.NewMockS3(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockBookingRepo, cfg, mockCache, mockOtel, mockS3)

	tests := []struct {
		name      string
		req       dto.AvailableRoomsRequest
		setupMock func()
		wantErr   bool
		wantCode  int
		wantRooms []string
	}{
		{
			name: "all rooms free",
			req: dto.AvailableRoomsRequest{
				HotelID:  "hotel-1",
				CheckIn:  "2026-03-01",
				CheckOut: "2026-03-05",
			},
			setupMock: func() {
				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Room{
						activeRoom("room-1", "hotel-1", "101"),
						activeRoom("room-2", "hotel-1", "102"),
					}, nil)

				mockBookingRepo.EXPECT().
					FindConflictingForRooms(gomock.Any(), []string{"room-1", "room-2"}, gomock.Any()).
					Return(nil, nil)
			},
			wantRooms: []string{"room-1", "room-2"},
		},
		{
			name: "conflicted room is excluded",
			req: dto.AvailableRoomsRequest{
				HotelID:  "hotel-1",
				CheckIn:  "2026-03-01",
				CheckOut: "2026-03-05",
			},
			setupMock: func() {
				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Room{
						activeRoom("room-1", "hotel-1", "101"),
						activeRoom("room-2", "hotel-1", "102"),
					}, nil)

				mockBookingRepo.EXPECT().
					FindConflictingForRooms(gomock.Any(), []string{"room-1", "room-2"}, gomock.Any()).
					Return([]bookingModel.Booking{conflictingBooking("room-1")}, nil)
			},
			wantRooms: []string{"room-2"},
		},
		{
			name: "no rooms in hotel",
			req: dto.AvailableRoomsRequest{
				HotelID:  "hotel-empty",
				CheckIn:  "2026-03-01",
				CheckOut: "2026-03-05",
			},
			setupMock: func() {
				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, nil)
			},
			wantRooms: []string{},
		},
		{
			name: "rfc3339 timestamps accepted",
			req: dto.AvailableRoomsRequest{
				HotelID:  "hotel-1",
				CheckIn:  "2026-03-01T14:00:00Z",
				CheckOut: "2026-03-05T11:00:00Z",
			},
			setupMock: func() {
				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Room{activeRoom("room-1", "hotel-1", "101")}, nil)

				mockBookingRepo.EXPECT().
					FindConflictingForRooms(gomock.Any(), []string{"room-1"}, gomock.Any()).
					Return(nil, nil)
			},
			wantRooms: []string{"room-1"},
		},
		{
			name: "malformed dates rejected",
			req: dto.AvailableRoomsRequest{
				HotelID:  "hotel-1",
				CheckIn:  "03/01/2026",
				CheckOut: "2026-03-05",
			},
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "check-out before check-in rejected",
			req: dto.AvailableRoomsRequest{
				HotelID:  "hotel-1",
				CheckIn:  "2026-03-05",
				CheckOut: "2026-03-01",
			},
			setupMock: func() {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "conflict query failure surfaces",
			req: dto.AvailableRoomsRequest{
				HotelID:  "hotel-1",
				CheckIn:  "2026-03-01",
				CheckOut: "2026-03-05",
			},
			setupMock: func() {
				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Room{activeRoom("room-1", "hotel-1", "101")}, nil)

				mockBookingRepo.EXPECT().
					FindConflictingForRooms(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Available(context.Background(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, len(tt.wantRooms), res.Total)
			assert.NotNil(t, res.Rooms)

			got := make([]string, len(res.Rooms))
			for i, room := range res.Rooms {
				got[i] = room.ID
			}
			assert.Equal(t, tt.wantRooms, got)
		})
	}
}

func TestRoomService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := roomMocks.NewMockRoom(ctrl)
	mockBookingRepo := bookingMocks.NewMockBooking(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockS3 := s3Mocks.NewMockS3(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockBookingRepo, cfg, mockCache, mockOtel, mockS3)

	t.Run("cache miss reads from repository", func(t *testing.T) {
		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(redis.Nil)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(activeRoom("room-1", "hotel-1", "101"), nil)

		mockCache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		res, err := svc.Get(context.Background(), "room-1")

		assert.NoError(t, err)
		assert.Equal(t, "room-1", res.ID)
		assert.Equal(t, "101", res.RoomNumber)

		time.Sleep(10 * time.Millisecond)
	})

	t.Run("unknown room returns not found", func(t *testing.T) {
		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(redis.Nil)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(model.Room{}, nil)

		_, err := svc.Get(context.Background(), "missing")

		assert.Error(t, err)
		assert.True(t, failure.IsNotFound(err))
	})
}

func TestRoomService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := roomMocks.NewMockRoom(ctrl)
	mockBookingRepo := bookingMocks.NewMockBooking(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockS3 := s3Mocks.NewMockS3(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockBookingRepo, cfg, mockCache, mockOtel, mockS3)

	t.Run("successful delete", func(t *testing.T) {
		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		mockRepo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil)

		mockCache.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		mockCache.EXPECT().
			Clear(gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		err := svc.Delete(context.Background(), "room-1")

		assert.NoError(t, err)

		time.Sleep(10 * time.Millisecond)
	})

	t.Run("missing room returns not found", func(t *testing.T) {
		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		err := svc.Delete(context.Background(), "missing")

		assert.Error(t, err)
		assert.True(t, failure.IsNotFound(err))
	})
}
