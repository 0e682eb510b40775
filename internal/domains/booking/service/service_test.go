package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"stay/config"
	kafkaMocks "stay/infras/kafka/mocks"
	"stay/infras/otel/mocks"
	bookingMocks "stay/internal/domains/booking/mocks"
	"stay/internal/domains/booking/model"
	"stay/internal/domains/booking/model/dto"
	"stay/internal/domains/booking/service"
	roomMocks "stay/internal/domains/room/mocks"
	userMocks "stay/internal/domains/user/mocks"
	cacheMocks "stay/shared/cache/mocks"
	"stay/shared/constant"
	"stay/shared/failure"
	gModel "stay/shared/model"
	"stay/shared/timezone"
)

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func existingBooking(id, roomID string, checkIn, checkOut time.Time) model.Booking {
	return model.Booking{
		ID:       id,
		RoomID:   roomID,
		UserID:   "user-1",
		Interval: model.NewInterval(checkIn, checkOut),
		Status:   model.StatusActive,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  "user-1",
			ModifiedBy: "user-1",
		},
	}
}

func TestBookingService_SaveOrUpdate_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockRoomRepo := roomMocks.NewMockRoom(ctrl)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockRoomRepo, mockUserRepo, cfg, mockCache, mockOtel, mockKafka)

	tests := []struct {
		name         string
		req          dto.SaveBookingRequest
		setupMock    func()
		wantErr      bool
		wantConflict bool
	}{
		{
			name: "successful creation",
			req: dto.SaveBookingRequest{
				RoomID:   "room-1",
				CheckIn:  "2026-03-01",
				CheckOut: "2026-03-05",
			},
			setupMock: func() {
				mockRoomRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockUserRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					FindConflicting(gomock.Any(), "room-1", gomock.Any(), "").
					Return(nil, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				mockKafka.EXPECT().
					SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()

				mockCache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name: "overlapping booking rejected",
			req: dto.SaveBookingRequest{
				RoomID:   "room-1",
				CheckIn:  "2026-03-01",
				CheckOut: "2026-03-05",
			},
			setupMock: func() {
				mockRoomRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockUserRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					FindConflicting(gomock.Any(), "room-1", gomock.Any(), "").
					Return([]model.Booking{existingBooking("other", "room-1", day(3), day(8))}, nil)
			},
			wantErr:      true,
			wantConflict: true,
		},
		{
			name: "check-in after check-out",
			req: dto.SaveBookingRequest{
				RoomID:   "room-1",
				CheckIn:  "2026-03-05",
				CheckOut: "2026-03-01",
			},
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name: "unparseable dates",
			req: dto.SaveBookingRequest{
				RoomID:   "room-1",
				CheckIn:  "not-a-date",
				CheckOut: "2026-03-05",
			},
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name: "room does not exist",
			req: dto.SaveBookingRequest{
				RoomID:   "missing-room",
				CheckIn:  "2026-03-01",
				CheckOut: "2026-03-05",
			},
			setupMock: func() {
				mockRoomRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr: true,
		},
		{
			name: "conflict read fails",
			req: dto.SaveBookingRequest{
				RoomID:   "room-1",
				CheckIn:  "2026-03-01",
				CheckOut: "2026-03-05",
			},
			setupMock: func() {
				mockRoomRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockUserRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					FindConflicting(gomock.Any(), "room-1", gomock.Any(), "").
					Return(nil, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "user-1")
			res, err := svc.SaveOrUpdate(ctx, tt.req, "")

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantConflict {
					assert.True(t, failure.IsConflict(err))
				}
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, res.ID)
				assert.Equal(t, model.StatusActive, res.Status)
			}
		})
	}
}

func TestBookingService_SaveOrUpdate_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockRoomRepo := roomMocks.NewMockRoom(ctrl)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockRoomRepo, mockUserRepo, cfg, mockCache, mockOtel, mockKafka)

	tests := []struct {
		name         string
		req          dto.SaveBookingRequest
		id           string
		setupMock    func()
		wantErr      bool
		wantConflict bool
	}{
		{
			name: "payload-only update skips the conflict read",
			req: dto.SaveBookingRequest{
				RoomID:          "room-1",
				CheckIn:         "2026-03-01",
				CheckOut:        "2026-03-05",
				SpecialRequests: "late arrival",
			},
			id: "booking-1",
			setupMock: func() {
				mockRoomRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(existingBooking("booking-1", "room-1", day(1), day(5)), nil)

				// no FindConflicting expectation: the interval is unchanged

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				mockKafka.EXPECT().
					SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()

				mockCache.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()

				mockCache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name: "changed interval re-validates and excludes itself",
			req: dto.SaveBookingRequest{
				RoomID:   "room-1",
				CheckIn:  "2026-03-02",
				CheckOut: "2026-03-06",
			},
			id: "booking-1",
			setupMock: func() {
				mockRoomRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(existingBooking("booking-1", "room-1", day(1), day(5)), nil)

				mockRepo.EXPECT().
					FindConflicting(gomock.Any(), "room-1", gomock.Any(), "booking-1").
					Return(nil, nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				mockKafka.EXPECT().
					SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()

				mockCache.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()

				mockCache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name: "changed interval hits a conflict",
			req: dto.SaveBookingRequest{
				RoomID:   "room-1",
				CheckIn:  "2026-03-02",
				CheckOut: "2026-03-06",
			},
			id: "booking-1",
			setupMock: func() {
				mockRoomRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(existingBooking("booking-1", "room-1", day(1), day(5)), nil)

				mockRepo.EXPECT().
					FindConflicting(gomock.Any(), "room-1", gomock.Any(), "booking-1").
					Return([]model.Booking{existingBooking("other", "room-1", day(4), day(8))}, nil)
			},
			wantErr:      true,
			wantConflict: true,
		},
		{
			name: "booking not found",
			req: dto.SaveBookingRequest{
				RoomID:   "room-1",
				CheckIn:  "2026-03-01",
				CheckOut: "2026-03-05",
			},
			id: "missing-booking",
			setupMock: func() {
				mockRoomRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "user-1")
			_, err := svc.SaveOrUpdate(ctx, tt.req, tt.id)

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantConflict {
					assert.True(t, failure.IsConflict(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingService_CheckAvailability(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockRoomRepo := roomMocks.NewMockRoom(ctrl)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, mockRoomRepo, mockUserRepo, cfg, mockCache, mockOtel, mockKafka)

	t.Run("partitions rooms by conflict", func(t *testing.T) {
		mockRepo.EXPECT().
			FindConflictingForRooms(gomock.Any(), []string{"room-1", "room-2", "room-3"}, gomock.Any()).
			Return([]model.Booking{existingBooking("b", "room-2", day(2), day(4))}, nil)

		res, err := svc.CheckAvailability(context.Background(), dto.CheckAvailabilityRequest{
			RoomIDs:  []string{"room-1", "room-2", "room-3"},
			CheckIn:  "2026-03-01",
			CheckOut: "2026-03-05",
		})

		assert.NoError(t, err)
		assert.Equal(t, map[string]bool{
			"room-1": true,
			"room-2": false,
			"room-3": true,
		}, res.Availability)
	})

	t.Run("invalid interval", func(t *testing.T) {
		_, err := svc.CheckAvailability(context.Background(), dto.CheckAvailabilityRequest{
			RoomIDs:  []string{"room-1"},
			CheckIn:  "2026-03-05",
			CheckOut: "2026-03-01",
		})

		assert.Error(t, err)
	})

	t.Run("bulk read error", func(t *testing.T) {
		mockRepo.EXPECT().
			FindConflictingForRooms(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("database error"))

		_, err := svc.CheckAvailability(context.Background(), dto.CheckAvailabilityRequest{
			RoomIDs:  []string{"room-1"},
			CheckIn:  "2026-03-01",
			CheckOut: "2026-03-05",
		})

		assert.Error(t, err)
	})
}

func TestBookingService_Cancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockRoomRepo := roomMocks.NewMockRoom(ctrl)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, mockRoomRepo, mockUserRepo, cfg, mockCache, mockOtel, mockKafka)

	t.Run("successful cancel", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(existingBooking("booking-1", "room-1", day(1), day(5)), nil)

		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		mockKafka.EXPECT().
			SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		mockCache.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		mockCache.EXPECT().
			Clear(gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		err := svc.Cancel(context.Background(), "booking-1")

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})

	t.Run("already cancelled", func(t *testing.T) {
		cancelled := existingBooking("booking-1", "room-1", day(1), day(5))
		cancelled.Status = model.StatusCancelled

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(cancelled, nil)

		err := svc.Cancel(context.Background(), "booking-1")

		assert.Error(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{}, nil)

		err := svc.Cancel(context.Background(), "missing")

		assert.Error(t, err)
		assert.True(t, failure.IsNotFound(err))
	})
}

func TestBookingService_Lifecycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRoomRepo := roomMocks.NewMockRoom(ctrl)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	mockRoomRepo.EXPECT().
		Exist(gomock.Any(), gomock.Any()).
		Return(true, nil).
		AnyTimes()

	mockKafka.EXPECT().
		SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	mockCache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	mockCache.EXPECT().
		Delete(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	cfg := &config.Config{}
	store := newMemoryBookingStore()

	svc := service.New(store, mockRoomRepo, mockUserRepo, cfg, mockCache, mockOtel, mockKafka)
	ctx := context.Background()

	first, err := svc.SaveOrUpdate(ctx, dto.SaveBookingRequest{
		RoomID:   "room-1",
		CheckIn:  "2026-03-01",
		CheckOut: "2026-03-05",
	}, "")
	assert.NoError(t, err)

	_, err = svc.SaveOrUpdate(ctx, dto.SaveBookingRequest{
		RoomID:   "room-1",
		CheckIn:  "2026-03-03",
		CheckOut: "2026-03-07",
	}, "")
	assert.True(t, failure.IsConflict(err))

	// moving the first booking to another room frees its old slot
	_, err = svc.SaveOrUpdate(ctx, dto.SaveBookingRequest{
		RoomID:   "room-2",
		CheckIn:  "2026-03-01",
		CheckOut: "2026-03-05",
	}, first.ID)
	assert.NoError(t, err)

	second, err := svc.SaveOrUpdate(ctx, dto.SaveBookingRequest{
		RoomID:   "room-1",
		CheckIn:  "2026-03-03",
		CheckOut: "2026-03-07",
	}, "")
	assert.NoError(t, err)

	// cancelling releases the interval for rebooking
	assert.NoError(t, svc.Cancel(ctx, second.ID))

	_, err = svc.SaveOrUpdate(ctx, dto.SaveBookingRequest{
		RoomID:   "room-1",
		CheckIn:  "2026-03-03",
		CheckOut: "2026-03-07",
	}, "")
	assert.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
}

func TestBookingService_ConcurrentCreatesSerialize(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRoomRepo := roomMocks.NewMockRoom(ctrl)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	mockRoomRepo.EXPECT().
		Exist(gomock.Any(), gomock.Any()).
		Return(true, nil).
		AnyTimes()

	mockKafka.EXPECT().
		SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	mockCache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	cfg := &config.Config{}
	store := newMemoryBookingStore()

	svc := service.New(store, mockRoomRepo, mockUserRepo, cfg, mockCache, mockOtel, mockKafka)

	const attempts = 16

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)

	for range attempts {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := svc.SaveOrUpdate(context.Background(), dto.SaveBookingRequest{
				RoomID:   "room-1",
				CheckIn:  "2026-03-01",
				CheckOut: "2026-03-05",
			}, "")

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil:
				succeeded++
			case failure.IsConflict(err):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	wg.Wait()

	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicts)
	assert.Len(t, store.all(), 1)
}

func TestBookingService_ConcurrentDistinctRoomsAllSucceed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRoomRepo := roomMocks.NewMockRoom(ctrl)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	mockRoomRepo.EXPECT().
		Exist(gomock.Any(), gomock.Any()).
		Return(true, nil).
		AnyTimes()

	mockKafka.EXPECT().
		SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	mockCache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	cfg := &config.Config{}
	store := newMemoryBookingStore()

	svc := service.New(store, mockRoomRepo, mockUserRepo, cfg, mockCache, mockOtel, mockKafka)

	rooms := []string{"room-1", "room-2", "room-3", "room-4"}

	var wg sync.WaitGroup

	for _, roomID := range rooms {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := svc.SaveOrUpdate(context.Background(), dto.SaveBookingRequest{
				RoomID:   roomID,
				CheckIn:  "2026-03-01",
				CheckOut: "2026-03-05",
			}, "")

			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	time.Sleep(20 * time.Millisecond)

	assert.Len(t, store.all(), len(rooms))
}
