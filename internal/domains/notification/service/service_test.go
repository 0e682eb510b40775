package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"stay/config"
	kafkaMocks "stay/infras/kafka/mocks"
	"stay/infras/otel/mocks"
	bookingDto "stay/internal/domains/booking/model/dto"
	notificationMocks "stay/internal/domains/notification/mocks"
	"stay/internal/domains/notification/model"
	"stay/internal/domains/notification/service"
	cacheMocks "stay/shared/cache/mocks"
	gDto "stay/shared/dto"
	"stay/shared/failure"
	gModel "stay/shared/model"
	"stay/shared/timezone"

	"github.com/redis/go-redis/v9"
)

func bookingEvent(eventType, userID string) bookingDto.BookingEvent {
	return bookingDto.BookingEvent{
		Type:       eventType,
		BookingID:  "booking-1",
		RoomID:     "room-1",
		UserID:     userID,
		CheckIn:    time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC),
		Status:     "ACTIVE",
		OccurredAt: timezone.Now(),
	}
}

func TestNotificationService_HandleBookingEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := notificationMocks.NewMockNotification(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, mockOtel, mockKafka)

	tests := []struct {
		name      string
		event     bookingDto.BookingEvent
		setupMock func()
		wantErr   bool
	}{
		{
			name:  "created event stored",
			event: bookingEvent(bookingDto.EventBookingCreated, "user-1"),
			setupMock: func() {
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, n model.Notification) error {
						assert.Equal(t, "user-1", n.UserID)
						assert.Equal(t, "booking-1", n.BookingID)
						assert.Equal(t, bookingDto.EventBookingCreated, n.Type)
						assert.False(t, n.Read)

						return nil
					})

				mockCache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name:      "guest booking produces no notification",
			event:     bookingEvent(bookingDto.EventBookingCreated, ""),
			setupMock: func() {},
			wantErr:   false,
		},
		{
			name:  "insert failure surfaces",
			event: bookingEvent(bookingDto.EventBookingCancelled, "user-1"),
			setupMock: func() {
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.HandleBookingEvent(context.Background(), tt.event)

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNotificationService_GetAllByUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := notificationMocks.NewMockNotification(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, mockOtel, mockKafka)

	notifications := []model.Notification{
		{
			ID:        "notification-1",
			UserID:    "user-1",
			BookingID: "booking-1",
			Type:      bookingDto.EventBookingCreated,
			Title:     "Booking confirmed",
			Read:      false,
			Metadata: gModel.Metadata{
				CreatedAt:  timezone.Now(),
				ModifiedAt: timezone.Now(),
				CreatedBy:  "system",
				ModifiedBy: "system",
			},
		},
	}

	mockCache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(redis.Nil)

	mockRepo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(1, nil)

	mockRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(notifications, nil)

	mockCache.EXPECT().
		Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	res, err := svc.GetAllByUser(context.Background(), "user-1", gDto.QueryParams{Limit: 10})

	time.Sleep(10 * time.Millisecond)

	assert.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	assert.Len(t, res.Notifications, 1)
	assert.Equal(t, "notification-1", res.Notifications[0].ID)
}

func TestNotificationService_MarkRead(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := notificationMocks.NewMockNotification(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, cfg, mockCache, mockOtel, mockKafka)

	tests := []struct {
		name         string
		setupMock    func()
		wantErr      bool
		wantNotFound bool
	}{
		{
			name: "successful mark read",
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				mockCache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name: "notification not found",
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr:      true,
			wantNotFound: true,
		},
		{
			name: "update error",
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.MarkRead(context.Background(), "notification-1", "user-1")

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantNotFound {
					assert.True(t, failure.IsNotFound(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNotificationService_CountUnread(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := notificationMocks.NewMockNotification(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, cfg, mockCache, mockOtel, mockKafka)

	mockRepo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(3, nil)

	count, err := svc.CountUnread(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Equal(t, 3, count)
}
