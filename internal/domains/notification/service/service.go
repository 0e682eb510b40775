package service

import (
	"context"
	"fmt"

	"stay/config"
	"stay/infras/kafka"
	"stay/infras/otel"
	bookingDto "stay/internal/domains/booking/model/dto"
	"stay/internal/domains/notification/model"
	"stay/internal/domains/notification/model/dto"
	"stay/internal/domains/notification/repository"
	"stay/shared"
	"stay/shared/cache"
	"stay/shared/constant"
	gDto "stay/shared/dto"
	"stay/shared/failure"
	"stay/shared/timezone"

	kafkaGo "github.com/segmentio/kafka-go"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllNotification = "notification:gets"
	cacheCountNotification  = "notification:count"
)

type Notification interface {
	StartConsumer(ctx context.Context)
	HandleBookingEvent(ctx context.Context, event bookingDto.BookingEvent) error
	GetAllByUser(ctx context.Context, userID string, req gDto.QueryParams) (dto.GetNotificationsResponse, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id, userID string) error
}

type serviceImpl struct {
	repo  repository.Notification
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	kafka kafka.Client
}

func New(repo repository.Notification, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, kafka kafka.Client) Notification {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		kafka: kafka,
	}
}

// StartConsumer subscribes to the booking event topic and turns each event
// into a notification row. It blocks until ctx is cancelled.
func (s *serviceImpl) StartConsumer(ctx context.Context) {
	topic := s.cfg.Kafka.Topic.BookingEvents
	group := s.cfg.Kafka.ConsumerGroup

	s.kafka.Consume(ctx, group, topic, func(msg kafkaGo.Message) {
		event, err := kafka.DecodeKafkaMessage[bookingDto.BookingEvent](msg)
		if err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("failed to decode booking event")

			return
		}

		if err := s.HandleBookingEvent(context.WithoutCancel(ctx), event); err != nil {
			log.Error().Err(err).Str("booking_id", event.BookingID).Msg("failed to handle booking event")
		}
	})
}

func (s *serviceImpl) HandleBookingEvent(ctx context.Context, event bookingDto.BookingEvent) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".HandleBookingEvent")
	defer scope.End()
	defer scope.TraceIfError(err)

	// Guest bookings have no recipient
	if event.UserID == constant.Empty {
		return nil
	}

	if err = s.repo.Insert(ctx, dto.FromBookingEvent(event)); err != nil {
		log.Error().Err(err).Str("booking_id", event.BookingID).Msg("failed to insert notification")

		return fmt.Errorf("failed to insert notification: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllNotification)
		shared.InvalidateCaches(c, s.cache, cacheCountNotification)
	}()

	return nil
}

func (s *serviceImpl) GetAllByUser(ctx context.Context, userID string, req gDto.QueryParams) (res dto.GetNotificationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAllByUser")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := dto.FilterByUser(userID)
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllNotification, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for notifications")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count notifications")

		return res, fmt.Errorf("failed to count notifications: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get notifications")

		return res, fmt.Errorf("failed to get notifications: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save notifications to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) CountUnread(ctx context.Context, userID string) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CountUnread")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := dto.FilterByUser(userID)
	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    model.FieldRead,
		Operator: gDto.FilterOperatorEq,
		Value:    false,
		Table:    model.TableName,
	})

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count unread notifications")

		return res, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return res, nil
}

func (s *serviceImpl) MarkRead(ctx context.Context, id, userID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkRead")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := dto.FilterByUser(userID)
	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    model.FieldID,
		Operator: gDto.FilterOperatorEq,
		Value:    id,
		Table:    model.TableName,
	})

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if notification exists")

		return fmt.Errorf("failed to check if notification exists: %w", err)
	}

	if !exist {
		return failure.NotFound("notification not found") // nolint:wrapcheck
	}

	updatedFields := map[string]any{
		model.FieldRead:          true,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: userID,
	}

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to mark notification as read")

		return fmt.Errorf("failed to mark notification as read: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllNotification)
		shared.InvalidateCaches(c, s.cache, cacheCountNotification)
	}()

	return nil
}
