package service

import (
	"context"
	"fmt"
	"strings"

	"stay/config"
	"stay/infras/kafka"
	"stay/infras/otel"
	"stay/internal/domains/booking/model"
	"stay/internal/domains/booking/model/dto"
	"stay/internal/domains/booking/repository"
	roomModel "stay/internal/domains/room/model"
	roomRepo "stay/internal/domains/room/repository"
	userModel "stay/internal/domains/user/model"
	userRepo "stay/internal/domains/user/repository"
	"stay/shared"
	"stay/shared/cache"
	"stay/shared/constant"
	gDto "stay/shared/dto"
	"stay/shared/failure"
	"stay/shared/lockmap"
	"stay/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

type Booking interface {
	SaveOrUpdate(ctx context.Context, req dto.SaveBookingRequest, id string) (dto.BookingResponse, error)
	CheckAvailability(ctx context.Context, req dto.CheckAvailabilityRequest) (dto.AvailabilityResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	GetAllByRoom(ctx context.Context, req gDto.QueryParams, roomID string) (dto.GetBookingsResponse, error)
	GetAllByUser(ctx context.Context, req gDto.QueryParams, userID string) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo     repository.Booking
	roomRepo roomRepo.Room
	userRepo userRepo.User
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
	kafka    kafka.Client
	locks    *lockmap.Registry
}

func New(repo repository.Booking, roomRepo roomRepo.Room, userRepo userRepo.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, kafkaClient kafka.Client) Booking {
	return &serviceImpl{
		repo:     repo,
		roomRepo: roomRepo,
		userRepo: userRepo,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
		kafka:    kafkaClient,
		locks:    lockmap.New(),
	}
}

// SaveOrUpdate creates a booking when id is empty and reworks an existing one
// otherwise. All conflict decisions for a room happen under that room's lock,
// so two overlapping requests for the same room serialize and exactly one
// wins. An update whose stay range is unchanged skips the conflict read
// entirely.
func (s *serviceImpl) SaveOrUpdate(ctx context.Context, req dto.SaveBookingRequest, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SaveOrUpdate")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	interval, err := req.Interval()
	if err != nil {
		log.Error().Err(err).Msg("failed to parse booking interval")

		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err)) // nolint:wrapcheck
	}

	if err = interval.Validate(); err != nil {
		return res, err
	}

	if req.Status != "" && !model.IsValidStatus(req.Status) {
		return res, failure.BadRequestFromString("invalid booking status") // nolint:wrapcheck
	}

	// Directory checks stay outside the lock; they never change the
	// conflict decision.
	if err = s.ensureRoomExists(ctx, req.RoomID); err != nil {
		return res, err
	}

	if id == "" {
		if err = s.ensureUserExists(ctx, req.UserID, user); err != nil {
			return res, err
		}
	}

	var saved model.Booking

	err = s.locks.Do(req.RoomID, func() error {
		if id == "" {
			saved, err = s.create(ctx, req, interval, user)

			return err
		}

		saved, err = s.update(ctx, req, interval, user, id)

		return err
	})
	if err != nil {
		return res, err
	}

	eventType := dto.EventBookingCreated
	if id != "" {
		eventType = dto.EventBookingUpdated
	}

	s.publishEvent(ctx, eventType, saved)

	go func() {
		c := context.WithoutCancel(ctx)

		if id != "" {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete booking from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()

	res.FromModel(saved)

	return res, nil
}

func (s *serviceImpl) create(ctx context.Context, req dto.SaveBookingRequest, interval model.Interval, user string) (model.Booking, error) {
	conflicts, err := s.repo.FindConflicting(ctx, req.RoomID, interval, "")
	if err != nil {
		log.Error().Err(err).Msg("failed to check booking conflicts")

		return model.Booking{}, fmt.Errorf("failed to check booking conflicts: %w", err)
	}

	if len(conflicts) > 0 {
		return model.Booking{}, conflictFailure(conflicts)
	}

	booking := req.ToModel(user, interval)

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return model.Booking{}, fmt.Errorf("failed to create booking: %w", err)
	}

	return booking, nil
}

func (s *serviceImpl) update(ctx context.Context, req dto.SaveBookingRequest, interval model.Interval, user, id string) (model.Booking, error) {
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	existing, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return model.Booking{}, fmt.Errorf("failed to get booking: %w", err)
	}

	if existing.ID == constant.Empty {
		return model.Booking{}, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	// A payload-only update keeps its already-validated slot; only a changed
	// stay range goes back through the conflict read.
	if !existing.Interval.Equal(interval) || existing.RoomID != req.RoomID {
		conflicts, err := s.repo.FindConflicting(ctx, req.RoomID, interval, id)
		if err != nil {
			log.Error().Err(err).Msg("failed to check booking conflicts")

			return model.Booking{}, fmt.Errorf("failed to check booking conflicts: %w", err)
		}

		if len(conflicts) > 0 {
			return model.Booking{}, conflictFailure(conflicts)
		}
	}

	updated := req.ApplyTo(existing, user, interval)

	updatedFields := map[string]any{
		model.FieldRoomID:          updated.RoomID,
		model.FieldUserID:          updated.UserID,
		model.FieldCheckIn:         updated.CheckIn,
		model.FieldCheckOut:        updated.CheckOut,
		model.FieldStatus:          updated.Status,
		model.FieldTotalAmount:     updated.TotalAmount,
		model.FieldDurationType:    updated.DurationType,
		model.FieldGuestCount:      updated.GuestCount,
		model.FieldSpecialRequests: updated.SpecialRequests,
		model.FieldPaymentStatus:   updated.PaymentStatus,
		constant.FieldModifiedAt:   updated.ModifiedAt,
		constant.FieldModifiedBy:   updated.ModifiedBy,
	}

	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update booking")

		return model.Booking{}, fmt.Errorf("failed to update booking: %w", err)
	}

	return updated, nil
}

// CheckAvailability answers which of the requested rooms are free for the
// interval using one bulk conflict read and no locking. The answer is a
// snapshot; only SaveOrUpdate is authoritative.
func (s *serviceImpl) CheckAvailability(ctx context.Context, req dto.CheckAvailabilityRequest) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckAvailability")
	defer scope.End()
	defer scope.TraceIfError(err)

	interval, err := req.Interval()
	if err != nil {
		log.Error().Err(err).Msg("failed to parse availability interval")

		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err)) // nolint:wrapcheck
	}

	if err = interval.Validate(); err != nil {
		return res, err
	}

	conflicts, err := s.repo.FindConflictingForRooms(ctx, req.RoomIDs, interval)
	if err != nil {
		log.Error().Err(err).Msg("failed to check room availability")

		return res, fmt.Errorf("failed to check room availability: %w", err)
	}

	conflicted := make(map[string]struct{}, len(conflicts))
	for _, booking := range conflicts {
		conflicted[booking.RoomID] = struct{}{}
	}

	res.Availability = make(map[string]bool, len(req.RoomIDs))
	for _, roomID := range req.RoomIDs {
		_, taken := conflicted[roomID]
		res.Availability[roomID] = !taken
	}

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAllByRoom(ctx context.Context, req gDto.QueryParams, roomID string) (dto.GetBookingsResponse, error) {
	return s.GetAll(ctx, req, shared.FilterByID(roomID, model.FieldRoomID, model.TableName))
}

func (s *serviceImpl) GetAllByUser(ctx context.Context, req gDto.QueryParams, userID string) (dto.GetBookingsResponse, error) {
	return s.GetAll(ctx, req, shared.FilterByID(userID, model.FieldUserID, model.TableName))
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(nil)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

// Cancel releases the booking's slot by moving it to CANCELLED. The row is
// kept for history; Delete removes it outright.
func (s *serviceImpl) Cancel(ctx context.Context, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(nil)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	booking, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if booking.Status == model.StatusCancelled {
		return failure.BadRequestFromString("booking is already cancelled") // nolint:wrapcheck
	}

	updatedFields := map[string]any{
		model.FieldStatus:        model.StatusCancelled,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to cancel booking")

		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	booking.Status = model.StatusCancelled
	s.publishEvent(ctx, dto.EventBookingCancelled, booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(nil)

	exist, err := s.repo.Exist(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if booking exists")

		return fmt.Errorf("failed to check if booking exists: %w", err)
	}

	if !exist {
		log.Error().Msg("booking not found")

		return failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()

	return nil
}

func (s *serviceImpl) ensureRoomExists(ctx context.Context, roomID string) error {
	exists, err := s.roomRepo.Exist(ctx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if room exists")

		return fmt.Errorf("failed to check if room exists: %w", err)
	}

	if !exists {
		return failure.NotFound("room not found") // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) ensureUserExists(ctx context.Context, userID, fallback string) error {
	id := userID
	if id == "" {
		id = fallback
	}

	if id == "" || id == constant.ContextGuest {
		return nil
	}

	exists, err := s.userRepo.Exist(ctx, shared.FilterByID(id, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return fmt.Errorf("failed to check if user exists: %w", err)
	}

	if !exists {
		return failure.NotFound("user not found") // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) publishEvent(ctx context.Context, eventType string, booking model.Booking) {
	go func() {
		c := context.WithoutCancel(ctx)
		event := dto.NewBookingEvent(eventType, booking)

		err := s.kafka.SendMessages(c, s.cfg.Kafka.Topic.BookingEvents, kafka.Message{
			Key:   booking.ID,
			Value: event,
		})
		if err != nil {
			log.Error().Err(err).Str("type", eventType).Msg("failed to publish booking event")
		}
	}()
}

func conflictFailure(conflicts []model.Booking) error {
	ids := make([]string, len(conflicts))
	for i, booking := range conflicts {
		ids[i] = booking.ID
	}

	return failure.Conflict(fmt.Sprintf("room is already booked for the requested dates (conflicting bookings: %s)", strings.Join(ids, ", "))) // nolint:wrapcheck
}
