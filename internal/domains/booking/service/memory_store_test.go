package service_test

import (
	"context"
	"sync"
	"time"

	"stay/internal/domains/booking/model"
	gDto "stay/shared/dto"
)

// memoryBookingStore is a thread-safe in-memory stand-in for the booking
// repository, used by the concurrency tests where a mock script cannot
// express interleavings.
type memoryBookingStore struct {
	mu       sync.Mutex
	bookings map[string]model.Booking
}

func newMemoryBookingStore() *memoryBookingStore {
	return &memoryBookingStore{
		bookings: map[string]model.Booking{},
	}
}

func (s *memoryBookingStore) all() []model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]model.Booking, 0, len(s.bookings))
	for _, booking := range s.bookings {
		res = append(res, booking)
	}

	return res
}

func (s *memoryBookingStore) Insert(_ context.Context, booking model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bookings[booking.ID] = booking

	return nil
}

// idFromFilter pulls the id value out of a by-id filter group, which is the
// only filter shape the store has to understand.
func idFromFilter(filter gDto.FilterGroup) string {
	for _, f := range filter.Filters {
		if flt, ok := f.(gDto.Filter); ok {
			if id, ok := flt.Value.(string); ok {
				return id
			}
		}
	}

	return ""
}

func (s *memoryBookingStore) Get(_ context.Context, filter gDto.FilterGroup, _ ...string) (model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bookings[idFromFilter(filter)], nil
}

func (s *memoryBookingStore) GetAll(_ context.Context, _ gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Booking, error) {
	return s.all(), nil
}

func (s *memoryBookingStore) Exist(_ context.Context, _ gDto.FilterGroup) (bool, error) {
	return false, nil
}

func (s *memoryBookingStore) Count(_ context.Context, _ gDto.FilterGroup) (int, error) {
	return len(s.all()), nil
}

func (s *memoryBookingStore) Update(_ context.Context, fields map[string]any, filter gDto.FilterGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, ok := s.bookings[idFromFilter(filter)]
	if !ok {
		return nil
	}

	if v, ok := fields[model.FieldRoomID].(string); ok {
		booking.RoomID = v
	}

	if v, ok := fields[model.FieldStatus].(string); ok {
		booking.Status = v
	}

	if v, ok := fields[model.FieldCheckIn].(time.Time); ok {
		booking.CheckIn = v
	}

	if v, ok := fields[model.FieldCheckOut].(time.Time); ok {
		booking.CheckOut = v
	}

	s.bookings[booking.ID] = booking

	return nil
}

func (s *memoryBookingStore) Delete(_ context.Context, _ gDto.FilterGroup) error {
	return nil
}

func (s *memoryBookingStore) FindConflicting(_ context.Context, roomID string, interval model.Interval, excludeID string) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var conflicts []model.Booking

	for _, booking := range s.bookings {
		if booking.RoomID != roomID || booking.ID == excludeID {
			continue
		}

		if booking.Status == model.StatusCancelled {
			continue
		}

		if booking.Interval.Overlaps(interval) {
			conflicts = append(conflicts, booking)
		}
	}

	return conflicts, nil
}

func (s *memoryBookingStore) FindConflictingForRooms(ctx context.Context, roomIDs []string, interval model.Interval) ([]model.Booking, error) {
	var conflicts []model.Booking

	for _, roomID := range roomIDs {
		found, err := s.FindConflicting(ctx, roomID, interval, "")
		if err != nil {
			return nil, err
		}

		conflicts = append(conflicts, found...)
	}

	return conflicts, nil
}
