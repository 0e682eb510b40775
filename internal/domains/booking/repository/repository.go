package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"stay/infras/otel"
	"stay/infras/postgres"
	"stay/internal/domains/booking/model"
	gDto "stay/shared/dto"
	gRepo "stay/shared/repository"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	FindConflicting(ctx context.Context, roomID string, interval model.Interval, excludeID string) ([]model.Booking, error)
	FindConflictingForRooms(ctx context.Context, roomIDs []string, interval model.Interval) ([]model.Booking, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// FindConflicting returns the bookings holding roomID that overlap the
// half-open interval, skipping excludeID when set. Cancelled bookings never
// conflict.
func (repo *repositoryImpl) FindConflicting(ctx context.Context, roomID string, interval model.Interval, excludeID string) ([]model.Booking, error) {
	filter := conflictFilter(interval)
	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    model.FieldRoomID,
		Operator: gDto.FilterOperatorEq,
		Value:    roomID,
		Table:    model.TableName,
	})

	if excludeID != "" {
		filter.Filters = append(filter.Filters, gDto.Filter{
			ArgName:  "exclude_id",
			Field:    model.FieldID,
			Operator: gDto.FilterOperatorNotEq,
			Value:    excludeID,
			Table:    model.TableName,
		})
	}

	return repo.GetAll(ctx, gDto.QueryParams{}, filter) //nolint:wrapcheck
}

// FindConflictingForRooms is the bulk variant used by availability checks:
// one query over all requested rooms.
func (repo *repositoryImpl) FindConflictingForRooms(ctx context.Context, roomIDs []string, interval model.Interval) ([]model.Booking, error) {
	filter := conflictFilter(interval)
	filter.Filters = append(filter.Filters, gDto.Filter{
		ArgName:  "room_ids",
		Field:    model.FieldRoomID,
		Operator: gDto.FilterOperatorIn,
		Value:    roomIDs,
		Table:    model.TableName,
	})

	return repo.GetAll(ctx, gDto.QueryParams{}, filter) //nolint:wrapcheck
}

// conflictFilter renders the overlap predicate for half-open intervals:
// existing.check_in < candidate.check_out AND existing.check_out >
// candidate.check_in, restricted to statuses that hold the room.
func conflictFilter(interval model.Interval) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				ArgName:  "statuses",
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorIn,
				Value:    model.ConflictingStatuses(),
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "cand_check_out",
				Field:    model.FieldCheckIn,
				Operator: gDto.FilterOperatorLess,
				Value:    interval.CheckOut,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "cand_check_in",
				Field:    model.FieldCheckOut,
				Operator: gDto.FilterOperatorGreater,
				Value:    interval.CheckIn,
				Table:    model.TableName,
			},
		},
	}
}
