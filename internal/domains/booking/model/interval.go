package model

import (
	"time"

	"stay/shared/failure"
)

// Interval is the half-open stay range [CheckIn, CheckOut). A booking ending
// at time T never collides with one starting at T.
type Interval struct {
	CheckIn  time.Time `db:"check_in"`
	CheckOut time.Time `db:"check_out"`
}

func NewInterval(checkIn, checkOut time.Time) Interval {
	return Interval{CheckIn: checkIn, CheckOut: checkOut}
}

func (i Interval) Validate() error {
	if i.CheckIn.IsZero() || i.CheckOut.IsZero() {
		return failure.BadRequestFromString("check-in and check-out are required") // nolint:wrapcheck
	}

	if !i.CheckIn.Before(i.CheckOut) {
		return failure.BadRequestFromString("check-in must be before check-out") // nolint:wrapcheck
	}

	return nil
}

// Overlaps reports whether the two half-open ranges share any instant.
func (i Interval) Overlaps(other Interval) bool {
	return i.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(i.CheckOut)
}

func (i Interval) Equal(other Interval) bool {
	return i.CheckIn.Equal(other.CheckIn) && i.CheckOut.Equal(other.CheckOut)
}
