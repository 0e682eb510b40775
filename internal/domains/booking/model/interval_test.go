package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"stay/internal/domains/booking/model"
)

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestInterval_Validate(t *testing.T) {
	tests := []struct {
		name     string
		interval model.Interval
		wantErr  bool
	}{
		{
			name:     "valid range",
			interval: model.NewInterval(day(1), day(5)),
			wantErr:  false,
		},
		{
			name:     "check-in equals check-out",
			interval: model.NewInterval(day(1), day(1)),
			wantErr:  true,
		},
		{
			name:     "check-in after check-out",
			interval: model.NewInterval(day(5), day(1)),
			wantErr:  true,
		},
		{
			name:     "zero check-in",
			interval: model.Interval{CheckOut: day(5)},
			wantErr:  true,
		},
		{
			name:     "zero check-out",
			interval: model.Interval{CheckIn: day(1)},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.interval.Validate()

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInterval_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a    model.Interval
		b    model.Interval
		want bool
	}{
		{
			name: "identical ranges",
			a:    model.NewInterval(day(1), day(5)),
			b:    model.NewInterval(day(1), day(5)),
			want: true,
		},
		{
			name: "partial overlap",
			a:    model.NewInterval(day(1), day(5)),
			b:    model.NewInterval(day(3), day(8)),
			want: true,
		},
		{
			name: "containment",
			a:    model.NewInterval(day(1), day(10)),
			b:    model.NewInterval(day(3), day(5)),
			want: true,
		},
		{
			name: "shared boundary does not overlap",
			a:    model.NewInterval(day(1), day(5)),
			b:    model.NewInterval(day(5), day(10)),
			want: false,
		},
		{
			name: "disjoint ranges",
			a:    model.NewInterval(day(1), day(3)),
			b:    model.NewInterval(day(7), day(10)),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))

			// the predicate is symmetric
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestInterval_Equal(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)

	assert.True(t, model.NewInterval(day(1), day(5)).Equal(model.NewInterval(day(1), day(5))))
	assert.False(t, model.NewInterval(day(1), day(5)).Equal(model.NewInterval(day(1), day(6))))

	// the same instant in a different zone still compares equal
	shifted := model.NewInterval(day(1).In(jakarta), day(5).In(jakarta))
	assert.True(t, model.NewInterval(day(1), day(5)).Equal(shifted))
}

func TestConflictingStatuses(t *testing.T) {
	statuses := model.ConflictingStatuses()

	assert.Contains(t, statuses, model.StatusActive)
	assert.Contains(t, statuses, model.StatusCompleted)
	assert.NotContains(t, statuses, model.StatusCancelled)
}
