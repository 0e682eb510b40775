package validator_test

import (
	"stay/shared/validator"
	"strings"
	"testing"
)

type bookingPayload struct {
	RoomID     string `validate:"required,uuid4"    json:"room_id"`
	CheckIn    string `validate:"required,datetime=2006-01-02" json:"check_in"`
	CheckOut   string `validate:"required,datetime=2006-01-02" json:"check_out"`
	GuestCount int    `validate:"gte=1,lte=10"      json:"guest_count"`
	Status     string `validate:"omitempty,oneof=ACTIVE CANCELLED COMPLETED" json:"status"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name        string
		data        *bookingPayload
		expectError bool
	}{
		{
			name: "valid payload",
			data: &bookingPayload{
				RoomID:     "550e8400-e29b-41d4-a716-446655440000",
				CheckIn:    "2026-01-05",
				CheckOut:   "2026-01-10",
				GuestCount: 2,
				Status:     "ACTIVE",
			},
			expectError: false,
		},
		{
			name: "missing required field",
			data: &bookingPayload{
				CheckIn:    "2026-01-05",
				CheckOut:   "2026-01-10",
				GuestCount: 2,
			},
			expectError: true,
		},
		{
			name: "malformed date",
			data: &bookingPayload{
				RoomID:     "550e8400-e29b-41d4-a716-446655440000",
				CheckIn:    "05-01-2026",
				CheckOut:   "2026-01-10",
				GuestCount: 2,
			},
			expectError: true,
		},
		{
			name: "guest count out of range",
			data: &bookingPayload{
				RoomID:     "550e8400-e29b-41d4-a716-446655440000",
				CheckIn:    "2026-01-05",
				CheckOut:   "2026-01-10",
				GuestCount: 0,
			},
			expectError: true,
		},
		{
			name: "unknown status",
			data: &bookingPayload{
				RoomID:     "550e8400-e29b-41d4-a716-446655440000",
				CheckIn:    "2026-01-05",
				CheckOut:   "2026-01-10",
				GuestCount: 2,
				Status:     "PENDING",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(tt.data)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		expectError bool
	}{
		{
			name:        "valid json body",
			body:        `{"room_id":"550e8400-e29b-41d4-a716-446655440000","check_in":"2026-01-05","check_out":"2026-01-10","guest_count":2}`,
			expectError: false,
		},
		{
			name:        "malformed json",
			body:        `{"room_id":`,
			expectError: true,
		},
		{
			name:        "valid json failing validation",
			body:        `{"room_id":"not-a-uuid","check_in":"2026-01-05","check_out":"2026-01-10","guest_count":2}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload bookingPayload
			err := validator.Validate(strings.NewReader(tt.body), &payload)

			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}
