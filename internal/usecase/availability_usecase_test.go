package usecase

import (
	"context"
	"errors"
	"testing"

	"go-clinical-records/internal/delivery/dto"
	"go-clinical-records/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestUpsertWeeklySchedule(t *testing.T) {
	f := newFixture(t)
	providerID := f.seedProvider(t, "provider@clinic.test")
	ctx := context.Background()

	t.Run("creates and lists windows", func(t *testing.T) {
		result, err := f.availability.UpsertWeeklySchedule(ctx, providerID, &dto.UpsertWeeklyScheduleRequest{
			Days: []dto.WeeklyScheduleEntryRequest{
				{Day: "monday", StartTime: "09:00", EndTime: "17:00", IsAvailable: boolPtr(true)},
				{Day: "tuesday", StartTime: "09:00", EndTime: "12:00", IsAvailable: boolPtr(true)},
			},
		})
		require.NoError(t, err)
		require.Len(t, result.Days, 2)
		assert.Equal(t, "monday", result.Days[0].Day)
		assert.Equal(t, "09:00", result.Days[0].StartTime)
	})

	t.Run("second upsert replaces instead of duplicating", func(t *testing.T) {
		result, err := f.availability.UpsertWeeklySchedule(ctx, providerID, &dto.UpsertWeeklyScheduleRequest{
			Days: []dto.WeeklyScheduleEntryRequest{
				{Day: "monday", StartTime: "10:00", EndTime: "16:00", IsAvailable: boolPtr(true)},
			},
		})
		require.NoError(t, err)
		require.Len(t, result.Days, 2)
		assert.Equal(t, "10:00", result.Days[0].StartTime)
	})

	t.Run("rejects unknown day", func(t *testing.T) {
		_, err := f.availability.UpsertWeeklySchedule(ctx, providerID, &dto.UpsertWeeklyScheduleRequest{
			Days: []dto.WeeklyScheduleEntryRequest{
				{Day: "someday", StartTime: "09:00", EndTime: "17:00", IsAvailable: boolPtr(true)},
			},
		})
		assert.ErrorIs(t, err, ErrUnknownDayOfWeek)
	})

	t.Run("rejects inverted window", func(t *testing.T) {
		_, err := f.availability.UpsertWeeklySchedule(ctx, providerID, &dto.UpsertWeeklyScheduleRequest{
			Days: []dto.WeeklyScheduleEntryRequest{
				{Day: "monday", StartTime: "17:00", EndTime: "09:00", IsAvailable: boolPtr(true)},
			},
		})
		assert.ErrorIs(t, err, ErrInvalidTimeWindow)
	})

	t.Run("rejects malformed time", func(t *testing.T) {
		_, err := f.availability.UpsertWeeklySchedule(ctx, providerID, &dto.UpsertWeeklyScheduleRequest{
			Days: []dto.WeeklyScheduleEntryRequest{
				{Day: "monday", StartTime: "9am", EndTime: "17:00", IsAvailable: boolPtr(true)},
			},
		})
		assert.ErrorIs(t, err, ErrInvalidTimeFormat)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := f.availability.UpsertWeeklySchedule(ctx, f.seedPatient(t, "someone@clinic.test"), &dto.UpsertWeeklyScheduleRequest{
			Days: []dto.WeeklyScheduleEntryRequest{
				{Day: "monday", StartTime: "09:00", EndTime: "17:00", IsAvailable: boolPtr(true)},
			},
		})
		assert.ErrorIs(t, err, ErrProviderNotFound)
	})
}

func TestUpsertWeeklyScheduleWithdrawalGuard(t *testing.T) {
	f := newFixture(t)
	providerID := f.seedProvider(t, "provider@clinic.test")
	patientID := f.seedPatient(t, "patient@clinic.test")
	ctx := context.Background()

	f.seedSchedule(t, providerID, entity.Tuesday, "09:00", "17:00", true)

	// Booking on the next Tuesday inside the withdrawal window.
	created, err := f.appointments.CreateAppointment(ctx, patientID, &dto.CreateAppointmentRequest{
		ProviderID:    providerID,
		RequestedDate: "2025-03-04",
		RequestedTime: "10:00",
		Reason:        "checkup",
	})
	require.NoError(t, err)

	t.Run("refuses disabling a day with bookings", func(t *testing.T) {
		_, err := f.availability.UpsertWeeklySchedule(ctx, providerID, &dto.UpsertWeeklyScheduleRequest{
			Days: []dto.WeeklyScheduleEntryRequest{
				{Day: "tuesday", StartTime: "09:00", EndTime: "17:00", IsAvailable: boolPtr(false)},
			},
		})

		var dayConflict *DayConflictError
		require.True(t, errors.As(err, &dayConflict))
		require.Len(t, dayConflict.Conflicts, 1)
		assert.Equal(t, "tuesday", dayConflict.Conflicts[0].Day)
		assert.Equal(t, 1, dayConflict.Conflicts[0].Count)
		assert.Contains(t, dayConflict.Conflicts[0].AppointmentIDs, created.ID)

		// Nothing was written: the day is still enabled.
		check, err := f.availability.CheckSlot(ctx, providerID, "2025-03-04", "")
		require.NoError(t, err)
		assert.True(t, check.Available)
	})

	t.Run("allows disabling a day without bookings", func(t *testing.T) {
		_, err := f.availability.UpsertWeeklySchedule(ctx, providerID, &dto.UpsertWeeklyScheduleRequest{
			Days: []dto.WeeklyScheduleEntryRequest{
				{Day: "friday", StartTime: "09:00", EndTime: "17:00", IsAvailable: boolPtr(false)},
			},
		})
		require.NoError(t, err)

		check, err := f.availability.CheckSlot(ctx, providerID, "2025-03-07", "")
		require.NoError(t, err)
		assert.False(t, check.Available)
	})
}

func TestCheckSlot(t *testing.T) {
	f := newFixture(t)
	providerID := f.seedProvider(t, "provider@clinic.test")
	ctx := context.Background()

	f.seedSchedule(t, providerID, entity.Monday, "09:00", "17:00", true)
	f.seedSchedule(t, providerID, entity.Wednesday, "09:00", "17:00", false)

	tests := []struct {
		name      string
		date      string
		time      string
		available bool
	}{
		{"no schedule row means closed", "2025-03-04", "10:00", false},
		{"disabled day", "2025-03-05", "10:00", false},
		{"inside window", "2025-03-10", "10:00", true},
		{"window start is bookable", "2025-03-10", "09:00", true},
		{"window end is bookable", "2025-03-10", "17:00", true},
		{"before window", "2025-03-10", "08:59", false},
		{"after window", "2025-03-10", "17:01", false},
		{"date only on enabled day", "2025-03-10", "", true},
		{"date only on missing day", "2025-03-06", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := f.availability.CheckSlot(ctx, providerID, tt.date, tt.time)
			require.NoError(t, err)
			assert.Equal(t, tt.available, result.Available)
		})
	}

	t.Run("invalid date", func(t *testing.T) {
		_, err := f.availability.CheckSlot(ctx, providerID, "03/10/2025", "")
		assert.ErrorIs(t, err, ErrInvalidDateFormat)
	})

	t.Run("invalid time", func(t *testing.T) {
		_, err := f.availability.CheckSlot(ctx, providerID, "2025-03-10", "9:00")
		assert.ErrorIs(t, err, ErrInvalidTimeFormat)
	})
}
