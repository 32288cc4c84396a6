package usecase

import (
	"context"
	"testing"

	"go-clinical-records/internal/delivery/dto"
	"go-clinical-records/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAppointment(t *testing.T) {
	f := newFixture(t)
	providerID := f.seedProvider(t, "provider@clinic.test")
	patientID := f.seedPatient(t, "patient@clinic.test")
	ctx := context.Background()

	f.seedSchedule(t, providerID, entity.Tuesday, "09:00", "17:00", true)
	f.seedSchedule(t, providerID, entity.Wednesday, "09:00", "17:00", false)

	t.Run("books an open slot as pending", func(t *testing.T) {
		created, err := f.appointments.CreateAppointment(ctx, patientID, &dto.CreateAppointmentRequest{
			ProviderID:    providerID,
			RequestedDate: "2025-03-04",
			RequestedTime: "10:00",
			Reason:        "checkup",
		})
		require.NoError(t, err)
		assert.Equal(t, string(entity.AppointmentStatusPending), created.Status)
		assert.Equal(t, "normal", created.Priority)
		assert.Equal(t, "2025-03-04", created.RequestedDate)
	})

	t.Run("rejects a slot closer than thirty minutes", func(t *testing.T) {
		_, err := f.appointments.CreateAppointment(ctx, patientID, &dto.CreateAppointmentRequest{
			ProviderID:    providerID,
			RequestedDate: "2025-03-04",
			RequestedTime: "10:15",
			Reason:        "checkup",
		})
		assert.ErrorIs(t, err, ErrSlotTaken)

		_, err = f.appointments.CreateAppointment(ctx, patientID, &dto.CreateAppointmentRequest{
			ProviderID:    providerID,
			RequestedDate: "2025-03-04",
			RequestedTime: "09:45",
			Reason:        "checkup",
		})
		assert.ErrorIs(t, err, ErrSlotTaken)
	})

	t.Run("allows a slot exactly thirty minutes away", func(t *testing.T) {
		_, err := f.appointments.CreateAppointment(ctx, patientID, &dto.CreateAppointmentRequest{
			ProviderID:    providerID,
			RequestedDate: "2025-03-04",
			RequestedTime: "10:30",
			Reason:        "checkup",
		})
		require.NoError(t, err)
	})

	t.Run("rejects a time outside the window", func(t *testing.T) {
		_, err := f.appointments.CreateAppointment(ctx, patientID, &dto.CreateAppointmentRequest{
			ProviderID:    providerID,
			RequestedDate: "2025-03-04",
			RequestedTime: "08:00",
			Reason:        "checkup",
		})
		assert.ErrorIs(t, err, ErrSlotUnavailable)
	})

	t.Run("rejects a disabled day", func(t *testing.T) {
		_, err := f.appointments.CreateAppointment(ctx, patientID, &dto.CreateAppointmentRequest{
			ProviderID:    providerID,
			RequestedDate: "2025-03-05",
			RequestedTime: "10:00",
			Reason:        "checkup",
		})
		assert.ErrorIs(t, err, ErrSlotUnavailable)
	})

	t.Run("rejects a day with no schedule row", func(t *testing.T) {
		_, err := f.appointments.CreateAppointment(ctx, patientID, &dto.CreateAppointmentRequest{
			ProviderID:    providerID,
			RequestedDate: "2025-03-06",
			RequestedTime: "10:00",
			Reason:        "checkup",
		})
		assert.ErrorIs(t, err, ErrSlotUnavailable)
	})

	t.Run("rejects a past date", func(t *testing.T) {
		_, err := f.appointments.CreateAppointment(ctx, patientID, &dto.CreateAppointmentRequest{
			ProviderID:    providerID,
			RequestedDate: "2025-02-25",
			RequestedTime: "10:00",
			Reason:        "checkup",
		})
		assert.ErrorIs(t, err, ErrPastDate)
	})

	t.Run("rejects an unknown provider", func(t *testing.T) {
		_, err := f.appointments.CreateAppointment(ctx, patientID, &dto.CreateAppointmentRequest{
			ProviderID:    uuid.New(),
			RequestedDate: "2025-03-04",
			RequestedTime: "14:00",
			Reason:        "checkup",
		})
		assert.ErrorIs(t, err, ErrProviderNotFound)
	})

	t.Run("cancelled slot frees its time", func(t *testing.T) {
		created, err := f.appointments.CreateAppointment(ctx, patientID, &dto.CreateAppointmentRequest{
			ProviderID:    providerID,
			RequestedDate: "2025-03-04",
			RequestedTime: "14:00",
			Reason:        "checkup",
		})
		require.NoError(t, err)

		require.NoError(t, f.appointments.CancelAppointment(ctx, created.ID, patientID, &dto.CancelAppointmentRequest{
			Reason: "changed my mind",
		}))

		_, err = f.appointments.CreateAppointment(ctx, patientID, &dto.CreateAppointmentRequest{
			ProviderID:    providerID,
			RequestedDate: "2025-03-04",
			RequestedTime: "14:00",
			Reason:        "checkup again",
		})
		require.NoError(t, err)
	})
}

func TestDecideAppointment(t *testing.T) {
	f := newFixture(t)
	providerID := f.seedProvider(t, "provider@clinic.test")
	patientID := f.seedPatient(t, "patient@clinic.test")
	ctx := context.Background()

	f.seedSchedule(t, providerID, entity.Tuesday, "09:00", "17:00", true)

	book := func(t *testing.T, timeValue string) uuid.UUID {
		t.Helper()
		created, err := f.appointments.CreateAppointment(ctx, patientID, &dto.CreateAppointmentRequest{
			ProviderID:    providerID,
			RequestedDate: "2025-03-04",
			RequestedTime: timeValue,
			Reason:        "checkup",
		})
		require.NoError(t, err)
		return created.ID
	}

	t.Run("confirm materializes exactly one encounter", func(t *testing.T) {
		appointmentID := book(t, "09:00")

		decided, err := f.appointments.DecideAppointment(ctx, appointmentID, providerID, &dto.DecideAppointmentRequest{
			Decision: "confirmed",
		})
		require.NoError(t, err)
		assert.Equal(t, string(entity.AppointmentStatusConfirmed), decided.Status)
		require.NotNil(t, decided.Encounter)
		assert.Regexp(t, `^ENC-20250304-0900-[0-9A-F]{6}$`, decided.Encounter.Code)

		var count int64
		require.NoError(t, f.db.Model(&entity.ClinicalEncounter{}).
			Where("appointment_id = ?", appointmentID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("second confirm is refused and creates no encounter", func(t *testing.T) {
		appointmentID := book(t, "10:00")

		_, err := f.appointments.DecideAppointment(ctx, appointmentID, providerID, &dto.DecideAppointmentRequest{
			Decision: "confirmed",
		})
		require.NoError(t, err)

		_, err = f.appointments.DecideAppointment(ctx, appointmentID, providerID, &dto.DecideAppointmentRequest{
			Decision: "confirmed",
		})
		assert.ErrorIs(t, err, ErrAlreadyDecided)

		var count int64
		require.NoError(t, f.db.Model(&entity.ClinicalEncounter{}).
			Where("appointment_id = ?", appointmentID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("reject creates no encounter", func(t *testing.T) {
		appointmentID := book(t, "11:00")

		decided, err := f.appointments.DecideAppointment(ctx, appointmentID, providerID, &dto.DecideAppointmentRequest{
			Decision: "rejected",
		})
		require.NoError(t, err)
		assert.Equal(t, string(entity.AppointmentStatusRejected), decided.Status)
		assert.Nil(t, decided.Encounter)

		var count int64
		require.NoError(t, f.db.Model(&entity.ClinicalEncounter{}).
			Where("appointment_id = ?", appointmentID).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})

	t.Run("only the assigned provider may decide", func(t *testing.T) {
		appointmentID := book(t, "12:00")
		otherProvider := f.seedProvider(t, "other@clinic.test")

		_, err := f.appointments.DecideAppointment(ctx, appointmentID, otherProvider, &dto.DecideAppointmentRequest{
			Decision: "confirmed",
		})
		assert.ErrorIs(t, err, ErrNotAppointmentProvider)
	})
}

func TestCancelAppointment(t *testing.T) {
	f := newFixture(t)
	providerID := f.seedProvider(t, "provider@clinic.test")
	patientID := f.seedPatient(t, "patient@clinic.test")
	ctx := context.Background()

	f.seedSchedule(t, providerID, entity.Tuesday, "09:00", "17:00", true)

	created, err := f.appointments.CreateAppointment(ctx, patientID, &dto.CreateAppointmentRequest{
		ProviderID:    providerID,
		RequestedDate: "2025-03-04",
		RequestedTime: "09:00",
		Reason:        "checkup",
	})
	require.NoError(t, err)

	t.Run("strangers may not cancel", func(t *testing.T) {
		stranger := f.seedPatient(t, "stranger@clinic.test")
		err := f.appointments.CancelAppointment(ctx, created.ID, stranger, &dto.CancelAppointmentRequest{
			Reason: "not mine",
		})
		assert.ErrorIs(t, err, ErrNotAppointmentParty)
	})

	t.Run("provider cancels with reason recorded", func(t *testing.T) {
		require.NoError(t, f.appointments.CancelAppointment(ctx, created.ID, providerID, &dto.CancelAppointmentRequest{
			Reason: "out of office",
		}))

		var appointment entity.AppointmentRequest
		require.NoError(t, f.db.First(&appointment, "id = ?", created.ID).Error)
		assert.Equal(t, entity.AppointmentStatusCancelled, appointment.Status)
		assert.Equal(t, "out of office", appointment.Notes)
	})

	t.Run("cancelling twice is refused", func(t *testing.T) {
		err := f.appointments.CancelAppointment(ctx, created.ID, patientID, &dto.CancelAppointmentRequest{
			Reason: "again",
		})
		assert.ErrorIs(t, err, ErrAlreadyFinalized)
	})
}

func TestListAppointments(t *testing.T) {
	f := newFixture(t)
	providerID := f.seedProvider(t, "provider@clinic.test")
	patientID := f.seedPatient(t, "patient@clinic.test")
	ctx := context.Background()

	f.seedSchedule(t, providerID, entity.Tuesday, "09:00", "17:00", true)

	created, err := f.appointments.CreateAppointment(ctx, patientID, &dto.CreateAppointmentRequest{
		ProviderID:    providerID,
		RequestedDate: "2025-03-04",
		RequestedTime: "09:00",
		Reason:        "checkup",
	})
	require.NoError(t, err)

	_, err = f.appointments.DecideAppointment(ctx, created.ID, providerID, &dto.DecideAppointmentRequest{
		Decision: "confirmed",
	})
	require.NoError(t, err)

	mine, err := f.appointments.GetMyAppointments(ctx, patientID)
	require.NoError(t, err)
	require.Equal(t, 1, mine.Total)
	assert.NotNil(t, mine.Appointments[0].Encounter)

	assigned, err := f.appointments.GetProviderAppointments(ctx, providerID)
	require.NoError(t, err)
	assert.Equal(t, 1, assigned.Total)
}
