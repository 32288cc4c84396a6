package usecase

import (
	"context"
	"testing"

	"go-clinical-records/internal/delivery/dto"
	"go-clinical-records/internal/domain/entity"
	"go-clinical-records/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) bookConfirmed(t *testing.T, ctx context.Context, patientID, providerID uuid.UUID, date, timeValue string) uuid.UUID {
	t.Helper()

	created, err := f.appointments.CreateAppointment(ctx, patientID, &dto.CreateAppointmentRequest{
		ProviderID:    providerID,
		RequestedDate: date,
		RequestedTime: timeValue,
		Reason:        "checkup",
	})
	require.NoError(t, err)

	_, err = f.appointments.DecideAppointment(ctx, created.ID, providerID, &dto.DecideAppointmentRequest{
		Decision: "confirmed",
	})
	require.NoError(t, err)
	return created.ID
}

func TestProposeReschedule(t *testing.T) {
	f := newFixture(t)
	providerID := f.seedProvider(t, "provider@clinic.test")
	patientID := f.seedPatient(t, "patient@clinic.test")
	ctx := context.Background()

	f.seedSchedule(t, providerID, entity.Tuesday, "09:00", "17:00", true)

	t.Run("only confirmed appointments are movable", func(t *testing.T) {
		created, err := f.appointments.CreateAppointment(ctx, patientID, &dto.CreateAppointmentRequest{
			ProviderID:    providerID,
			RequestedDate: "2025-03-04",
			RequestedTime: "09:00",
			Reason:        "checkup",
		})
		require.NoError(t, err)

		_, err = f.reschedules.ProposeReschedule(ctx, created.ID, patientID, &dto.ProposeRescheduleRequest{
			NewDate: "2025-03-11",
			NewTime: "09:00",
			Reason:  "conflict came up",
		})
		assert.ErrorIs(t, err, ErrAppointmentNotMovable)
	})

	t.Run("proposal snapshots the current slot and leaves the parent alone", func(t *testing.T) {
		appointmentID := f.bookConfirmed(t, ctx, patientID, providerID, "2025-03-04", "10:00")

		proposal, err := f.reschedules.ProposeReschedule(ctx, appointmentID, patientID, &dto.ProposeRescheduleRequest{
			NewDate: "2025-03-11",
			NewTime: "11:00",
			Reason:  "conflict came up",
		})
		require.NoError(t, err)
		assert.Equal(t, "pending", proposal.Status)
		assert.Equal(t, entity.ProposedByPatient, proposal.ProposedBy)
		assert.Equal(t, "2025-03-04", proposal.CurrentDate)
		assert.Equal(t, "10:00", proposal.CurrentTime)
		assert.Equal(t, "2025-03-11", proposal.NewDate)
		assert.Equal(t, "11:00", proposal.NewTime)

		var appointment entity.AppointmentRequest
		require.NoError(t, f.db.First(&appointment, "id = ?", appointmentID).Error)
		assert.Equal(t, entity.AppointmentStatusConfirmed, appointment.Status)
		assert.Equal(t, "10:00", appointment.RequestedTime)
	})

	t.Run("provider proposals are attributed to the provider", func(t *testing.T) {
		appointmentID := f.bookConfirmed(t, ctx, patientID, providerID, "2025-03-04", "12:00")

		proposal, err := f.reschedules.ProposeReschedule(ctx, appointmentID, providerID, &dto.ProposeRescheduleRequest{
			NewDate: "2025-03-11",
			NewTime: "12:00",
			Reason:  "clinic closure",
		})
		require.NoError(t, err)
		assert.Equal(t, entity.ProposedByProvider, proposal.ProposedBy)
		assert.Equal(t, entity.RoleProvider, proposal.RequestedByRole)
	})

	t.Run("strangers may not propose", func(t *testing.T) {
		appointmentID := f.bookConfirmed(t, ctx, patientID, providerID, "2025-03-04", "14:00")
		stranger := f.seedPatient(t, "stranger@clinic.test")

		_, err := f.reschedules.ProposeReschedule(ctx, appointmentID, stranger, &dto.ProposeRescheduleRequest{
			NewDate: "2025-03-11",
			NewTime: "14:00",
			Reason:  "not mine",
		})
		assert.ErrorIs(t, err, ErrNotAppointmentParty)
	})
}

func TestResolveReschedule(t *testing.T) {
	f := newFixture(t)
	providerID := f.seedProvider(t, "provider@clinic.test")
	patientID := f.seedPatient(t, "patient@clinic.test")
	ctx := context.Background()

	f.seedSchedule(t, providerID, entity.Tuesday, "09:00", "17:00", true)

	propose := func(t *testing.T, timeValue, newTime string) (uuid.UUID, uuid.UUID) {
		t.Helper()
		appointmentID := f.bookConfirmed(t, ctx, patientID, providerID, "2025-03-04", timeValue)
		proposal, err := f.reschedules.ProposeReschedule(ctx, appointmentID, patientID, &dto.ProposeRescheduleRequest{
			NewDate: "2025-03-11",
			NewTime: newTime,
			Reason:  "conflict came up",
		})
		require.NoError(t, err)
		return appointmentID, proposal.ID
	}

	t.Run("approval rewrites the parent atomically", func(t *testing.T) {
		appointmentID, rescheduleID := propose(t, "09:00", "09:30")

		resolved, err := f.reschedules.ResolveReschedule(ctx, rescheduleID, providerID, &dto.ResolveRescheduleRequest{
			Decision: "approved",
		})
		require.NoError(t, err)
		assert.Equal(t, "approved", resolved.Status)
		assert.NotNil(t, resolved.ResolvedAt)

		var appointment entity.AppointmentRequest
		require.NoError(t, f.db.First(&appointment, "id = ?", appointmentID).Error)
		assert.Equal(t, entity.AppointmentStatusRescheduled, appointment.Status)
		assert.Equal(t, "09:30", appointment.RequestedTime)
		assert.Equal(t, "2025-03-11", appointment.RequestedDate.Format("2006-01-02"))
	})

	t.Run("rejection leaves the parent untouched", func(t *testing.T) {
		appointmentID, rescheduleID := propose(t, "11:00", "11:30")

		resolved, err := f.reschedules.ResolveReschedule(ctx, rescheduleID, providerID, &dto.ResolveRescheduleRequest{
			Decision: "rejected",
		})
		require.NoError(t, err)
		assert.Equal(t, "rejected", resolved.Status)

		var appointment entity.AppointmentRequest
		require.NoError(t, f.db.First(&appointment, "id = ?", appointmentID).Error)
		assert.Equal(t, entity.AppointmentStatusConfirmed, appointment.Status)
		assert.Equal(t, "11:00", appointment.RequestedTime)
	})

	t.Run("resolving twice is refused", func(t *testing.T) {
		_, rescheduleID := propose(t, "13:00", "13:30")

		_, err := f.reschedules.ResolveReschedule(ctx, rescheduleID, providerID, &dto.ResolveRescheduleRequest{
			Decision: "rejected",
		})
		require.NoError(t, err)

		_, err = f.reschedules.ResolveReschedule(ctx, rescheduleID, providerID, &dto.ResolveRescheduleRequest{
			Decision: "approved",
		})
		assert.ErrorIs(t, err, ErrRescheduleResolved)
	})

	t.Run("approval fails when the parent already moved on", func(t *testing.T) {
		appointmentID, rescheduleID := propose(t, "15:00", "15:30")

		// The parent gets cancelled between proposal and resolution.
		require.NoError(t, f.appointments.CancelAppointment(ctx, appointmentID, patientID, &dto.CancelAppointmentRequest{
			Reason: "changed plans",
		}))

		_, err := f.reschedules.ResolveReschedule(ctx, rescheduleID, providerID, &dto.ResolveRescheduleRequest{
			Decision: "approved",
		})
		assert.ErrorIs(t, err, ErrAlreadyFinalized)

		// The proposal is still pending; nothing was half-applied.
		var reschedule entity.RescheduleRequest
		require.NoError(t, f.db.First(&reschedule, "id = ?", rescheduleID).Error)
		assert.Equal(t, entity.RescheduleStatusPending, reschedule.Status)
	})

	t.Run("resolution write refuses a non-pending row", func(t *testing.T) {
		_, rescheduleID := propose(t, "10:00", "10:30")
		rescheduleRepo := repository.NewRescheduleRepository()

		affected, err := rescheduleRepo.Resolve(f.db, rescheduleID, entity.RescheduleStatusRejected, testNow)
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)

		// A second resolution races past any earlier read; the statement's
		// own pending predicate must reject it.
		affected, err = rescheduleRepo.Resolve(f.db, rescheduleID, entity.RescheduleStatusApproved, testNow)
		require.NoError(t, err)
		assert.Equal(t, int64(0), affected)

		var reschedule entity.RescheduleRequest
		require.NoError(t, f.db.First(&reschedule, "id = ?", rescheduleID).Error)
		assert.Equal(t, entity.RescheduleStatusRejected, reschedule.Status)
	})

	t.Run("listing requires being a party", func(t *testing.T) {
		appointmentID, _ := propose(t, "16:00", "16:30")

		list, err := f.reschedules.ListForAppointment(ctx, appointmentID, patientID)
		require.NoError(t, err)
		assert.Equal(t, 1, list.Total)

		stranger := f.seedPatient(t, "stranger@clinic.test")
		_, err = f.reschedules.ListForAppointment(ctx, appointmentID, stranger)
		assert.ErrorIs(t, err, ErrNotAppointmentParty)
	})
}

func TestRescheduleDay(t *testing.T) {
	f := newFixture(t)
	providerID := f.seedProvider(t, "provider@clinic.test")
	patientID := f.seedPatient(t, "patient@clinic.test")
	otherPatient := f.seedPatient(t, "other@clinic.test")
	ctx := context.Background()

	f.seedSchedule(t, providerID, entity.Tuesday, "09:00", "17:00", true)
	f.seedSchedule(t, providerID, entity.Thursday, "09:00", "17:00", true)

	// Two Tuesday bookings (one pending, one confirmed) and one Thursday
	// booking that must not be touched.
	pendingTuesday, err := f.appointments.CreateAppointment(ctx, patientID, &dto.CreateAppointmentRequest{
		ProviderID:    providerID,
		RequestedDate: "2025-03-11",
		RequestedTime: "09:00",
		Reason:        "checkup",
	})
	require.NoError(t, err)
	confirmedTuesday := f.bookConfirmed(t, ctx, otherPatient, providerID, "2025-03-04", "10:00")
	thursday, err := f.appointments.CreateAppointment(ctx, patientID, &dto.CreateAppointmentRequest{
		ProviderID:    providerID,
		RequestedDate: "2025-03-06",
		RequestedTime: "09:00",
		Reason:        "checkup",
	})
	require.NoError(t, err)

	t.Run("blanket requires both date and time", func(t *testing.T) {
		_, err := f.reschedules.RescheduleDay(ctx, providerID, &dto.DayRescheduleRequest{
			Day:     "tuesday",
			Reason:  "clinic closure",
			NewDate: "2025-03-13",
		})
		assert.ErrorIs(t, err, ErrBlanketSlotIncomplete)
	})

	t.Run("withdraws every booking on the day", func(t *testing.T) {
		result, err := f.reschedules.RescheduleDay(ctx, providerID, &dto.DayRescheduleRequest{
			Day:     "tuesday",
			Reason:  "clinic closure",
			NewDate: "2025-03-13",
			NewTime: "09:00",
		})
		require.NoError(t, err)
		assert.Equal(t, "tuesday", result.Day)
		assert.Equal(t, 2, result.Affected)
		assert.Len(t, result.RescheduleIDs, 2)

		for _, id := range []uuid.UUID{pendingTuesday.ID, confirmedTuesday} {
			var appointment entity.AppointmentRequest
			require.NoError(t, f.db.First(&appointment, "id = ?", id).Error)
			assert.Equal(t, entity.AppointmentStatusRescheduled, appointment.Status)

			var proposals []entity.RescheduleRequest
			require.NoError(t, f.db.Where("appointment_id = ?", id).Find(&proposals).Error)
			require.Len(t, proposals, 1)
			assert.Equal(t, entity.RescheduleStatusPending, proposals[0].Status)
			assert.Equal(t, entity.ProposedByProvider, proposals[0].ProposedBy)
			assert.Equal(t, "2025-03-13", proposals[0].NewDate.Format("2006-01-02"))
			assert.Equal(t, "09:00", proposals[0].NewTime)
		}

		var untouched entity.AppointmentRequest
		require.NoError(t, f.db.First(&untouched, "id = ?", thursday.ID).Error)
		assert.Equal(t, entity.AppointmentStatusPending, untouched.Status)
	})

	t.Run("withdrawal proposals stay approvable", func(t *testing.T) {
		// The bulk flow already flipped the parent to rescheduled; accepting
		// the proposal must still move the booking to the blanket slot.
		var proposal entity.RescheduleRequest
		require.NoError(t, f.db.First(&proposal, "appointment_id = ?", pendingTuesday.ID).Error)

		resolved, err := f.reschedules.ResolveReschedule(ctx, proposal.ID, patientID, &dto.ResolveRescheduleRequest{
			Decision: "approved",
		})
		require.NoError(t, err)
		assert.Equal(t, "approved", resolved.Status)
		assert.NotNil(t, resolved.ResolvedAt)

		var appointment entity.AppointmentRequest
		require.NoError(t, f.db.First(&appointment, "id = ?", pendingTuesday.ID).Error)
		assert.Equal(t, entity.AppointmentStatusRescheduled, appointment.Status)
		assert.Equal(t, "2025-03-13", appointment.RequestedDate.Format("2006-01-02"))
		assert.Equal(t, "09:00", appointment.RequestedTime)
	})

	t.Run("a withdrawn day has no bookings left", func(t *testing.T) {
		_, err := f.reschedules.RescheduleDay(ctx, providerID, &dto.DayRescheduleRequest{
			Day:    "tuesday",
			Reason: "clinic closure",
		})
		assert.ErrorIs(t, err, ErrNoBookingsOnDay)
	})

	t.Run("without a blanket slot the proposals echo the current slot", func(t *testing.T) {
		result, err := f.reschedules.RescheduleDay(ctx, providerID, &dto.DayRescheduleRequest{
			Day:    "thursday",
			Reason: "clinic closure",
		})
		require.NoError(t, err)
		require.Equal(t, 1, result.Affected)

		var proposal entity.RescheduleRequest
		require.NoError(t, f.db.First(&proposal, "id = ?", result.RescheduleIDs[0]).Error)
		assert.Equal(t, "2025-03-06", proposal.NewDate.Format("2006-01-02"))
		assert.Equal(t, "09:00", proposal.NewTime)
	})

	t.Run("rejects unknown day", func(t *testing.T) {
		_, err := f.reschedules.RescheduleDay(ctx, providerID, &dto.DayRescheduleRequest{
			Day:    "weekend",
			Reason: "clinic closure",
		})
		assert.ErrorIs(t, err, ErrUnknownDayOfWeek)
	})
}
