package usecase

import (
	"regexp"
	"time"

	"go-clinical-records/internal/domain/entity"
	"go-clinical-records/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// SlotWidth is the proximity threshold used as a proxy for appointment
	// duration: two bookings closer than this conflict.
	SlotWidth = 30 * time.Minute

	// WithdrawalWindowDays bounds how far ahead a bulk day withdrawal looks
	// for affected bookings.
	WithdrawalWindowDays = 28
)

// Requested times must be two-digit:two-digit; time.Parse alone is too lenient
// about what it accepts upstream of that shape.
var timePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

func parseClockTime(value string) (string, error) {
	if !timePattern.MatchString(value) {
		return "", ErrInvalidTimeFormat
	}
	if _, err := time.Parse("15:04", value); err != nil {
		return "", ErrInvalidTimeFormat
	}
	return value, nil
}

func parseCalendarDate(value string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return date, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// slotAvailable answers the availability question for one provider instant.
// A missing weekly row is treated as the closed-day sentinel. An empty
// timeValue means "does any slot exist on this date", which only requires the
// day to be enabled.
func slotAvailable(db *gorm.DB, weeklyRepo repository.WeeklyScheduleRepository, providerID uuid.UUID, date time.Time, timeValue string) (bool, error) {
	day := entity.DayOfWeek(date.Weekday())
	window, err := weeklyRepo.FindByProviderAndDay(db, providerID, day)
	if err != nil {
		return false, err
	}
	if window == nil {
		window = entity.ClosedDay(providerID, day)
	}
	if !window.IsAvailable {
		return false, nil
	}
	if timeValue == "" {
		return true, nil
	}

	instant, err := entity.CombineDateTime(date, timeValue)
	if err != nil {
		return false, ErrInvalidTimeFormat
	}
	return window.WindowOn(date, instant), nil
}

// hasConflict scans the provider's pending and confirmed bookings on the
// candidate's calendar day and reports a conflict when any existing booking
// is strictly closer than SlotWidth. A gap of exactly SlotWidth is allowed.
func hasConflict(db *gorm.DB, appointmentRepo repository.AppointmentRepository, providerID uuid.UUID, date time.Time, candidate time.Time) (bool, error) {
	dayStart := startOfDay(date)
	existing, err := appointmentRepo.FindActiveByProviderAndDateRange(db, providerID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return false, err
	}

	for _, appointment := range existing {
		instant, err := appointment.Instant()
		if err != nil {
			continue
		}
		diff := candidate.Sub(instant)
		if diff < 0 {
			diff = -diff
		}
		if diff < SlotWidth {
			return true, nil
		}
	}
	return false, nil
}

// activeAppointmentsOnDay returns the provider's pending and confirmed
// bookings inside the forward withdrawal window that fall on the given day
// of week.
func activeAppointmentsOnDay(db *gorm.DB, appointmentRepo repository.AppointmentRepository, providerID uuid.UUID, day entity.DayOfWeek, now time.Time) ([]entity.AppointmentRequest, error) {
	from := startOfDay(now)
	to := from.AddDate(0, 0, WithdrawalWindowDays)

	appointments, err := appointmentRepo.FindActiveByProviderAndDateRange(db, providerID, from, to)
	if err != nil {
		return nil, err
	}

	var matching []entity.AppointmentRequest
	for _, appointment := range appointments {
		if entity.DayOfWeek(appointment.RequestedDate.Weekday()) == day {
			matching = append(matching, appointment)
		}
	}
	return matching, nil
}
