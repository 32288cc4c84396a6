package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-clinical-records/internal/converter"
	"go-clinical-records/internal/delivery/dto"
	"go-clinical-records/internal/domain/entity"
	"go-clinical-records/internal/domain/repository"
	"go-clinical-records/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrProviderNotFound  = errors.New("provider not found")
	ErrUnknownDayOfWeek  = errors.New("unknown day of week")
	ErrInvalidDateFormat = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidTimeFormat = errors.New("invalid time format, use HH:MM")
	ErrInvalidTimeWindow = errors.New("start time must be before end time")
)

// DayConflictError refuses a weekly-schedule withdrawal because bookings
// still occupy the day inside the forward window. The caller must reschedule
// them first (or keep the day enabled).
type DayConflictError struct {
	Conflicts []dto.DayConflictResponse
}

func (e *DayConflictError) Error() string {
	total := 0
	for _, c := range e.Conflicts {
		total += c.Count
	}
	return fmt.Sprintf("%d appointment(s) still scheduled on withdrawn day(s)", total)
}

type AvailabilityUsecase interface {
	UpsertWeeklySchedule(ctx context.Context, providerID uuid.UUID, req *dto.UpsertWeeklyScheduleRequest) (*dto.WeeklyScheduleListResponse, error)
	GetWeeklySchedule(ctx context.Context, providerID uuid.UUID) (*dto.WeeklyScheduleListResponse, error)
	CheckSlot(ctx context.Context, providerID uuid.UUID, dateValue, timeValue string) (*dto.SlotAvailabilityResponse, error)
}

type availabilityUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	weeklyRepo   repository.WeeklyScheduleRepository
	providerRepo repository.ProviderProfileRepository
	apptRepo     repository.AppointmentRepository
	audit        service.AuditRecorder
	now          func() time.Time
}

func NewAvailabilityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	weeklyRepo repository.WeeklyScheduleRepository,
	providerRepo repository.ProviderProfileRepository,
	apptRepo repository.AppointmentRepository,
	audit service.AuditRecorder,
) AvailabilityUsecase {
	return &availabilityUsecase{
		db:           db,
		log:          log,
		weeklyRepo:   weeklyRepo,
		providerRepo: providerRepo,
		apptRepo:     apptRepo,
		audit:        audit,
		now:          time.Now,
	}
}

// UpsertWeeklySchedule writes one row per submitted day. Disabling a day that
// still has pending or confirmed bookings inside the withdrawal window is
// refused with the per-day conflict list, so providers go through the
// day-reschedule flow first.
func (u *availabilityUsecase) UpsertWeeklySchedule(ctx context.Context, providerID uuid.UUID, req *dto.UpsertWeeklyScheduleRequest) (*dto.WeeklyScheduleListResponse, error) {
	provider, err := u.providerRepo.FindByUserID(u.db.WithContext(ctx), providerID)
	if err != nil {
		u.log.Warnf("Failed to find provider %s: %+v", providerID, err)
		return nil, err
	}
	if provider == nil {
		return nil, ErrProviderNotFound
	}

	entries := make([]entity.ProviderWeeklySchedule, 0, len(req.Days))
	var conflicts []dto.DayConflictResponse

	for _, dayReq := range req.Days {
		day, ok := entity.ParseDayOfWeek(dayReq.Day)
		if !ok {
			return nil, ErrUnknownDayOfWeek
		}
		startTime, err := parseClockTime(dayReq.StartTime)
		if err != nil {
			return nil, err
		}
		endTime, err := parseClockTime(dayReq.EndTime)
		if err != nil {
			return nil, err
		}
		if startTime >= endTime {
			return nil, ErrInvalidTimeWindow
		}

		if !*dayReq.IsAvailable {
			affected, err := activeAppointmentsOnDay(u.db.WithContext(ctx), u.apptRepo, providerID, day, u.now())
			if err != nil {
				u.log.Warnf("Failed to check bookings on %s for provider %s: %+v", day, providerID, err)
				return nil, err
			}
			if len(affected) > 0 {
				ids := make([]uuid.UUID, len(affected))
				for i, appointment := range affected {
					ids[i] = appointment.ID
				}
				conflicts = append(conflicts, dto.DayConflictResponse{
					Day:            day.String(),
					Count:          len(affected),
					AppointmentIDs: ids,
				})
				continue
			}
		}

		entries = append(entries, entity.ProviderWeeklySchedule{
			ProviderID:  providerID,
			DayOfWeek:   day,
			StartTime:   startTime,
			EndTime:     endTime,
			IsAvailable: *dayReq.IsAvailable,
		})
	}

	if len(conflicts) > 0 {
		return nil, &DayConflictError{Conflicts: conflicts}
	}

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range entries {
			if err := u.weeklyRepo.Upsert(tx, &entries[i]); err != nil {
				return err
			}
		}
		u.audit.Record(ctx, tx, &providerID, entity.AuditActionWeeklyScheduleUpsert, entity.ResourceWeeklySchedule, providerID.String(), entity.JSON{
			"days": len(entries),
		})
		return nil
	})
	if err != nil {
		u.log.Warnf("Failed to upsert weekly schedule for provider %s: %+v", providerID, err)
		return nil, err
	}

	return u.GetWeeklySchedule(ctx, providerID)
}

func (u *availabilityUsecase) GetWeeklySchedule(ctx context.Context, providerID uuid.UUID) (*dto.WeeklyScheduleListResponse, error) {
	provider, err := u.providerRepo.FindByUserID(u.db.WithContext(ctx), providerID)
	if err != nil {
		u.log.Warnf("Failed to find provider %s: %+v", providerID, err)
		return nil, err
	}
	if provider == nil {
		return nil, ErrProviderNotFound
	}

	schedules, err := u.weeklyRepo.FindByProviderID(u.db.WithContext(ctx), providerID)
	if err != nil {
		u.log.Warnf("Failed to find weekly schedule for provider %s: %+v", providerID, err)
		return nil, err
	}

	return converter.WeeklySchedulesToResponse(providerID, schedules), nil
}

// CheckSlot answers "is this provider bookable at this instant". With no time
// supplied it only asks whether the day is enabled at all.
func (u *availabilityUsecase) CheckSlot(ctx context.Context, providerID uuid.UUID, dateValue, timeValue string) (*dto.SlotAvailabilityResponse, error) {
	provider, err := u.providerRepo.FindByUserID(u.db.WithContext(ctx), providerID)
	if err != nil {
		u.log.Warnf("Failed to find provider %s: %+v", providerID, err)
		return nil, err
	}
	if provider == nil {
		return nil, ErrProviderNotFound
	}

	date, err := parseCalendarDate(dateValue)
	if err != nil {
		return nil, err
	}
	if timeValue != "" {
		if _, err := parseClockTime(timeValue); err != nil {
			return nil, err
		}
	}

	available, err := slotAvailable(u.db.WithContext(ctx), u.weeklyRepo, providerID, date, timeValue)
	if err != nil {
		u.log.Warnf("Failed slot check for provider %s: %+v", providerID, err)
		return nil, err
	}

	return &dto.SlotAvailabilityResponse{
		ProviderID: providerID,
		Date:       dateValue,
		Time:       timeValue,
		Available:  available,
	}, nil
}
