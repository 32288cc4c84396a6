package usecase

import (
	"context"
	"errors"
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
	ErrRescheduleNotFound    = errors.New("reschedule request not found")
	ErrAppointmentNotMovable = errors.New("only confirmed appointments can be rescheduled")
	ErrRescheduleResolved    = errors.New("reschedule request has already been resolved")
	ErrBlanketSlotIncomplete = errors.New("new date and new time must be supplied together")
	ErrNoBookingsOnDay       = errors.New("no active bookings on the requested day")
)

type RescheduleUsecase interface {
	ProposeReschedule(ctx context.Context, appointmentID, actorID uuid.UUID, req *dto.ProposeRescheduleRequest) (*dto.RescheduleResponse, error)
	ResolveReschedule(ctx context.Context, rescheduleID, actorID uuid.UUID, req *dto.ResolveRescheduleRequest) (*dto.RescheduleResponse, error)
	ListForAppointment(ctx context.Context, appointmentID, actorID uuid.UUID) (*dto.RescheduleListResponse, error)
	RescheduleDay(ctx context.Context, providerID uuid.UUID, req *dto.DayRescheduleRequest) (*dto.DayRescheduleResponse, error)
}

type rescheduleUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	rescheduleRepo repository.RescheduleRepository
	apptRepo       repository.AppointmentRepository
	audit          service.AuditRecorder
	notifier       service.Notifier
	now            func() time.Time
}

func NewRescheduleUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	rescheduleRepo repository.RescheduleRepository,
	apptRepo repository.AppointmentRepository,
	audit service.AuditRecorder,
	notifier service.Notifier,
) RescheduleUsecase {
	return &rescheduleUsecase{
		db:             db,
		log:            log,
		rescheduleRepo: rescheduleRepo,
		apptRepo:       apptRepo,
		audit:          audit,
		notifier:       notifier,
		now:            time.Now,
	}
}

// ProposeReschedule opens a proposal against a confirmed booking. Either
// party may propose; the parent keeps its date, time and status until the
// counterparty approves.
func (u *rescheduleUsecase) ProposeReschedule(ctx context.Context, appointmentID, actorID uuid.UUID, req *dto.ProposeRescheduleRequest) (*dto.RescheduleResponse, error) {
	appointment, err := u.apptRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.PatientID != actorID && appointment.ProviderID != actorID {
		return nil, ErrNotAppointmentParty
	}
	if !appointment.IsConfirmed() {
		return nil, ErrAppointmentNotMovable
	}

	newDate, err := parseCalendarDate(req.NewDate)
	if err != nil {
		return nil, err
	}
	newTime, err := parseClockTime(req.NewTime)
	if err != nil {
		return nil, err
	}
	if newDate.Before(startOfDay(u.now())) {
		return nil, ErrPastDate
	}

	proposedBy := entity.ProposedByPatient
	role := entity.RolePatient
	if actorID == appointment.ProviderID {
		proposedBy = entity.ProposedByProvider
		role = entity.RoleProvider
	}

	reschedule := &entity.RescheduleRequest{
		AppointmentID:   appointmentID,
		RequestedBy:     actorID,
		RequestedByRole: role,
		CurrentDate:     appointment.RequestedDate,
		CurrentTime:     appointment.RequestedTime,
		NewDate:         newDate,
		NewTime:         newTime,
		Reason:          req.Reason,
		Notes:           req.Notes,
		ProposedBy:      proposedBy,
		Status:          entity.RescheduleStatusPending,
	}

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := u.rescheduleRepo.Create(tx, reschedule); err != nil {
			return err
		}
		u.audit.Record(ctx, tx, &actorID, entity.AuditActionReschedulePropose, entity.ResourceReschedule, reschedule.ID.String(), entity.JSON{
			"appointment_id": appointmentID.String(),
			"new_date":       req.NewDate,
			"new_time":       newTime,
		})
		return nil
	})
	if err != nil {
		u.log.Warnf("Failed to propose reschedule for appointment %s: %+v", appointmentID, err)
		return nil, err
	}

	counterparty := appointment.ProviderID
	if actorID == appointment.ProviderID {
		counterparty = appointment.PatientID
	}
	u.notifier.Notify(ctx, counterparty, entity.NotifyRescheduleProposed, entity.JSON{
		"appointment_id": appointmentID.String(),
		"reschedule_id":  reschedule.ID.String(),
		"new_date":       req.NewDate,
		"new_time":       newTime,
	})

	u.log.Infof("Reschedule proposed: id=%s, appointment=%s, by=%s", reschedule.ID, appointmentID, proposedBy)
	return converter.RescheduleToResponse(reschedule), nil
}

// ResolveReschedule closes a pending proposal. Approval rewrites the parent's
// date and time and moves it to RESCHEDULED in the same transaction. Parents
// already flipped to RESCHEDULED by a bulk day withdrawal stay approvable;
// a terminal parent makes the whole resolution fail. Both writes are guarded,
// so a racing resolution or parent transition aborts cleanly.
func (u *rescheduleUsecase) ResolveReschedule(ctx context.Context, rescheduleID, actorID uuid.UUID, req *dto.ResolveRescheduleRequest) (*dto.RescheduleResponse, error) {
	reschedule, err := u.rescheduleRepo.FindByID(u.db.WithContext(ctx), rescheduleID)
	if err != nil {
		u.log.Warnf("Failed to find reschedule %s: %+v", rescheduleID, err)
		return nil, err
	}
	if reschedule == nil {
		return nil, ErrRescheduleNotFound
	}

	appointment, err := u.apptRepo.FindByID(u.db.WithContext(ctx), reschedule.AppointmentID)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.PatientID != actorID && appointment.ProviderID != actorID {
		return nil, ErrNotAppointmentParty
	}
	if !reschedule.IsPending() {
		return nil, ErrRescheduleResolved
	}

	resolvedAt := u.now()
	approved := req.Decision == string(entity.RescheduleStatusApproved)
	newStatus := entity.RescheduleStatusRejected
	action := entity.AuditActionRescheduleReject
	if approved {
		newStatus = entity.RescheduleStatusApproved
		action = entity.AuditActionRescheduleApprove
	}

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if approved {
			affected, err := u.apptRepo.ApplyReschedule(tx, appointment.ID, reschedule.NewDate, reschedule.NewTime)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrAlreadyFinalized
			}
		}

		affected, err := u.rescheduleRepo.Resolve(tx, rescheduleID, newStatus, resolvedAt)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrRescheduleResolved
		}

		u.audit.Record(ctx, tx, &actorID, action, entity.ResourceReschedule, rescheduleID.String(), entity.JSON{
			"appointment_id": appointment.ID.String(),
			"decision":       req.Decision,
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyFinalized) || errors.Is(err, ErrRescheduleResolved) {
			return nil, err
		}
		u.log.Warnf("Failed to resolve reschedule %s: %+v", rescheduleID, err)
		return nil, err
	}

	reschedule.Status = newStatus
	reschedule.ResolvedAt = &resolvedAt

	u.notifier.Notify(ctx, reschedule.RequestedBy, entity.NotifyRescheduleResolved, entity.JSON{
		"reschedule_id": rescheduleID.String(),
		"decision":      req.Decision,
	})

	u.log.Infof("Reschedule resolved: id=%s, decision=%s", rescheduleID, req.Decision)
	return converter.RescheduleToResponse(reschedule), nil
}

func (u *rescheduleUsecase) ListForAppointment(ctx context.Context, appointmentID, actorID uuid.UUID) (*dto.RescheduleListResponse, error) {
	appointment, err := u.apptRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.PatientID != actorID && appointment.ProviderID != actorID {
		return nil, ErrNotAppointmentParty
	}

	reschedules, err := u.rescheduleRepo.FindByAppointmentID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to list reschedules for appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	return converter.ReschedulesToResponse(reschedules), nil
}

// RescheduleDay is the bulk withdrawal flow: the provider pulls one weekday
// and every pending or confirmed booking on that day inside the forward
// window gets a provider-side proposal and moves to RESCHEDULED. All rows
// commit together or not at all.
func (u *rescheduleUsecase) RescheduleDay(ctx context.Context, providerID uuid.UUID, req *dto.DayRescheduleRequest) (*dto.DayRescheduleResponse, error) {
	day, ok := entity.ParseDayOfWeek(req.Day)
	if !ok {
		return nil, ErrUnknownDayOfWeek
	}

	hasBlanket := req.NewDate != "" || req.NewTime != ""
	var blanketDate time.Time
	var blanketTime string
	if hasBlanket {
		if req.NewDate == "" || req.NewTime == "" {
			return nil, ErrBlanketSlotIncomplete
		}
		var err error
		blanketDate, err = parseCalendarDate(req.NewDate)
		if err != nil {
			return nil, err
		}
		blanketTime, err = parseClockTime(req.NewTime)
		if err != nil {
			return nil, err
		}
	}

	affected, err := activeAppointmentsOnDay(u.db.WithContext(ctx), u.apptRepo, providerID, day, u.now())
	if err != nil {
		u.log.Warnf("Failed to collect bookings on %s for provider %s: %+v", day, providerID, err)
		return nil, err
	}
	if len(affected) == 0 {
		return nil, ErrNoBookingsOnDay
	}

	rescheduleIDs := make([]uuid.UUID, 0, len(affected))
	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range affected {
			appointment := &affected[i]

			newDate := appointment.RequestedDate
			newTime := appointment.RequestedTime
			if hasBlanket {
				newDate = blanketDate
				newTime = blanketTime
			}

			reschedule := &entity.RescheduleRequest{
				AppointmentID:   appointment.ID,
				RequestedBy:     providerID,
				RequestedByRole: entity.RoleProvider,
				CurrentDate:     appointment.RequestedDate,
				CurrentTime:     appointment.RequestedTime,
				NewDate:         newDate,
				NewTime:         newTime,
				Reason:          req.Reason,
				ProposedBy:      entity.ProposedByProvider,
				Status:          entity.RescheduleStatusPending,
			}
			if err := u.rescheduleRepo.Create(tx, reschedule); err != nil {
				return err
			}

			affectedRows, err := u.apptRepo.UpdateStatusFrom(tx, appointment.ID, appointment.Status, entity.AppointmentStatusRescheduled)
			if err != nil {
				return err
			}
			if affectedRows == 0 {
				return ErrAlreadyFinalized
			}
			rescheduleIDs = append(rescheduleIDs, reschedule.ID)
		}

		u.audit.Record(ctx, tx, &providerID, entity.AuditActionDayReschedule, entity.ResourceWeeklySchedule, providerID.String(), entity.JSON{
			"day":      day.String(),
			"affected": len(affected),
			"reason":   req.Reason,
		})
		return nil
	})
	if err != nil {
		u.log.Warnf("Failed day reschedule on %s for provider %s: %+v", day, providerID, err)
		return nil, err
	}

	for i := range affected {
		u.notifier.Notify(ctx, affected[i].PatientID, entity.NotifyDayWithdrawal, entity.JSON{
			"appointment_id": affected[i].ID.String(),
			"day":            day.String(),
			"reason":         req.Reason,
		})
	}

	u.log.Infof("Day reschedule: provider=%s, day=%s, affected=%d", providerID, day, len(affected))
	return &dto.DayRescheduleResponse{
		Day:           day.String(),
		Affected:      len(affected),
		RescheduleIDs: rescheduleIDs,
	}, nil
}
