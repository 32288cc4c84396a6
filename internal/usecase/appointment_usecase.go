package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-clinical-records/internal/converter"
	"go-clinical-records/internal/delivery/dto"
	"go-clinical-records/internal/domain/entity"
	"go-clinical-records/internal/domain/repository"
	"go-clinical-records/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound    = errors.New("appointment not found")
	ErrPatientNotFound        = errors.New("patient not found")
	ErrSlotUnavailable        = errors.New("provider is not available at the requested time")
	ErrSlotTaken              = errors.New("requested time conflicts with an existing appointment")
	ErrSlotContended          = errors.New("slot is currently being booked, please retry")
	ErrPastDate               = errors.New("cannot book a past date")
	ErrNotAppointmentProvider = errors.New("appointment is not assigned to you")
	ErrNotAppointmentParty    = errors.New("you are not a party to this appointment")
	ErrAlreadyDecided         = errors.New("appointment has already been decided")
	ErrAlreadyFinalized       = errors.New("appointment is already in a terminal state")
)

type AppointmentUsecase interface {
	CreateAppointment(ctx context.Context, patientID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	GetMyAppointments(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error)
	GetProviderAppointments(ctx context.Context, providerID uuid.UUID) (*dto.AppointmentListResponse, error)
	DecideAppointment(ctx context.Context, appointmentID, providerID uuid.UUID, req *dto.DecideAppointmentRequest) (*dto.AppointmentResponse, error)
	CancelAppointment(ctx context.Context, appointmentID, actorID uuid.UUID, req *dto.CancelAppointmentRequest) error
}

type appointmentUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	apptRepo      repository.AppointmentRepository
	weeklyRepo    repository.WeeklyScheduleRepository
	providerRepo  repository.ProviderProfileRepository
	patientRepo   repository.PatientProfileRepository
	encounterRepo repository.EncounterRepository
	locker        service.SlotLocker
	audit         service.AuditRecorder
	notifier      service.Notifier
	now           func() time.Time
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	apptRepo repository.AppointmentRepository,
	weeklyRepo repository.WeeklyScheduleRepository,
	providerRepo repository.ProviderProfileRepository,
	patientRepo repository.PatientProfileRepository,
	encounterRepo repository.EncounterRepository,
	locker service.SlotLocker,
	audit service.AuditRecorder,
	notifier service.Notifier,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:            db,
		log:           log,
		apptRepo:      apptRepo,
		weeklyRepo:    weeklyRepo,
		providerRepo:  providerRepo,
		patientRepo:   patientRepo,
		encounterRepo: encounterRepo,
		locker:        locker,
		audit:         audit,
		notifier:      notifier,
		now:           time.Now,
	}
}

// CreateAppointment turns a patient's requested date/time into a PENDING
// booking.
//
// Flow:
// 1. Resolve the provider (must exist with an active account)
// 2. Parse date and HH:MM time
// 3. Under the per-(provider, date) slot lock, inside one transaction:
//    availability check, then conflict check, then insert
//
// The lock plus re-check closes the window where two near-simultaneous
// requests both pass the conflict scan and both insert.
func (u *appointmentUsecase) CreateAppointment(ctx context.Context, patientID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	patient, err := u.patientRepo.FindByUserID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	provider, err := u.providerRepo.FindByUserID(u.db.WithContext(ctx), req.ProviderID)
	if err != nil {
		u.log.Warnf("Failed to find provider %s: %+v", req.ProviderID, err)
		return nil, err
	}
	if provider == nil || !provider.User.IsActive {
		return nil, ErrProviderNotFound
	}

	date, err := parseCalendarDate(req.RequestedDate)
	if err != nil {
		return nil, err
	}
	timeValue, err := parseClockTime(req.RequestedTime)
	if err != nil {
		return nil, err
	}

	today := startOfDay(u.now())
	if date.Before(today) {
		return nil, ErrPastDate
	}

	appointment := &entity.AppointmentRequest{
		PatientID:     patientID,
		ProviderID:    req.ProviderID,
		RequestedDate: date,
		RequestedTime: timeValue,
		Reason:        req.Reason,
		Priority:      req.Priority,
		Notes:         req.Notes,
		Status:        entity.AppointmentStatusPending,
	}

	lockKey := service.SlotLockKey(req.ProviderID, date)
	err = u.locker.WithLock(ctx, lockKey, func(lockCtx context.Context) error {
		return u.db.WithContext(lockCtx).Transaction(func(tx *gorm.DB) error {
			available, err := slotAvailable(tx, u.weeklyRepo, req.ProviderID, date, timeValue)
			if err != nil {
				return err
			}
			if !available {
				return ErrSlotUnavailable
			}

			instant, err := entity.CombineDateTime(date, timeValue)
			if err != nil {
				return ErrInvalidTimeFormat
			}
			conflict, err := hasConflict(tx, u.apptRepo, req.ProviderID, date, instant)
			if err != nil {
				return err
			}
			if conflict {
				return ErrSlotTaken
			}

			if err := u.apptRepo.Create(tx, appointment); err != nil {
				return err
			}

			u.audit.Record(ctx, tx, &patientID, entity.AuditActionAppointmentCreate, entity.ResourceAppointment, appointment.ID.String(), entity.JSON{
				"provider_id":    req.ProviderID.String(),
				"requested_date": req.RequestedDate,
				"requested_time": timeValue,
			})
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, service.ErrLockNotAcquired) {
			return nil, ErrSlotContended
		}
		if errors.Is(err, ErrSlotUnavailable) || errors.Is(err, ErrSlotTaken) || errors.Is(err, ErrInvalidTimeFormat) {
			return nil, err
		}
		u.log.Warnf("Failed to create appointment for patient %s: %+v", patientID, err)
		return nil, err
	}

	u.notifier.Notify(ctx, req.ProviderID, entity.NotifyAppointmentCreated, entity.JSON{
		"appointment_id": appointment.ID.String(),
		"requested_date": req.RequestedDate,
		"requested_time": timeValue,
	})

	u.log.Infof("Appointment created: id=%s, provider=%s, date=%s %s", appointment.ID, req.ProviderID, req.RequestedDate, timeValue)
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) GetMyAppointments(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error) {
	appointments, err := u.apptRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for patient %s: %+v", patientID, err)
		return nil, err
	}
	return u.listWithEncounters(ctx, appointments)
}

func (u *appointmentUsecase) GetProviderAppointments(ctx context.Context, providerID uuid.UUID) (*dto.AppointmentListResponse, error) {
	appointments, err := u.apptRepo.FindByProviderID(u.db.WithContext(ctx), providerID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for provider %s: %+v", providerID, err)
		return nil, err
	}
	return u.listWithEncounters(ctx, appointments)
}

func (u *appointmentUsecase) listWithEncounters(ctx context.Context, appointments []entity.AppointmentRequest) (*dto.AppointmentListResponse, error) {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		response := converter.AppointmentToResponse(&appointments[i])
		if appointments[i].Status == entity.AppointmentStatusConfirmed || appointments[i].Status == entity.AppointmentStatusRescheduled {
			encounter, err := u.encounterRepo.FindByAppointmentID(u.db.WithContext(ctx), appointments[i].ID)
			if err != nil {
				return nil, err
			}
			response.Encounter = converter.EncounterToResponse(encounter)
		}
		responses[i] = *response
	}
	return &dto.AppointmentListResponse{
		Appointments: responses,
		Total:        len(responses),
	}, nil
}

// DecideAppointment is the provider's accept/reject transition. Confirming
// materializes the clinical encounter in the same transaction as the status
// flip, and the guarded update makes a second confirm fail instead of
// silently creating another encounter.
func (u *appointmentUsecase) DecideAppointment(ctx context.Context, appointmentID, providerID uuid.UUID, req *dto.DecideAppointmentRequest) (*dto.AppointmentResponse, error) {
	appointment, err := u.apptRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.ProviderID != providerID {
		return nil, ErrNotAppointmentProvider
	}

	newStatus := entity.AppointmentStatus(req.Decision)
	if !appointment.CanTransitionTo(newStatus) {
		return nil, ErrAlreadyDecided
	}

	var encounter *entity.ClinicalEncounter
	action := entity.AuditActionAppointmentReject
	notifyKind := entity.NotifyAppointmentRejected

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		affected, err := u.apptRepo.UpdateStatusFrom(tx, appointmentID, entity.AppointmentStatusPending, newStatus)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrAlreadyDecided
		}

		if newStatus == entity.AppointmentStatusConfirmed {
			action = entity.AuditActionAppointmentConfirm
			notifyKind = entity.NotifyAppointmentConfirmed

			encounter, err = u.materializeEncounter(tx, appointment)
			if err != nil {
				return err
			}
		}

		u.audit.Record(ctx, tx, &providerID, action, entity.ResourceAppointment, appointmentID.String(), entity.JSON{
			"decision": req.Decision,
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyDecided) {
			return nil, err
		}
		u.log.Warnf("Failed to decide appointment %s: %+v", appointmentID, err)
		return nil, err
	}

	u.notifier.Notify(ctx, appointment.PatientID, notifyKind, entity.JSON{
		"appointment_id": appointmentID.String(),
		"decision":       req.Decision,
	})

	appointment.Status = newStatus
	response := converter.AppointmentToResponse(appointment)
	response.Encounter = converter.EncounterToResponse(encounter)
	return response, nil
}

// materializeEncounter creates the visit record for a freshly confirmed
// booking. The code carries the booking's date/time plus a random suffix;
// on the rare suffix collision one retry is attempted before giving up.
func (u *appointmentUsecase) materializeEncounter(tx *gorm.DB, appointment *entity.AppointmentRequest) (*entity.ClinicalEncounter, error) {
	for attempt := 0; attempt < 2; attempt++ {
		encounter := &entity.ClinicalEncounter{
			AppointmentID: appointment.ID,
			Code:          generateEncounterCode(appointment.RequestedDate, appointment.RequestedTime),
		}
		err := u.encounterRepo.Create(tx, encounter)
		if err == nil {
			return encounter, nil
		}
		if !isDuplicateKeyError(err, "code") {
			return nil, err
		}
		u.log.Warnf("Encounter code collision for appointment %s, retrying", appointment.ID)
	}
	return nil, fmt.Errorf("failed to generate unique encounter code for appointment %s", appointment.ID)
}

// CancelAppointment retires a booking. Either party may cancel; the reason is
// kept in notes and any existing encounter is left as historical record.
func (u *appointmentUsecase) CancelAppointment(ctx context.Context, appointmentID, actorID uuid.UUID, req *dto.CancelAppointmentRequest) error {
	appointment, err := u.apptRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}
	if appointment.PatientID != actorID && appointment.ProviderID != actorID {
		return ErrNotAppointmentParty
	}

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		affected, err := u.apptRepo.Cancel(tx, appointmentID, req.Reason)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrAlreadyFinalized
		}

		u.audit.Record(ctx, tx, &actorID, entity.AuditActionAppointmentCancel, entity.ResourceAppointment, appointmentID.String(), entity.JSON{
			"reason": req.Reason,
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyFinalized) {
			return err
		}
		u.log.Warnf("Failed to cancel appointment %s: %+v", appointmentID, err)
		return err
	}

	// Tell the other party.
	counterparty := appointment.ProviderID
	if actorID == appointment.ProviderID {
		counterparty = appointment.PatientID
	}
	u.notifier.Notify(ctx, counterparty, entity.NotifyAppointmentCancelled, entity.JSON{
		"appointment_id": appointmentID.String(),
		"reason":         req.Reason,
	})

	u.log.Infof("Appointment cancelled: id=%s, actor=%s", appointmentID, actorID)
	return nil
}

// generateEncounterCode builds codes of the form ENC-YYYYMMDD-HHMM-XXXXXX.
// Uniqueness is best-effort; the unique index plus a retry covers collisions.
func generateEncounterCode(date time.Time, timeValue string) string {
	randomBytes := make([]byte, 3)
	// crypto/rand.Read always fills the buffer; collisions are handled by
	// the unique index and the retry in materializeEncounter.
	_, _ = rand.Read(randomBytes)
	return fmt.Sprintf("ENC-%s-%s-%06X",
		date.Format("20060102"),
		strings.ReplaceAll(timeValue, ":", ""),
		randomBytes,
	)
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint
// violation containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
