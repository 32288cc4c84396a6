package repository

import (
	"errors"
	"time"

	"go-clinical-records/internal/domain/entity"
	domainRepo "go-clinical-records/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.AppointmentRequest) error {
	return db.Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.AppointmentRequest, error) {
	var appointment entity.AppointmentRequest
	err := db.Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.AppointmentRequest, error) {
	var appointments []entity.AppointmentRequest
	err := db.Where("patient_id = ?", patientID).
		Order("requested_date ASC, requested_time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByProviderID(db *gorm.DB, providerID uuid.UUID) ([]entity.AppointmentRequest, error) {
	var appointments []entity.AppointmentRequest
	err := db.Where("provider_id = ?", providerID).
		Order("requested_date ASC, requested_time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindActiveByProviderAndDateRange(db *gorm.DB, providerID uuid.UUID, from, to time.Time) ([]entity.AppointmentRequest, error) {
	var appointments []entity.AppointmentRequest
	err := db.Where("provider_id = ? AND requested_date >= ? AND requested_date < ? AND status IN ?",
		providerID, from, to,
		[]entity.AppointmentStatus{entity.AppointmentStatusPending, entity.AppointmentStatusConfirmed}).
		Order("requested_date ASC, requested_time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// UpdateStatusFrom is the guarded transition write. A zero affected-row count
// means the request was no longer in the expected state.
func (r *appointmentRepository) UpdateStatusFrom(db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error) {
	result := db.Model(&entity.AppointmentRequest{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) Cancel(db *gorm.DB, id uuid.UUID, notes string) (int64, error) {
	result := db.Model(&entity.AppointmentRequest{}).
		Where("id = ? AND status IN ?", id, []entity.AppointmentStatus{
			entity.AppointmentStatusPending,
			entity.AppointmentStatusConfirmed,
			entity.AppointmentStatusRescheduled,
		}).
		Updates(map[string]interface{}{
			"status": entity.AppointmentStatusCancelled,
			"notes":  notes,
		})
	return result.RowsAffected, result.Error
}

// ApplyReschedule moves a confirmed or already-rescheduled request to the new
// slot. Bulk day withdrawals flip requests to rescheduled before their
// proposals are resolved, so rescheduled requests must stay movable here.
func (r *appointmentRepository) ApplyReschedule(db *gorm.DB, id uuid.UUID, date time.Time, timeValue string) (int64, error) {
	result := db.Model(&entity.AppointmentRequest{}).
		Where("id = ? AND status IN ?", id, []entity.AppointmentStatus{
			entity.AppointmentStatusConfirmed,
			entity.AppointmentStatusRescheduled,
		}).
		Updates(map[string]interface{}{
			"requested_date": date,
			"requested_time": timeValue,
			"status":         entity.AppointmentStatusRescheduled,
		})
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) Update(db *gorm.DB, appointment *entity.AppointmentRequest) error {
	return db.Omit("Patient", "Provider", "Reschedules", "Encounter").Save(appointment).Error
}
