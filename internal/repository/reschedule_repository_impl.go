package repository

import (
	"errors"
	"time"

	"go-clinical-records/internal/domain/entity"
	domainRepo "go-clinical-records/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type rescheduleRepository struct{}

func NewRescheduleRepository() domainRepo.RescheduleRepository {
	return &rescheduleRepository{}
}

func (r *rescheduleRepository) Create(db *gorm.DB, reschedule *entity.RescheduleRequest) error {
	return db.Create(reschedule).Error
}

func (r *rescheduleRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.RescheduleRequest, error) {
	var reschedule entity.RescheduleRequest
	err := db.Where("id = ?", id).First(&reschedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reschedule, nil
}

func (r *rescheduleRepository) FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) ([]entity.RescheduleRequest, error) {
	var reschedules []entity.RescheduleRequest
	err := db.Where("appointment_id = ?", appointmentID).
		Order("created_at DESC").
		Find(&reschedules).Error
	if err != nil {
		return nil, err
	}
	return reschedules, nil
}

// Resolve is the guarded resolution write: the pending predicate lives in the
// statement itself so two racing resolutions cannot both apply.
func (r *rescheduleRepository) Resolve(db *gorm.DB, id uuid.UUID, status entity.RescheduleStatus, resolvedAt time.Time) (int64, error) {
	result := db.Model(&entity.RescheduleRequest{}).
		Where("id = ? AND status = ?", id, entity.RescheduleStatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"resolved_at": resolvedAt,
		})
	return result.RowsAffected, result.Error
}
