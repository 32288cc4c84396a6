package repository

import (
	"time"

	"go-clinical-records/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RescheduleRepository interface {
	Create(db *gorm.DB, reschedule *entity.RescheduleRequest) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.RescheduleRequest, error)
	FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) ([]entity.RescheduleRequest, error)
	// Resolve closes a proposal only while it is still pending. Returns
	// affected rows: 0 means another resolution got there first.
	Resolve(db *gorm.DB, id uuid.UUID, status entity.RescheduleStatus, resolvedAt time.Time) (int64, error)
}
