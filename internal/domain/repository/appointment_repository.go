package repository

import (
	"time"

	"go-clinical-records/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.AppointmentRequest) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.AppointmentRequest, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.AppointmentRequest, error)
	FindByProviderID(db *gorm.DB, providerID uuid.UUID) ([]entity.AppointmentRequest, error)
	// FindActiveByProviderAndDateRange returns pending and confirmed requests
	// whose requested date lies in [from, to).
	FindActiveByProviderAndDateRange(db *gorm.DB, providerID uuid.UUID, from, to time.Time) ([]entity.AppointmentRequest, error)
	// UpdateStatusFrom flips status only when the current status matches.
	// Returns affected rows so callers can detect stale transitions.
	UpdateStatusFrom(db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error)
	// Cancel moves any non-terminal request to cancelled, storing the reason
	// in notes. Returns affected rows: 0 means the request was already in a
	// terminal state.
	Cancel(db *gorm.DB, id uuid.UUID, notes string) (int64, error)
	// ApplyReschedule rewrites the booked date and time and moves the request
	// to rescheduled in one guarded write. Confirmed and already-rescheduled
	// requests qualify; terminal ones do not. Returns affected rows: 0 means
	// the request can no longer be moved.
	ApplyReschedule(db *gorm.DB, id uuid.UUID, date time.Time, timeValue string) (int64, error)
	Update(db *gorm.DB, appointment *entity.AppointmentRequest) error
}
