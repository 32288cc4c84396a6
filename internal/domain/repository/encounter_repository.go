package repository

import (
	"go-clinical-records/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EncounterRepository interface {
	Create(db *gorm.DB, encounter *entity.ClinicalEncounter) error
	FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.ClinicalEncounter, error)
}
