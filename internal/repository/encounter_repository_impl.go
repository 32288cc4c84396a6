package repository

import (
	"errors"

	"go-clinical-records/internal/domain/entity"
	domainRepo "go-clinical-records/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type encounterRepository struct{}

func NewEncounterRepository() domainRepo.EncounterRepository {
	return &encounterRepository{}
}

func (r *encounterRepository) Create(db *gorm.DB, encounter *entity.ClinicalEncounter) error {
	return db.Create(encounter).Error
}

func (r *encounterRepository) FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.ClinicalEncounter, error) {
	var encounter entity.ClinicalEncounter
	err := db.Where("appointment_id = ?", appointmentID).First(&encounter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &encounter, nil
}
