package repository

import (
	"go-clinical-records/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProviderProfileRepository interface {
	Create(db *gorm.DB, profile *entity.ProviderProfile) error
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.ProviderProfile, error)
	FindAll(db *gorm.DB) ([]entity.ProviderProfile, error)
	Update(db *gorm.DB, profile *entity.ProviderProfile) error
}

type PatientProfileRepository interface {
	Create(db *gorm.DB, profile *entity.PatientProfile) error
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error)
}
