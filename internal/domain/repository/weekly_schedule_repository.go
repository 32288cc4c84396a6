package repository

import (
	"go-clinical-records/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WeeklyScheduleRepository interface {
	// Upsert writes one row per (provider, day of week) pair.
	Upsert(db *gorm.DB, schedule *entity.ProviderWeeklySchedule) error
	FindByProviderAndDay(db *gorm.DB, providerID uuid.UUID, day entity.DayOfWeek) (*entity.ProviderWeeklySchedule, error)
	FindByProviderID(db *gorm.DB, providerID uuid.UUID) ([]entity.ProviderWeeklySchedule, error)
}
