package repository

import (
	"errors"

	"go-clinical-records/internal/domain/entity"
	domainRepo "go-clinical-records/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type weeklyScheduleRepository struct{}

func NewWeeklyScheduleRepository() domainRepo.WeeklyScheduleRepository {
	return &weeklyScheduleRepository{}
}

// Upsert enforces the at-most-one-row-per-(provider, day) invariant via the
// composite unique index instead of a read-then-write check.
func (r *weeklyScheduleRepository) Upsert(db *gorm.DB, schedule *entity.ProviderWeeklySchedule) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "provider_id"}, {Name: "day_of_week"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"start_time", "end_time", "is_available", "updated_at",
		}),
	}).Create(schedule).Error
}

func (r *weeklyScheduleRepository) FindByProviderAndDay(db *gorm.DB, providerID uuid.UUID, day entity.DayOfWeek) (*entity.ProviderWeeklySchedule, error) {
	var schedule entity.ProviderWeeklySchedule
	err := db.Where("provider_id = ? AND day_of_week = ?", providerID, day).First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &schedule, nil
}

func (r *weeklyScheduleRepository) FindByProviderID(db *gorm.DB, providerID uuid.UUID) ([]entity.ProviderWeeklySchedule, error) {
	var schedules []entity.ProviderWeeklySchedule
	err := db.Where("provider_id = ?", providerID).Order("day_of_week ASC").Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}
