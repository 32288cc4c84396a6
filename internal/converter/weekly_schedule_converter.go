package converter

import (
	"go-clinical-records/internal/delivery/dto"
	"go-clinical-records/internal/domain/entity"

	"github.com/google/uuid"
)

// WeeklySchedulesToResponse converts a provider's schedule rows to the
// weekly view DTO. Days without a row are simply absent.
func WeeklySchedulesToResponse(providerID uuid.UUID, schedules []entity.ProviderWeeklySchedule) *dto.WeeklyScheduleListResponse {
	days := make([]dto.WeeklyScheduleResponse, len(schedules))
	for i, schedule := range schedules {
		days[i] = dto.WeeklyScheduleResponse{
			Day:         schedule.DayOfWeek.String(),
			StartTime:   schedule.StartTime,
			EndTime:     schedule.EndTime,
			IsAvailable: schedule.IsAvailable,
			UpdatedAt:   schedule.UpdatedAt,
		}
	}
	return &dto.WeeklyScheduleListResponse{
		ProviderID: providerID,
		Days:       days,
	}
}
