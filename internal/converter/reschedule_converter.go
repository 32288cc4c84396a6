package converter

import (
	"go-clinical-records/internal/delivery/dto"
	"go-clinical-records/internal/domain/entity"
)

// RescheduleToResponse converts a RescheduleRequest entity to its DTO
func RescheduleToResponse(reschedule *entity.RescheduleRequest) *dto.RescheduleResponse {
	if reschedule == nil {
		return nil
	}

	return &dto.RescheduleResponse{
		ID:              reschedule.ID,
		AppointmentID:   reschedule.AppointmentID,
		RequestedBy:     reschedule.RequestedBy,
		RequestedByRole: reschedule.RequestedByRole,
		CurrentDate:     reschedule.CurrentDate.Format("2006-01-02"),
		CurrentTime:     reschedule.CurrentTime,
		NewDate:         reschedule.NewDate.Format("2006-01-02"),
		NewTime:         reschedule.NewTime,
		Reason:          reschedule.Reason,
		Notes:           reschedule.Notes,
		ProposedBy:      reschedule.ProposedBy,
		Status:          string(reschedule.Status),
		ResolvedAt:      reschedule.ResolvedAt,
		CreatedAt:       reschedule.CreatedAt,
	}
}

// ReschedulesToResponse converts a slice of RescheduleRequest entities to the list DTO
func ReschedulesToResponse(reschedules []entity.RescheduleRequest) *dto.RescheduleListResponse {
	responses := make([]dto.RescheduleResponse, len(reschedules))
	for i := range reschedules {
		responses[i] = *RescheduleToResponse(&reschedules[i])
	}
	return &dto.RescheduleListResponse{
		Reschedules: responses,
		Total:       len(responses),
	}
}
