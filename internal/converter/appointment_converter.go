package converter

import (
	"go-clinical-records/internal/delivery/dto"
	"go-clinical-records/internal/domain/entity"
)

// AppointmentToResponse converts an AppointmentRequest entity to its DTO
func AppointmentToResponse(appointment *entity.AppointmentRequest) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:            appointment.ID,
		PatientID:     appointment.PatientID,
		ProviderID:    appointment.ProviderID,
		RequestedDate: appointment.RequestedDate.Format("2006-01-02"),
		RequestedTime: appointment.RequestedTime,
		Reason:        appointment.Reason,
		Priority:      appointment.Priority,
		Status:        string(appointment.Status),
		Notes:         appointment.Notes,
		CreatedAt:     appointment.CreatedAt,
		UpdatedAt:     appointment.UpdatedAt,
	}

	if appointment.Encounter != nil {
		response.Encounter = EncounterToResponse(appointment.Encounter)
	}

	return response
}

// EncounterToResponse converts a ClinicalEncounter entity to its DTO
func EncounterToResponse(encounter *entity.ClinicalEncounter) *dto.EncounterResponse {
	if encounter == nil {
		return nil
	}

	return &dto.EncounterResponse{
		ID:        encounter.ID,
		Code:      encounter.Code,
		CreatedAt: encounter.CreatedAt,
	}
}
