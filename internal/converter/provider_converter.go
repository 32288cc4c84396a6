package converter

import (
	"go-clinical-records/internal/delivery/dto"
	"go-clinical-records/internal/domain/entity"
)

// ProviderToResponse converts a ProviderProfile entity to ProviderResponse DTO
func ProviderToResponse(profile *entity.ProviderProfile) *dto.ProviderResponse {
	if profile == nil {
		return nil
	}

	return &dto.ProviderResponse{
		ID:              profile.UserID,
		Email:           profile.User.Email,
		FullName:        profile.User.FullName,
		LicenseNumber:   profile.LicenseNumber,
		Specialty:       profile.Specialty,
		Biography:       profile.Biography,
		ConsultationFee: profile.ConsultationFee,
		IsActive:        profile.User.IsActive,
	}
}

// ProvidersToResponse converts a slice of ProviderProfile entities to the list DTO
func ProvidersToResponse(profiles []entity.ProviderProfile) *dto.ProviderListResponse {
	responses := make([]dto.ProviderResponse, len(profiles))
	for i := range profiles {
		responses[i] = *ProviderToResponse(&profiles[i])
	}
	return &dto.ProviderListResponse{
		Providers: responses,
		Total:     len(responses),
	}
}
