package converter

import (
	"go-clinical-records/internal/delivery/dto"
	"go-clinical-records/internal/domain/entity"
)

// AuditLogToResponse converts an AuditLog entity to AuditLogResponse DTO
func AuditLogToResponse(log *entity.AuditLog) *dto.AuditLogResponse {
	if log == nil {
		return nil
	}

	return &dto.AuditLogResponse{
		ID:           log.ID,
		Actor:        UserToResponse(log.Actor, ""),
		Action:       log.Action,
		ResourceType: log.ResourceType,
		ResourceID:   log.ResourceID,
		Metadata:     log.Metadata,
		CreatedAt:    log.CreatedAt,
	}
}

// AuditLogsToResponse converts a slice of AuditLog entities to the list DTO
func AuditLogsToResponse(logs []entity.AuditLog) *dto.AuditLogListResponse {
	responses := make([]dto.AuditLogResponse, len(logs))
	for i := range logs {
		responses[i] = *AuditLogToResponse(&logs[i])
	}
	return &dto.AuditLogListResponse{
		Logs:  responses,
		Total: len(responses),
	}
}
