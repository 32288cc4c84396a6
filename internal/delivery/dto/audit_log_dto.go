package dto

import (
	"time"

	"go-clinical-records/internal/domain/entity"
)

// Response DTOs

type AuditLogResponse struct {
	ID           int64         `json:"id"`
	Actor        *UserResponse `json:"actor,omitempty"`
	Action       string        `json:"action"`
	ResourceType string        `json:"resource_type"`
	ResourceID   string        `json:"resource_id"`
	Metadata     entity.JSON   `json:"metadata,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int                `json:"total"`
}
