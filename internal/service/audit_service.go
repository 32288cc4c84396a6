package service

import (
	"context"

	"go-clinical-records/internal/domain/entity"
	"go-clinical-records/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuditRecorder writes audit trail entries. Recording is fire-and-forget:
// a failed write is logged locally and never aborts the triggering operation.
type AuditRecorder interface {
	Record(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, action, resourceType, resourceID string, metadata entity.JSON)
}

type auditRecorder struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditRecorder(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditRecorder {
	return &auditRecorder{
		log:       log,
		auditRepo: auditRepo,
	}
}

func (s *auditRecorder) Record(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, action, resourceType, resourceID string, metadata entity.JSON) {
	auditLog := &entity.AuditLog{
		ActorID:      actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Metadata:     metadata,
	}

	if err := s.auditRepo.Create(tx.WithContext(ctx), auditLog); err != nil {
		s.log.Warnf("Failed to create audit log for %s %s: %+v", action, resourceID, err)
	}
}
