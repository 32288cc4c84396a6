package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditLog represents a system audit trail entry
type AuditLog struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorID      *uuid.UUID `gorm:"type:uuid;index" json:"actor_id,omitempty"`
	Action       string     `gorm:"type:varchar(100);not null;index" json:"action"`
	ResourceType string     `gorm:"type:varchar(50);not null;index" json:"resource_type"`
	ResourceID   string     `gorm:"type:varchar(100);not null" json:"resource_id"`
	Metadata     JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationships
	Actor *User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// JSON type for GORM JSONB support
type JSON map[string]interface{}

// Value returns json value, implement driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	result := map[string]interface{}{}
	err := json.Unmarshal(bytes, &result)
	*j = JSON(result)
	return err
}

// Common audit actions
const (
	AuditActionUserLogin            = "user.login"
	AuditActionUserLogout           = "user.logout"
	AuditActionUserRegister         = "user.register"
	AuditActionAppointmentCreate    = "appointment.create"
	AuditActionAppointmentConfirm   = "appointment.confirm"
	AuditActionAppointmentReject    = "appointment.reject"
	AuditActionAppointmentCancel    = "appointment.cancel"
	AuditActionReschedulePropose    = "reschedule.propose"
	AuditActionRescheduleApprove    = "reschedule.approve"
	AuditActionRescheduleReject     = "reschedule.reject"
	AuditActionDayReschedule        = "schedule.day_reschedule"
	AuditActionWeeklyScheduleUpsert = "schedule.weekly_upsert"
	AuditActionProfileUpdate        = "profile.update"
)

// Resource type names used in audit entries
const (
	ResourceAppointment    = "appointment_request"
	ResourceReschedule     = "reschedule_request"
	ResourceWeeklySchedule = "provider_weekly_schedule"
	ResourceEncounter      = "clinical_encounter"
	ResourceUser           = "user"
)
