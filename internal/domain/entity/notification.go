package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationKind identifies the message template
type NotificationKind string

const (
	NotifyAppointmentCreated    NotificationKind = "appointment.created"
	NotifyAppointmentConfirmed  NotificationKind = "appointment.confirmed"
	NotifyAppointmentRejected   NotificationKind = "appointment.rejected"
	NotifyAppointmentCancelled  NotificationKind = "appointment.cancelled"
	NotifyRescheduleProposed    NotificationKind = "reschedule.proposed"
	NotifyRescheduleResolved    NotificationKind = "reschedule.resolved"
	NotifyDayWithdrawal         NotificationKind = "schedule.day_withdrawal"
)

// Notification is the persisted outbox row behind the best-effort notifier.
// Delivery (email) happens after the row is written and never fails the
// triggering operation.
type Notification struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	Kind      NotificationKind `gorm:"type:varchar(50);not null;index" json:"kind"`
	Payload   JSON             `gorm:"type:jsonb" json:"payload,omitempty"`
	SentAt    *time.Time       `json:"sent_at,omitempty"`
	CreatedAt time.Time        `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
