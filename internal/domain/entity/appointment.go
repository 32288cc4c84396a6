package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentStatus represents the lifecycle state of an appointment request
type AppointmentStatus string

const (
	AppointmentStatusPending     AppointmentStatus = "pending"
	AppointmentStatusConfirmed   AppointmentStatus = "confirmed"
	AppointmentStatusRescheduled AppointmentStatus = "rescheduled"
	AppointmentStatusCancelled   AppointmentStatus = "cancelled"
	AppointmentStatusRejected    AppointmentStatus = "rejected"
)

// AppointmentPriority constants
const (
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// AppointmentRequest represents one booking attempt against a provider's
// calendar. RequestedDate is a calendar date; RequestedTime is an HH:MM
// string local to the provider. No timezone conversion happens anywhere.
type AppointmentRequest struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	ProviderID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"provider_id"`
	RequestedDate time.Time         `gorm:"type:date;not null;index" json:"requested_date"`
	RequestedTime string            `gorm:"type:varchar(5);not null" json:"requested_time"` // Format "HH:MM" 24h
	Reason        string            `gorm:"type:text;not null" json:"reason"`
	Priority      string            `gorm:"type:varchar(10);not null;default:'normal'" json:"priority"`
	Status        AppointmentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Notes         string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient     PatientProfile     `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Provider    ProviderProfile    `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
	Reschedules []RescheduleRequest `gorm:"foreignKey:AppointmentID" json:"reschedules,omitempty"`
	Encounter   *ClinicalEncounter `gorm:"foreignKey:AppointmentID" json:"encounter,omitempty"`
}

func (AppointmentRequest) TableName() string {
	return "appointment_requests"
}

func (a *AppointmentRequest) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = AppointmentStatusPending
	}
	if a.Priority == "" {
		a.Priority = PriorityNormal
	}
	return nil
}

// IsPending checks if the request is awaiting a provider decision
func (a *AppointmentRequest) IsPending() bool {
	return a.Status == AppointmentStatusPending
}

// IsConfirmed checks if the request has been confirmed
func (a *AppointmentRequest) IsConfirmed() bool {
	return a.Status == AppointmentStatusConfirmed
}

// IsTerminal reports whether no further transition is allowed
func (a *AppointmentRequest) IsTerminal() bool {
	return a.Status == AppointmentStatusCancelled || a.Status == AppointmentStatusRejected
}

// IsActive reports whether the request still occupies its slot for
// conflict detection (pending and confirmed only).
func (a *AppointmentRequest) IsActive() bool {
	return a.Status == AppointmentStatusPending || a.Status == AppointmentStatusConfirmed
}

// CanTransitionTo validates a status transition.
// pending -> confirmed | rejected | cancelled
// confirmed -> rescheduled | cancelled
// rescheduled -> cancelled
// cancelled, rejected -> (none)
func (a *AppointmentRequest) CanTransitionTo(next AppointmentStatus) bool {
	switch a.Status {
	case AppointmentStatusPending:
		return next == AppointmentStatusConfirmed || next == AppointmentStatusRejected || next == AppointmentStatusCancelled
	case AppointmentStatusConfirmed:
		return next == AppointmentStatusRescheduled || next == AppointmentStatusCancelled
	case AppointmentStatusRescheduled:
		return next == AppointmentStatusCancelled
	default:
		return false
	}
}

// Instant combines RequestedDate and RequestedTime into a single comparable
// point in time on the requested calendar day.
func (a *AppointmentRequest) Instant() (time.Time, error) {
	return CombineDateTime(a.RequestedDate, a.RequestedTime)
}
