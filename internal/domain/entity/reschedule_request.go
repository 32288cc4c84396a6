package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RescheduleStatus represents the state of a reschedule proposal
type RescheduleStatus string

const (
	RescheduleStatusPending  RescheduleStatus = "pending"
	RescheduleStatusApproved RescheduleStatus = "approved"
	RescheduleStatusRejected RescheduleStatus = "rejected"
)

// ProposedBy constants
const (
	ProposedByPatient  = "patient"
	ProposedByProvider = "provider"
)

// RescheduleRequest is one proposal to move a confirmed appointment.
// CurrentDate/CurrentTime snapshot the parent at proposal time; approving the
// proposal is the only path that mutates the parent's date and time.
type RescheduleRequest struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	AppointmentID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"appointment_id"`
	RequestedBy     uuid.UUID        `gorm:"type:uuid;not null" json:"requested_by"`
	RequestedByRole string           `gorm:"type:varchar(20);not null" json:"requested_by_role"`
	CurrentDate     time.Time        `gorm:"type:date;not null" json:"current_date"`
	CurrentTime     string           `gorm:"type:varchar(5);not null" json:"current_time"`
	NewDate         time.Time        `gorm:"type:date;not null" json:"new_date"`
	NewTime         string           `gorm:"type:varchar(5);not null" json:"new_time"`
	Reason          string           `gorm:"type:text;not null" json:"reason"`
	Notes           string           `gorm:"type:text" json:"notes,omitempty"`
	ProposedBy      string           `gorm:"type:varchar(10);not null" json:"proposed_by"`
	Status          RescheduleStatus `gorm:"type:varchar(10);not null;default:'pending';index" json:"status"`
	ResolvedAt      *time.Time       `json:"resolved_at,omitempty"`
	CreatedAt       time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Appointment AppointmentRequest `gorm:"foreignKey:AppointmentID;constraint:OnDelete:CASCADE" json:"appointment,omitempty"`
}

func (RescheduleRequest) TableName() string {
	return "reschedule_requests"
}

func (r *RescheduleRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = RescheduleStatusPending
	}
	return nil
}

// IsPending checks if the proposal is still open
func (r *RescheduleRequest) IsPending() bool {
	return r.Status == RescheduleStatusPending
}
