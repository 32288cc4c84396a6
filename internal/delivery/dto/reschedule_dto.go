package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type ProposeRescheduleRequest struct {
	NewDate string `json:"new_date" validate:"required"` // Format: YYYY-MM-DD
	NewTime string `json:"new_time" validate:"required"` // Format: HH:MM
	Reason  string `json:"reason" validate:"required"`
	Notes   string `json:"notes" validate:"omitempty"`
}

type ResolveRescheduleRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
}

// DayRescheduleRequest withdraws one weekly day. NewDate/NewTime, when
// supplied together, are applied as the blanket replacement for every
// affected booking.
type DayRescheduleRequest struct {
	Day     string `json:"day" validate:"required"`
	Reason  string `json:"reason" validate:"required"`
	NewDate string `json:"new_date" validate:"omitempty"`
	NewTime string `json:"new_time" validate:"omitempty"`
}

// Response DTOs

type RescheduleResponse struct {
	ID              uuid.UUID  `json:"id"`
	AppointmentID   uuid.UUID  `json:"appointment_id"`
	RequestedBy     uuid.UUID  `json:"requested_by"`
	RequestedByRole string     `json:"requested_by_role"`
	CurrentDate     string     `json:"current_date"`
	CurrentTime     string     `json:"current_time"`
	NewDate         string     `json:"new_date"`
	NewTime         string     `json:"new_time"`
	Reason          string     `json:"reason"`
	Notes           string     `json:"notes,omitempty"`
	ProposedBy      string     `json:"proposed_by"`
	Status          string     `json:"status"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type RescheduleListResponse struct {
	Reschedules []RescheduleResponse `json:"reschedules"`
	Total       int                  `json:"total"`
}

type DayRescheduleResponse struct {
	Day           string      `json:"day"`
	Affected      int         `json:"affected"`
	RescheduleIDs []uuid.UUID `json:"reschedule_ids"`
}
