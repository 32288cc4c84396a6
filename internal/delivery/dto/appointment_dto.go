package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	ProviderID    uuid.UUID `json:"provider_id" validate:"required"`
	RequestedDate string    `json:"requested_date" validate:"required"` // Format: YYYY-MM-DD
	RequestedTime string    `json:"requested_time" validate:"required"` // Format: HH:MM
	Reason        string    `json:"reason" validate:"required"`
	Priority      string    `json:"priority" validate:"omitempty,oneof=normal high urgent"`
	Notes         string    `json:"notes" validate:"omitempty"`
}

type DecideAppointmentRequest struct {
	Decision string `json:"decision" validate:"required,oneof=confirmed rejected"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// Response DTOs

type EncounterResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

type AppointmentResponse struct {
	ID            uuid.UUID          `json:"id"`
	PatientID     uuid.UUID          `json:"patient_id"`
	ProviderID    uuid.UUID          `json:"provider_id"`
	RequestedDate string             `json:"requested_date"`
	RequestedTime string             `json:"requested_time"`
	Reason        string             `json:"reason"`
	Priority      string             `json:"priority"`
	Status        string             `json:"status"`
	Notes         string             `json:"notes,omitempty"`
	Encounter     *EncounterResponse `json:"encounter,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
