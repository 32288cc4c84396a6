package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type WeeklyScheduleEntryRequest struct {
	Day         string `json:"day" validate:"required"`        // e.g. "monday"
	StartTime   string `json:"start_time" validate:"required"` // Format: HH:MM
	EndTime     string `json:"end_time" validate:"required"`   // Format: HH:MM
	IsAvailable *bool  `json:"is_available" validate:"required"`
}

type UpsertWeeklyScheduleRequest struct {
	Days []WeeklyScheduleEntryRequest `json:"days" validate:"required,min=1,dive"`
}

// Response DTOs

type WeeklyScheduleResponse struct {
	Day         string    `json:"day"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	IsAvailable bool      `json:"is_available"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type WeeklyScheduleListResponse struct {
	ProviderID uuid.UUID                `json:"provider_id"`
	Days       []WeeklyScheduleResponse `json:"days"`
}

type SlotAvailabilityResponse struct {
	ProviderID uuid.UUID `json:"provider_id"`
	Date       string    `json:"date"`
	Time       string    `json:"time,omitempty"`
	Available  bool      `json:"available"`
}

// DayConflictResponse reports, per day, the bookings that block a
// weekly-schedule withdrawal.
type DayConflictResponse struct {
	Day            string      `json:"day"`
	Count          int         `json:"count"`
	AppointmentIDs []uuid.UUID `json:"appointment_ids"`
}
