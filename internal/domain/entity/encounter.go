package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClinicalEncounter is the visit record materialized exactly once when an
// appointment request is confirmed. The unique index on AppointmentID is the
// hard guarantee that a request never owns two encounters.
type ClinicalEncounter struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AppointmentID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"appointment_id"`
	Code          string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Appointment AppointmentRequest `gorm:"foreignKey:AppointmentID" json:"appointment,omitempty"`
}

func (ClinicalEncounter) TableName() string {
	return "clinical_encounters"
}

func (e *ClinicalEncounter) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
