package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProviderProfile represents clinician-specific profile data
type ProviderProfile struct {
	UserID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"user_id"`
	LicenseNumber   string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"license_number"`
	Specialty       string          `gorm:"type:varchar(100);not null;index" json:"specialty"`
	Biography       string          `gorm:"type:text" json:"biography,omitempty"`
	ConsultationFee decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"consultation_fee"`

	// Relationships
	User            User                     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	WeeklySchedules []ProviderWeeklySchedule `gorm:"foreignKey:ProviderID" json:"weekly_schedules,omitempty"`
}

func (ProviderProfile) TableName() string {
	return "provider_profiles"
}
