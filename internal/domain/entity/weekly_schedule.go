package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DayOfWeek follows time.Weekday numbering (0 = Sunday ... 6 = Saturday).
type DayOfWeek int

const (
	Sunday DayOfWeek = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var dayNames = map[string]DayOfWeek{
	"sunday":    Sunday,
	"monday":    Monday,
	"tuesday":   Tuesday,
	"wednesday": Wednesday,
	"thursday":  Thursday,
	"friday":    Friday,
	"saturday":  Saturday,
}

// ParseDayOfWeek resolves a day name such as "monday" (case-insensitive).
func ParseDayOfWeek(name string) (DayOfWeek, bool) {
	day, ok := dayNames[strings.ToLower(strings.TrimSpace(name))]
	return day, ok
}

func (d DayOfWeek) String() string {
	return strings.ToLower(time.Weekday(d).String())
}

// ProviderWeeklySchedule is one recurring availability window per
// (provider, day of week). Times are HH:MM strings local to the provider;
// they carry no date component.
type ProviderWeeklySchedule struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	ProviderID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_provider_day" json:"provider_id"`
	DayOfWeek   DayOfWeek `gorm:"not null;uniqueIndex:idx_provider_day" json:"day_of_week"`
	StartTime   string    `gorm:"type:varchar(5);not null" json:"start_time"` // Format "HH:MM" 24h
	EndTime     string    `gorm:"type:varchar(5);not null" json:"end_time"`   // Format "HH:MM" 24h
	IsAvailable bool      `gorm:"not null;default:true" json:"is_available"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Provider ProviderProfile `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
}

func (ProviderWeeklySchedule) TableName() string {
	return "provider_weekly_schedules"
}

// ClosedDay is the sentinel returned when a provider has no schedule row for
// a day. It distinguishes "no data" from an explicitly disabled day without
// resorting to nil checks at every call site.
func ClosedDay(providerID uuid.UUID, day DayOfWeek) *ProviderWeeklySchedule {
	return &ProviderWeeklySchedule{
		ProviderID:  providerID,
		DayOfWeek:   day,
		IsAvailable: false,
	}
}

// WindowOn reprojects the stored start/end times onto the given calendar date
// and reports whether the instant falls inside the closed interval. The date
// components stored with StartTime/EndTime are meaningless; only the
// time-of-day matters.
func (s *ProviderWeeklySchedule) WindowOn(date time.Time, instant time.Time) bool {
	start, err := CombineDateTime(date, s.StartTime)
	if err != nil {
		return false
	}
	end, err := CombineDateTime(date, s.EndTime)
	if err != nil {
		return false
	}
	return !instant.Before(start) && !instant.After(end)
}

// CombineDateTime projects an HH:MM clock time onto a calendar date.
func CombineDateTime(date time.Time, hhmm string) (time.Time, error) {
	parsed, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), parsed.Hour(), parsed.Minute(), 0, 0, date.Location()), nil
}
