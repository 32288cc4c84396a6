package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDayOfWeek(t *testing.T) {
	tests := []struct {
		input string
		want  DayOfWeek
		ok    bool
	}{
		{"monday", Monday, true},
		{"SUNDAY", Sunday, true},
		{" saturday ", Saturday, true},
		{"Wednesday", Wednesday, true},
		{"weekend", 0, false},
		{"", 0, false},
		{"mon", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseDayOfWeek(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		if tt.ok {
			assert.Equal(t, tt.want, got, "input %q", tt.input)
		}
	}
}

func TestDayOfWeekString(t *testing.T) {
	assert.Equal(t, "monday", Monday.String())
	assert.Equal(t, "sunday", Sunday.String())
}

func TestCombineDateTime(t *testing.T) {
	date := time.Date(2025, time.March, 4, 0, 0, 0, 0, time.UTC)

	combined, err := CombineDateTime(date, "09:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.March, 4, 9, 30, 0, 0, time.UTC), combined)

	_, err = CombineDateTime(date, "9:30")
	assert.Error(t, err)

	_, err = CombineDateTime(date, "25:00")
	assert.Error(t, err)
}

func TestWindowOn(t *testing.T) {
	schedule := &ProviderWeeklySchedule{
		DayOfWeek:   Tuesday,
		StartTime:   "09:00",
		EndTime:     "17:00",
		IsAvailable: true,
	}
	date := time.Date(2025, time.March, 4, 0, 0, 0, 0, time.UTC)

	at := func(hhmm string) time.Time {
		instant, err := CombineDateTime(date, hhmm)
		require.NoError(t, err)
		return instant
	}

	// Both endpoints are bookable.
	assert.True(t, schedule.WindowOn(date, at("09:00")))
	assert.True(t, schedule.WindowOn(date, at("17:00")))
	assert.True(t, schedule.WindowOn(date, at("12:15")))
	assert.False(t, schedule.WindowOn(date, at("08:59")))
	assert.False(t, schedule.WindowOn(date, at("17:01")))
}

func TestClosedDay(t *testing.T) {
	sentinel := ClosedDay(uuid.Nil, Friday)
	assert.False(t, sentinel.IsAvailable)
	assert.Equal(t, Friday, sentinel.DayOfWeek)

	date := time.Date(2025, time.March, 7, 0, 0, 0, 0, time.UTC)
	instant, err := CombineDateTime(date, "10:00")
	require.NoError(t, err)
	assert.False(t, sentinel.WindowOn(date, instant))
}
