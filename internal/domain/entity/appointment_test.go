package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionTo(t *testing.T) {
	all := []AppointmentStatus{
		AppointmentStatusPending,
		AppointmentStatusConfirmed,
		AppointmentStatusRescheduled,
		AppointmentStatusCancelled,
		AppointmentStatusRejected,
	}

	allowed := map[AppointmentStatus]map[AppointmentStatus]bool{
		AppointmentStatusPending: {
			AppointmentStatusConfirmed: true,
			AppointmentStatusRejected:  true,
			AppointmentStatusCancelled: true,
		},
		AppointmentStatusConfirmed: {
			AppointmentStatusRescheduled: true,
			AppointmentStatusCancelled:   true,
		},
		AppointmentStatusRescheduled: {
			AppointmentStatusCancelled: true,
		},
		AppointmentStatusCancelled: {},
		AppointmentStatusRejected:  {},
	}

	for _, from := range all {
		for _, to := range all {
			appointment := &AppointmentRequest{Status: from}
			assert.Equal(t, allowed[from][to], appointment.CanTransitionTo(to),
				"%s -> %s", from, to)
		}
	}
}

func TestStatusPredicates(t *testing.T) {
	tests := []struct {
		status   AppointmentStatus
		active   bool
		terminal bool
	}{
		{AppointmentStatusPending, true, false},
		{AppointmentStatusConfirmed, true, false},
		{AppointmentStatusRescheduled, false, false},
		{AppointmentStatusCancelled, false, true},
		{AppointmentStatusRejected, false, true},
	}
	for _, tt := range tests {
		appointment := &AppointmentRequest{Status: tt.status}
		assert.Equal(t, tt.active, appointment.IsActive(), "IsActive for %s", tt.status)
		assert.Equal(t, tt.terminal, appointment.IsTerminal(), "IsTerminal for %s", tt.status)
	}
}

func TestInstant(t *testing.T) {
	appointment := &AppointmentRequest{
		RequestedDate: time.Date(2025, time.March, 4, 0, 0, 0, 0, time.UTC),
		RequestedTime: "10:30",
	}
	instant, err := appointment.Instant()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.March, 4, 10, 30, 0, 0, time.UTC), instant)
}
