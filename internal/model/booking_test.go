package model

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBooking_IsActive(t *testing.T) {
	tests := []struct {
		name   string
		status BookingStatus
		want   bool
	}{
		{name: "pending is active", status: StatusPending, want: true},
		{name: "confirmed is active", status: StatusConfirmed, want: true},
		{name: "locked is active", status: StatusLocked, want: true},
		{name: "checked_in is not active", status: StatusCheckedIn, want: false},
		{name: "checked_out is not active", status: StatusCheckedOut, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Booking{ID: "PMS1", Status: tt.status}
			assert.Equal(t, tt.want, b.IsActive())
		})
	}
}

func TestBooking_LockExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
	past := now.Add(-time.Second)
	future := now.Add(time.Hour)

	tests := []struct {
		lockedUntil *time.Time
		name        string
		status      BookingStatus
		want        bool
	}{
		{name: "lock past expiry", status: StatusLocked, lockedUntil: &past, want: true},
		{name: "lock still live", status: StatusLocked, lockedUntil: &future, want: false},
		{name: "lock at exact instant", status: StatusLocked, lockedUntil: &now, want: false},
		{name: "confirmed never expires", status: StatusConfirmed, want: false},
		{name: "locked without timestamp", status: StatusLocked, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Booking{Status: tt.status, LockedUntil: tt.lockedUntil}
			assert.Equal(t, tt.want, b.LockExpired(now))
		})
	}
}

func TestBooking_LockConsistent(t *testing.T) {
	expiry := time.Now().Add(time.Hour)

	locked := Booking{Status: StatusLocked, LockedUntil: &expiry}
	assert.True(t, locked.LockConsistent())

	bare := Booking{Status: StatusLocked}
	assert.False(t, bare.LockConsistent())

	confirmed := Booking{Status: StatusConfirmed}
	assert.True(t, confirmed.LockConsistent())

	stale := Booking{Status: StatusConfirmed, LockedUntil: &expiry}
	assert.False(t, stale.LockConsistent())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-01-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), d)
	assert.Equal(t, "2025-01-10", FormatDate(d))

	_, err = ParseDate("10/01/2025")
	assert.Error(t, err)
}

func TestNewID(t *testing.T) {
	id := NewID(PrefixLock)
	assert.True(t, strings.HasPrefix(id, "LOCK"))
	assert.Len(t, id, 12)

	other := NewID(PrefixLock)
	assert.NotEqual(t, id, other, "ids must be unique")
}
