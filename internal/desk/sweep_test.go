package desk

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patcharin/innflow/internal/model"
)

func lockedBooking(id, room string, until time.Time) model.Booking {
	return model.Booking{
		ID:          id,
		GuestName:   "Somchai",
		RoomNumber:  room,
		CheckIn:     date(2025, 6, 1),
		CheckOut:    date(2025, 6, 3),
		TotalAmount: 3000,
		Status:      model.StatusLocked,
		LockedUntil: &until,
	}
}

func TestStore_Sweep_RemovesExpiredLocks(t *testing.T) {
	now := time.Date(2025, 6, 1, 16, 1, 0, 0, time.UTC)
	expired := lockedBooking("LOCK1", "101", now.Add(-time.Second))
	live := lockedBooking("LOCK2", "102", now.Add(time.Hour))
	confirmed := model.Booking{ID: "PMS1", GuestName: "Jane", RoomNumber: "103", Status: model.StatusConfirmed}

	s := testStore(t, now, []model.Booking{expired, live, confirmed})

	removed := s.Sweep(now)
	require.Len(t, removed, 1)
	assert.Equal(t, "LOCK1", removed[0].ID)

	remaining := s.List()
	require.Len(t, remaining, 2)
	assert.Equal(t, "LOCK2", remaining[0].ID)
	assert.Equal(t, model.StatusLocked, remaining[0].Status, "live locks are untouched")
	assert.Equal(t, "PMS1", remaining[1].ID)
}

func TestStore_Sweep_Idempotent(t *testing.T) {
	now := time.Date(2025, 6, 1, 16, 1, 0, 0, time.UTC)
	s := testStore(t, now, []model.Booking{lockedBooking("LOCK1", "101", now.Add(-time.Minute))})

	require.Len(t, s.Sweep(now), 1)
	assert.Nil(t, s.Sweep(now), "second pass finds nothing")
	assert.Empty(t, s.List())
}

func TestStore_Sweep_NotifiesOnlyWhenChanged(t *testing.T) {
	now := time.Date(2025, 6, 1, 16, 0, 0, 0, time.UTC)
	s := testStore(t, now, []model.Booking{lockedBooking("LOCK1", "101", now.Add(time.Hour))})

	var notified int
	s.Subscribe(func() { notified++ })

	s.Sweep(now)
	assert.Equal(t, 0, notified, "no expiry means no notification")

	s.Sweep(now.Add(2 * time.Hour))
	assert.Equal(t, 1, notified)
}

func TestStore_LockLifecycle_EndToEnd(t *testing.T) {
	// Quick-book at 15:00; still locked at 15:59; gone after a sweep at 16:01.
	booked := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
	s := testStore(t, booked, nil)

	b, err := s.QuickLock(QuickLockRequest{
		GuestName:   "Somchai",
		RoomNumber:  "101",
		CheckIn:     date(2025, 6, 1),
		CheckOut:    date(2025, 6, 2),
		TotalAmount: 1500,
	})
	require.NoError(t, err)

	s.Sweep(booked.Add(59 * time.Minute))
	got, err := s.Get(b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusLocked, got.Status)

	s.Sweep(booked.Add(61 * time.Minute))
	_, err = s.Get(b.ID)
	assert.Error(t, err, "expired lock is removed entirely, not demoted")
	assert.Empty(t, s.List())
}

func TestStore_Sweeper_StartStop(t *testing.T) {
	now := time.Date(2025, 6, 1, 16, 1, 0, 0, time.UTC)
	s := NewStore(Config{
		Now:           func() time.Time { return now },
		SweepInterval: 5 * time.Millisecond,
	}, []model.Booking{lockedBooking("LOCK1", "101", now.Add(-time.Second))})

	swept := make(chan struct{})
	s.Subscribe(func() { close(swept) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.StartSweeper(ctx)
	select {
	case <-swept:
	case <-time.After(time.Second):
		t.Fatal("sweeper never ran")
	}

	s.StopSweeper()
	s.StopSweeper() // stopping twice is safe

	// After Stop, no timer-driven mutation: a fresh expired lock stays put.
	s.mu.Lock()
	until := now.Add(-time.Minute)
	s.bookings = append(s.bookings, lockedBooking("LOCK2", "102", until))
	s.mu.Unlock()

	time.Sleep(30 * time.Millisecond)
	assert.Len(t, s.List(), 1, "stopped sweeper must not mutate the store")
}
