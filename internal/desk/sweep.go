package desk

import (
	"context"
	"log/slog"
	"time"

	"github.com/patcharin/innflow/internal/model"
)

// Sweep removes every booking whose lock has expired. An expired lock goes
// straight from locked to removed; there is no intermediate demotion to
// pending. Sweep is idempotent and never touches live locks or bookings in
// other states.
func (s *Store) Sweep(now time.Time) []model.Booking {
	s.mu.Lock()
	var removed []model.Booking
	kept := s.bookings[:0]
	for _, b := range s.bookings {
		if !b.LockConsistent() {
			// Unreachable given the transition rules; worth a loud log, not
			// a recovery path.
			slog.Error("lock invariant violated", "booking", b.ID, "status", b.Status)
		}
		if b.LockExpired(now) {
			removed = append(removed, b)
			continue
		}
		kept = append(kept, b)
	}
	s.bookings = kept
	s.mu.Unlock()

	if len(removed) == 0 {
		return nil
	}

	for _, b := range removed {
		slog.Info("lock expired, booking released", "booking", b.ID, "room", b.RoomNumber)
	}
	s.notify()
	return removed
}

// StartSweeper runs the expiry sweep on the configured cadence until Stop is
// called or the context is canceled. Starting an already-running sweeper is
// a no-op.
func (s *Store) StartSweeper(ctx context.Context) {
	s.mu.Lock()
	if s.sweeping {
		s.mu.Unlock()
		return
	}
	s.sweeping = true
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(s.cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-ticker.C:
				s.Sweep(s.now())
			}
		}
	}()
}

// StopSweeper tears the sweep timer down. Safe to call more than once; after
// it returns no further timer-driven mutation occurs.
func (s *Store) StopSweeper() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.sweeping {
		return
	}
	s.sweeping = false
	close(s.done)
}
