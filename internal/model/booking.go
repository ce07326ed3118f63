// Package model defines the core domain types shared across the application.
package model

import (
	"strings"
	"time"
)

// BookingStatus is the lifecycle state of a room reservation.
type BookingStatus string

// Booking lifecycle states. A booking normally moves
// pending → confirmed → checked_in → checked_out; the locked state is a
// temporary hold created by the quick-book path and is cleared either by
// check-in or by the expiry sweep.
const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusLocked     BookingStatus = "locked"
	StatusCheckedIn  BookingStatus = "checked_in"
	StatusCheckedOut BookingStatus = "checked_out"
)

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusLocked, StatusCheckedIn, StatusCheckedOut:
		return true
	}
	return false
}

// Booking represents one room reservation.
type Booking struct {
	CheckIn            time.Time
	CheckOut           time.Time
	LockedUntil        *time.Time // set if and only if Status == StatusLocked
	GuestDetails       *GuestData
	ID                 string
	GuestName          string
	RoomNumber         string
	OTAChannel         string
	ConfirmationNumber string
	Status             BookingStatus
	TotalAmount        float64
	PricePerNight      float64
	DepositAmount      float64
	Nights             int
}

// IsActive reports whether the booking still holds its room: confirmed,
// pending, and locked bookings count; checked-in and checked-out do not.
func (b *Booking) IsActive() bool {
	switch b.Status {
	case StatusConfirmed, StatusPending, StatusLocked:
		return true
	}
	return false
}

// LockExpired reports whether the booking is a lock whose window has passed.
func (b *Booking) LockExpired(now time.Time) bool {
	return b.Status == StatusLocked && b.LockedUntil != nil && b.LockedUntil.Before(now)
}

// LockConsistent verifies the lock invariant: LockedUntil is present exactly
// when the booking is locked. A violation indicates internal corruption.
func (b *Booking) LockConsistent() bool {
	if b.Status == StatusLocked {
		return b.LockedUntil != nil
	}
	return b.LockedUntil == nil
}

// ParseDate parses a calendar date in YYYY-MM-DD form. Booking dates carry no
// time component; everything is normalized to midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(s))
}

// FormatDate renders a calendar date in YYYY-MM-DD form.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
