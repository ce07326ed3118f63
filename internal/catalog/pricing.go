package catalog

import (
	"math"
	"time"
)

// DepositRate is the fraction of the stay total collected up front.
const DepositRate = 0.3

// Nights returns the length of a stay in nights, the ceiling of the absolute
// day difference. The absolute value means a reversed date range yields a
// positive night count rather than an error.
func Nights(checkIn, checkOut time.Time) int {
	diff := checkOut.Sub(checkIn)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(diff.Hours() / 24))
}

// StayTotal derives the full stay price from the catalog rate for the room.
// Unknown room numbers price at 0; callers that need a hard failure check
// Lookup themselves.
func (c *Catalog) StayTotal(roomNumber string, checkIn, checkOut time.Time) float64 {
	rt, ok := c.Lookup(roomNumber)
	if !ok {
		return 0
	}
	return rt.PricePerNight * float64(Nights(checkIn, checkOut))
}

// Deposit returns the up-front deposit for a stay total, rounded half-up to
// the nearest whole currency unit.
func Deposit(totalAmount float64) float64 {
	return math.Round(totalAmount * DepositRate)
}
