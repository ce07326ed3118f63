package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNights(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     int
	}{
		{name: "two night stay", checkIn: date(2025, 1, 10), checkOut: date(2025, 1, 12), want: 2},
		{name: "single night", checkIn: date(2025, 1, 10), checkOut: date(2025, 1, 11), want: 1},
		{name: "same day", checkIn: date(2025, 1, 10), checkOut: date(2025, 1, 10), want: 0},
		{name: "reversed range counts positive", checkIn: date(2025, 1, 12), checkOut: date(2025, 1, 10), want: 2},
		{name: "partial day rounds up", checkIn: date(2025, 1, 10), checkOut: time.Date(2025, 1, 11, 14, 0, 0, 0, time.UTC), want: 2},
		{name: "across month boundary", checkIn: date(2025, 1, 30), checkOut: date(2025, 2, 2), want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Nights(tt.checkIn, tt.checkOut))
		})
	}
}

func TestCatalog_Lookup(t *testing.T) {
	c := Default()

	rt, ok := c.Lookup("101")
	require.True(t, ok)
	assert.Equal(t, "Standard", rt.Name)
	assert.Equal(t, 1500.0, rt.PricePerNight)
	assert.Equal(t, 2, rt.Capacity)

	rt, ok = c.Lookup("V2")
	require.True(t, ok)
	assert.Equal(t, "Villa", rt.Name)
	assert.Equal(t, 6000.0, rt.PricePerNight)

	_, ok = c.Lookup("999")
	assert.False(t, ok, "unmatched room numbers must not fall back to a default rate")
}

func TestCatalog_StayTotal(t *testing.T) {
	c := Default()

	got := c.StayTotal("101", date(2025, 1, 10), date(2025, 1, 12))
	assert.Equal(t, 3000.0, got)

	got = c.StayTotal("301", date(2025, 1, 10), date(2025, 1, 13))
	assert.Equal(t, 12000.0, got)

	got = c.StayTotal("999", date(2025, 1, 10), date(2025, 1, 12))
	assert.Equal(t, 0.0, got, "unknown room prices at zero, not an error")
}

func TestDeposit(t *testing.T) {
	tests := []struct {
		name  string
		total float64
		want  float64
	}{
		{name: "exact thirds", total: 3000, want: 900},
		{name: "rounds half up", total: 1005, want: 302}, // 301.5 → 302
		{name: "rounds down below half", total: 1001, want: 300}, // 300.3 → 300
		{name: "zero total", total: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Deposit(tt.total))
		})
	}
}
