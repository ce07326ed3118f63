package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateFlag(t *testing.T) {
	got, err := parseDateFlag("checkin", "2025-04-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC), got)

	_, err = parseDateFlag("checkin", "10/04/2025")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--checkin")
}

func TestMonthRange(t *testing.T) {
	start, end, err := monthRange("2025-04")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), start)
	assert.True(t, end.Before(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, end.After(time.Date(2025, 4, 30, 23, 59, 0, 0, time.UTC)))

	_, _, err = monthRange("April 2025")
	assert.Error(t, err)

	// Empty month defaults to the current month.
	start, _, err = monthRange("")
	require.NoError(t, err)
	assert.Equal(t, 1, start.Day())
}
