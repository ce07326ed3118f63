package model

import (
	"strings"

	"github.com/google/uuid"
)

// ID prefixes, matching the reference style used on printed documents: LOCK
// for quick-book holds, PMS for regular bookings, TXN for ledger entries.
const (
	PrefixLock        = "LOCK"
	PrefixBooking     = "PMS"
	PrefixTransaction = "TXN"
)

// NewID generates an opaque prefixed identifier. The random portion is long
// enough that substring correlation against transaction descriptions will not
// collide in practice.
func NewID(prefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + strings.ToUpper(raw[:8])
}
