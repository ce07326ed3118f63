// Package service defines the boundary contracts the core consumes.
package service

import (
	"context"
	"time"

	"github.com/patcharin/innflow/internal/model"
)

// Settings holds the operator-editable application settings persisted with
// the data snapshot.
type Settings struct {
	PropertyName    string
	PropertyAddress string
	TaxID           string
	Phone           string
	AIModel         string
	AutoReconcile   bool
}

// DefaultSettings returns the settings used before the operator changes
// anything.
func DefaultSettings() Settings {
	return Settings{
		PropertyName:    "Smart Resort & Spa",
		PropertyAddress: "123 หมู่ 1 ต.โป่ง อ.บางละมุง จ.ชลบุรี 20150",
		TaxID:           "0-2055-5700x-xx-x",
		Phone:           "081-234-5678",
		AIModel:         "gemini-3-flash-preview",
		AutoReconcile:   false,
	}
}

// Snapshot is the full persisted application state.
type Snapshot struct {
	Settings     Settings
	Transactions []model.Transaction
	Bookings     []model.Booking
}

// Persister stores and recalls the full application snapshot. The core does
// not care whether the backing store is local or remote; Load on an empty
// store returns an empty snapshot, not an error.
type Persister interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snapshot *Snapshot) error
	Close() error
}

// ReportWriter renders a monthly ledger report to an external destination.
type ReportWriter interface {
	Write(ctx context.Context, transactions []model.Transaction, summary *ReportSummary) error
}

// ReportSummary contains aggregate information for an exported report.
type ReportSummary struct {
	ByCategory   map[string]CategorySummary
	DateRange    DateRange
	TotalIncome  float64
	TotalExpense float64
	NetProfit    float64
}

// DateRange represents a time period with start and end dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// CategorySummary contains aggregated statistics for a category.
type CategorySummary struct {
	Count  int
	Amount float64
}

// RetryOptions configures retry behavior for collaborator operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
