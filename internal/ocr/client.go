// Package ocr extracts structured data from receipt and ID-card images via a
// vision-capable model API. The core consumes extraction results as
// already-validated data; any failure here is surfaced to the operator once,
// never retried automatically.
package ocr

import (
	"context"
	"time"

	"github.com/patcharin/innflow/internal/model"
)

// Intent hints what kind of document the operator scanned.
type Intent string

// Scan intents.
const (
	IntentIncome  Intent = "income"
	IntentExpense Intent = "expense"
	IntentGeneral Intent = "general"
)

// ReceiptResult is the structured extraction from a receipt or payment slip.
type ReceiptResult struct {
	Date        time.Time
	Category    string
	Description string
	Type        model.TransactionType
	Amount      float64
	Confidence  float64
}

// Extractor defines the interface for document extraction providers.
type Extractor interface {
	ExtractReceipt(ctx context.Context, imageJPEG []byte, intent Intent) (ReceiptResult, error)
	ExtractIDCard(ctx context.Context, imageJPEG []byte) (model.GuestData, error)
}

// Config holds provider configuration.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string // override for tests
	Temperature float64
	MaxTokens   int
}
