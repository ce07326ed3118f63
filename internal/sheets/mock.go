package sheets

import (
	"context"
	"sync"

	"github.com/patcharin/innflow/internal/model"
	"github.com/patcharin/innflow/internal/service"
)

// MockWriter is a mock implementation of ReportWriter for testing.
type MockWriter struct {
	WriteFunc        func(ctx context.Context, transactions []model.Transaction, summary *service.ReportSummary) error
	LastSummary      *service.ReportSummary
	LastTransactions []model.Transaction
	WriteCallCount   int
	mu               sync.Mutex
}

// NewMockWriter creates a new mock writer.
func NewMockWriter() *MockWriter {
	return &MockWriter{}
}

// Write implements the ReportWriter interface.
func (m *MockWriter) Write(ctx context.Context, transactions []model.Transaction, summary *service.ReportSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteCallCount++
	m.LastTransactions = transactions
	m.LastSummary = summary

	if m.WriteFunc != nil {
		return m.WriteFunc(ctx, transactions, summary)
	}
	return nil
}
