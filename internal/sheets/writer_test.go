package sheets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patcharin/innflow/internal/model"
	"github.com/patcharin/innflow/internal/service"
)

func testSummary() *service.ReportSummary {
	start, _ := model.ParseDate("2025-04-01")
	end, _ := model.ParseDate("2025-04-30")
	return &service.ReportSummary{
		DateRange:    service.DateRange{Start: start, End: end},
		TotalIncome:  12000,
		TotalExpense: 4000,
		NetProfit:    8000,
		ByCategory: map[string]service.CategorySummary{
			model.CategoryRoomRevenue: {Count: 2, Amount: 12000},
			model.CategoryUtilities:   {Count: 1, Amount: 4000},
		},
	}
}

func testTransactions(t *testing.T) []model.Transaction {
	t.Helper()
	d1, _ := model.ParseDate("2025-04-05")
	d2, _ := model.ParseDate("2025-04-20")
	return []model.Transaction{
		{ID: "TXNAAAA1111", Date: d1, Type: model.TypeIncome, Amount: 5000,
			Category: model.CategoryRoomRevenue, Description: "ห้อง 201", IsReconciled: true},
		{ID: "TXNBBBB2222", Date: d2, Type: model.TypeExpense, Amount: 4000,
			Category: model.CategoryUtilities, Description: "ค่าไฟ"},
	}
}

func TestPrepareReportData(t *testing.T) {
	w := &Writer{config: DefaultConfig()}

	values := w.prepareReportData(testTransactions(t), testSummary())
	require.NotEmpty(t, values)

	// Title row carries the date range.
	assert.Equal(t, "Ledger Report", values[0][0])
	assert.Contains(t, values[0][1], "Apr 1, 2025")

	// Summary rows.
	assert.Equal(t, []any{"Total Income", 12000.0}, values[3])
	assert.Equal(t, []any{"Total Expense", 4000.0}, values[4])
	assert.Equal(t, []any{"Net Profit", 8000.0}, values[5])

	// Categories sorted by amount, descending.
	var catRows [][]any
	for i, row := range values {
		if len(row) > 0 && row[0] == "Category Breakdown" {
			catRows = values[i+2 : i+4]
			break
		}
	}
	require.Len(t, catRows, 2)
	assert.Equal(t, model.CategoryRoomRevenue, catRows[0][0])
	assert.Equal(t, model.CategoryUtilities, catRows[1][0])
}

func TestPrepareReportData_DetailNewestFirst(t *testing.T) {
	w := &Writer{config: DefaultConfig()}

	values := w.prepareReportData(testTransactions(t), testSummary())

	var detail [][]any
	for i, row := range values {
		if len(row) > 0 && row[0] == "Transaction Details" {
			detail = values[i+2:]
			break
		}
	}
	require.Len(t, detail, 2)
	assert.Equal(t, "2025-04-20", detail[0][0])
	assert.Equal(t, "2025-04-05", detail[1][0])
	assert.Equal(t, "✓", detail[1][6])
	assert.Equal(t, "", detail[0][6])
}

func TestMockWriter(t *testing.T) {
	mock := NewMockWriter()

	err := mock.Write(context.Background(), testTransactions(t), testSummary())
	require.NoError(t, err)
	assert.Equal(t, 1, mock.WriteCallCount)
	assert.Len(t, mock.LastTransactions, 2)
}
