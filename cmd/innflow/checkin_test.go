package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patcharin/innflow/internal/desk"
	"github.com/patcharin/innflow/internal/model"
	"github.com/patcharin/innflow/internal/ocr"
	"github.com/patcharin/innflow/internal/report"
)

func useTempDB(t *testing.T) {
	t.Helper()
	viper.Set("db.path", filepath.Join(t.TempDir(), "innflow.db"))
	t.Cleanup(func() { viper.Set("db.path", "") })
}

// runCommand executes a command and returns what it printed.
func runCommand(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	cmd.SetArgs(args)
	execErr := cmd.ExecuteContext(context.Background())

	os.Stdout = old
	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, execErr)
	return string(out)
}

func TestCheckInRecordsRoomRevenue(t *testing.T) {
	useTempDB(t)

	runCommand(t, checkinCmd(),
		"--guest", "สมชาย ใจดี",
		"--room", "101",
		"--checkin", "2025-04-10",
		"--checkout", "2025-04-12",
		"--amount", "3000")

	a, err := loadApp(context.Background())
	require.NoError(t, err)
	defer func() { _ = a.Close() }()

	txns := a.ledger.List()
	require.Len(t, txns, 1, "check-in must reach the ledger")
	txn := txns[0]
	assert.Equal(t, model.TypeIncome, txn.Type)
	assert.Equal(t, model.CategoryRoomRevenue, txn.Category)
	assert.Equal(t, 3000.0, txn.Amount)
	assert.True(t, txn.IsReconciled, "desk revenue is recorded already reconciled")
	assert.Equal(t, "101", txn.PMSReferenceID)
	assert.Equal(t, model.CustomerWalkIn, txn.CustomerType)
	require.NotNil(t, txn.GuestData)
	assert.Equal(t, "สมชาย ใจดี", txn.GuestData.FirstNameTH)

	bookings := a.desk.List()
	require.Len(t, bookings, 1)
	assert.Contains(t, txn.Description, bookings[0].ID)
	assert.True(t, report.IsPaid(txns, bookings[0].ID))
}

func TestCheckInRevenueDescription(t *testing.T) {
	booking := &model.Booking{ID: "PMSA1B2C3D4"}
	txn := checkInRevenue(booking, desk.CheckInRequest{
		RoomNumber:   "201",
		CheckIn:      time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:     time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC),
		Amount:       5000,
		CustomerType: model.CustomerWalkIn,
	})

	assert.Contains(t, txn.Description, "PMSA1B2C3D4")
	assert.Contains(t, txn.Description, "2025-05-01")
	assert.Contains(t, txn.Description, "2025-05-03")
	assert.Contains(t, txn.Description, string(model.CustomerWalkIn))
	assert.Equal(t, "201", txn.PMSReferenceID)
}

func TestBookingsListShowsPaidColumn(t *testing.T) {
	useTempDB(t)

	runCommand(t, checkinCmd(),
		"--guest", "Anna",
		"--room", "201",
		"--checkin", "2025-05-01",
		"--checkout", "2025-05-03",
		"--amount", "5000")

	out := runCommand(t, bookingsCmd())
	assert.Contains(t, out, "PAID")
	assert.Contains(t, out, "201")
	assert.Contains(t, out, "✓")
}

func TestDashboardShowsCategoryBreakdown(t *testing.T) {
	useTempDB(t)

	runCommand(t, checkinCmd(),
		"--guest", "Ben",
		"--room", "301",
		"--checkin", "2025-05-01",
		"--checkout", "2025-05-02",
		"--amount", "4000")

	out := runCommand(t, dashboardCmd())
	assert.Contains(t, out, "Income by category")
	assert.Contains(t, out, model.CategoryRoomRevenue)
	assert.NotContains(t, out, "Expenses by category")
}

func TestReceiptTransactionKeepsEvidencePath(t *testing.T) {
	result := ocr.ReceiptResult{
		Date:        time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC),
		Type:        model.TypeExpense,
		Amount:      350,
		Category:    model.CategoryUtilities,
		Description: "ค่าไฟฟ้า",
	}

	txn := receiptTransaction(result, "slips/feb-electric.jpg")
	assert.Equal(t, "slips/feb-electric.jpg", txn.ImageURL)
	assert.Equal(t, 350.0, txn.Amount)
	assert.Equal(t, model.TypeExpense, txn.Type)
}
