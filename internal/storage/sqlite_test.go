package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patcharin/innflow/internal/model"
	"github.com/patcharin/innflow/internal/service"
)

func testStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLiteStorage_LoadEmpty(t *testing.T) {
	s := testStorage(t)

	snapshot, err := s.Load(context.Background())
	require.NoError(t, err)

	assert.Empty(t, snapshot.Transactions)
	assert.Empty(t, snapshot.Bookings)
	assert.Equal(t, service.DefaultSettings(), snapshot.Settings, "empty store falls back to defaults")
}

func TestSQLiteStorage_SaveLoadRoundTrip(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	lockedUntil := time.Date(2025, 6, 1, 16, 0, 0, 0, time.UTC)
	in := &service.Snapshot{
		Settings: service.Settings{
			PropertyName:  "Baan Rim Nam",
			TaxID:         "0-1234-56789-01-2",
			AIModel:       "gemini-3-flash-preview",
			AutoReconcile: true,
		},
		Transactions: []model.Transaction{
			{
				ID:             "TXN11111111",
				Date:           time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC),
				Type:           model.TypeIncome,
				Category:       model.CategoryRoomRevenue,
				Amount:         3000,
				Description:    "Payment for Booking LOCK22222222",
				IsReconciled:   true,
				PMSReferenceID: "101",
				CustomerType:   model.CustomerCheckIn,
				GuestData:      &model.GuestData{FirstNameTH: "สมชาย", LastNameTH: "ใจดี", IDNumber: "1234567890123"},
			},
			{
				ID:       "TXN33333333",
				Date:     time.Date(2025, 5, 21, 0, 0, 0, 0, time.UTC),
				Type:     model.TypeExpense,
				Category: model.CategoryUtilities,
				Amount:   1250.50,
			},
		},
		Bookings: []model.Booking{
			{
				ID:          "LOCK22222222",
				GuestName:   "Somchai",
				RoomNumber:  "101",
				CheckIn:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
				CheckOut:    time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
				TotalAmount: 3000,
				Nights:      2,
				Status:      model.StatusLocked,
				LockedUntil: &lockedUntil,
			},
			{
				ID:                 "PMS44444444",
				GuestName:          "Jane Roe",
				RoomNumber:         "201",
				CheckIn:            time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
				CheckOut:           time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC),
				TotalAmount:        7500,
				Nights:             3,
				PricePerNight:      2500,
				DepositAmount:      2250,
				Status:             model.StatusConfirmed,
				OTAChannel:         "Agoda",
				ConfirmationNumber: "AGD-991",
				GuestDetails:       &model.GuestData{FirstNameTH: "Jane", Phone: "081-234-5678"},
			},
		},
	}

	require.NoError(t, s.Save(ctx, in))

	out, err := s.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, in.Settings, out.Settings)
	require.Len(t, out.Transactions, 2)
	assert.Equal(t, "TXN11111111", out.Transactions[0].ID, "order survives the round trip")
	assert.Equal(t, in.Transactions[0].GuestData, out.Transactions[0].GuestData)
	assert.Equal(t, 1250.50, out.Transactions[1].Amount)

	require.Len(t, out.Bookings, 2)
	locked := out.Bookings[0]
	assert.Equal(t, model.StatusLocked, locked.Status)
	require.NotNil(t, locked.LockedUntil)
	assert.True(t, locked.LockedUntil.Equal(lockedUntil))
	assert.True(t, locked.LockConsistent())

	confirmed := out.Bookings[1]
	assert.Nil(t, confirmed.LockedUntil)
	assert.Equal(t, "Agoda", confirmed.OTAChannel)
	assert.Equal(t, in.Bookings[1].GuestDetails, confirmed.GuestDetails)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), confirmed.CheckIn)
}

func TestSQLiteStorage_SaveReplacesPriorState(t *testing.T) {
	s := testStorage(t)
	ctx := context.Background()

	first := &service.Snapshot{
		Settings: service.DefaultSettings(),
		Transactions: []model.Transaction{
			{ID: "TXN1", Date: time.Now().UTC(), Type: model.TypeIncome, Category: model.CategoryRoomRevenue, Amount: 100},
		},
	}
	require.NoError(t, s.Save(ctx, first))

	second := &service.Snapshot{
		Settings: service.DefaultSettings(),
		Transactions: []model.Transaction{
			{ID: "TXN2", Date: time.Now().UTC(), Type: model.TypeExpense, Category: model.CategorySupplies, Amount: 50},
		},
	}
	require.NoError(t, s.Save(ctx, second))

	out, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out.Transactions, 1)
	assert.Equal(t, "TXN2", out.Transactions[0].ID, "save is a full snapshot replace")
}

func TestSQLiteStorage_Migrate_Idempotent(t *testing.T) {
	s := testStorage(t)
	require.NoError(t, s.Migrate(context.Background()), "re-running migrations is safe")

	var version int
	require.NoError(t, s.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestSQLiteStorage_Validation(t *testing.T) {
	_, err := NewSQLiteStorage("  ")
	assert.ErrorIs(t, err, ErrEmptyString)

	s := testStorage(t)
	err = s.Save(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilParameter)
}
