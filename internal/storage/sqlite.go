// Package storage provides the SQLite persistence adapter. It stores the
// full application snapshot; the in-memory stores remain authoritative and
// call Save after every successful mutation.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/patcharin/innflow/internal/model"
	"github.com/patcharin/innflow/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage implements service.Persister using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Load reads the persisted snapshot. An empty database yields an empty
// snapshot with default settings, never an error.
func (s *SQLiteStorage) Load(ctx context.Context) (*service.Snapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	snapshot := &service.Snapshot{Settings: service.DefaultSettings()}

	transactions, err := s.loadTransactions(ctx)
	if err != nil {
		return nil, err
	}
	snapshot.Transactions = transactions

	bookings, err := s.loadBookings(ctx)
	if err != nil {
		return nil, err
	}
	snapshot.Bookings = bookings

	settings, ok, err := s.loadSettings(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		snapshot.Settings = settings
	}

	return snapshot, nil
}

// Save replaces the persisted snapshot atomically. The datasets are small,
// so a full rewrite per mutation matches the core's snapshot-replace
// semantics without sync bookkeeping.
func (s *SQLiteStorage) Save(ctx context.Context, snapshot *service.Snapshot) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if snapshot == nil {
		return fmt.Errorf("%w: snapshot", ErrNilParameter)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := saveTransactionsTx(ctx, tx, snapshot.Transactions); err != nil {
		return err
	}
	if err := saveBookingsTx(ctx, tx, snapshot.Bookings); err != nil {
		return err
	}
	if err := saveSettingsTx(ctx, tx, snapshot.Settings); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStorage) loadTransactions(ctx context.Context) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, type, category, amount, description, image_url,
		       is_reconciled, pms_reference_id, customer_type, guest_data
		FROM transactions
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		var guestJSON sql.NullString
		var imageURL, pmsRef, customerType sql.NullString
		if err := rows.Scan(&txn.ID, &txn.Date, &txn.Type, &txn.Category, &txn.Amount,
			&txn.Description, &imageURL, &txn.IsReconciled, &pmsRef, &customerType, &guestJSON); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txn.ImageURL = imageURL.String
		txn.PMSReferenceID = pmsRef.String
		txn.CustomerType = model.CustomerType(customerType.String)
		if guestJSON.Valid && guestJSON.String != "" {
			var guest model.GuestData
			if err := json.Unmarshal([]byte(guestJSON.String), &guest); err != nil {
				return nil, fmt.Errorf("failed to decode guest data for %s: %w", txn.ID, err)
			}
			txn.GuestData = &guest
		}
		transactions = append(transactions, txn)
	}
	return transactions, rows.Err()
}

func (s *SQLiteStorage) loadBookings(ctx context.Context) ([]model.Booking, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, guest_name, room_number, check_in, check_out, total_amount,
		       nights, price_per_night, deposit_amount, status, locked_until,
		       ota_channel, confirmation_number, guest_details
		FROM bookings
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var bookings []model.Booking
	for rows.Next() {
		var b model.Booking
		var checkIn, checkOut string
		var lockedUntil sql.NullTime
		var otaChannel, confirmation, guestJSON sql.NullString
		if err := rows.Scan(&b.ID, &b.GuestName, &b.RoomNumber, &checkIn, &checkOut,
			&b.TotalAmount, &b.Nights, &b.PricePerNight, &b.DepositAmount, &b.Status,
			&lockedUntil, &otaChannel, &confirmation, &guestJSON); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		if b.CheckIn, err = model.ParseDate(checkIn); err != nil {
			return nil, fmt.Errorf("bad check_in for %s: %w", b.ID, err)
		}
		if b.CheckOut, err = model.ParseDate(checkOut); err != nil {
			return nil, fmt.Errorf("bad check_out for %s: %w", b.ID, err)
		}
		if lockedUntil.Valid {
			t := lockedUntil.Time
			b.LockedUntil = &t
		}
		b.OTAChannel = otaChannel.String
		b.ConfirmationNumber = confirmation.String
		if guestJSON.Valid && guestJSON.String != "" {
			var guest model.GuestData
			if err := json.Unmarshal([]byte(guestJSON.String), &guest); err != nil {
				return nil, fmt.Errorf("failed to decode guest details for %s: %w", b.ID, err)
			}
			b.GuestDetails = &guest
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (s *SQLiteStorage) loadSettings(ctx context.Context) (service.Settings, bool, error) {
	var settings service.Settings
	err := s.db.QueryRowContext(ctx, `
		SELECT property_name, property_address, tax_id, phone, ai_model, auto_reconcile
		FROM settings WHERE id = 1
	`).Scan(&settings.PropertyName, &settings.PropertyAddress, &settings.TaxID,
		&settings.Phone, &settings.AIModel, &settings.AutoReconcile)
	if errors.Is(err, sql.ErrNoRows) {
		return service.Settings{}, false, nil
	}
	if err != nil {
		return service.Settings{}, false, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, true, nil
}

func saveTransactionsTx(ctx context.Context, tx *sql.Tx, transactions []model.Transaction) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("failed to clear transactions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (
			position, id, date, type, category, amount, description, image_url,
			is_reconciled, pms_reference_id, customer_type, guest_data
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, txn := range transactions {
		guestJSON, err := encodeGuest(txn.GuestData)
		if err != nil {
			return fmt.Errorf("failed to encode guest data for %s: %w", txn.ID, err)
		}
		_, err = stmt.ExecContext(ctx,
			i, txn.ID, txn.Date, string(txn.Type), txn.Category, txn.Amount,
			txn.Description, nullable(txn.ImageURL), txn.IsReconciled,
			nullable(txn.PMSReferenceID), nullable(string(txn.CustomerType)), guestJSON,
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
		}
	}
	return nil
}

func saveBookingsTx(ctx context.Context, tx *sql.Tx, bookings []model.Booking) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM bookings`); err != nil {
		return fmt.Errorf("failed to clear bookings: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO bookings (
			position, id, guest_name, room_number, check_in, check_out,
			total_amount, nights, price_per_night, deposit_amount, status,
			locked_until, ota_channel, confirmation_number, guest_details
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, b := range bookings {
		guestJSON, err := encodeGuest(b.GuestDetails)
		if err != nil {
			return fmt.Errorf("failed to encode guest details for %s: %w", b.ID, err)
		}
		var lockedUntil any
		if b.LockedUntil != nil {
			lockedUntil = *b.LockedUntil
		}
		_, err = stmt.ExecContext(ctx,
			i, b.ID, b.GuestName, b.RoomNumber,
			model.FormatDate(b.CheckIn), model.FormatDate(b.CheckOut),
			b.TotalAmount, b.Nights, b.PricePerNight, b.DepositAmount,
			string(b.Status), lockedUntil,
			nullable(b.OTAChannel), nullable(b.ConfirmationNumber), guestJSON,
		)
		if err != nil {
			return fmt.Errorf("failed to insert booking %s: %w", b.ID, err)
		}
	}
	return nil
}

func saveSettingsTx(ctx context.Context, tx *sql.Tx, settings service.Settings) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO settings (id, property_name, property_address, tax_id, phone, ai_model, auto_reconcile, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			property_name = excluded.property_name,
			property_address = excluded.property_address,
			tax_id = excluded.tax_id,
			phone = excluded.phone,
			ai_model = excluded.ai_model,
			auto_reconcile = excluded.auto_reconcile,
			updated_at = excluded.updated_at
	`, settings.PropertyName, settings.PropertyAddress, settings.TaxID,
		settings.Phone, settings.AIModel, settings.AutoReconcile, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

func encodeGuest(guest *model.GuestData) (any, error) {
	if guest == nil {
		return nil, nil
	}
	data, err := json.Marshal(guest)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
