package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a fatal
// error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS transactions (
					position INTEGER NOT NULL,
					id TEXT PRIMARY KEY,
					date DATETIME NOT NULL,
					type TEXT NOT NULL,
					category TEXT NOT NULL,
					amount REAL NOT NULL,
					description TEXT,
					image_url TEXT,
					is_reconciled BOOLEAN NOT NULL DEFAULT 0,
					pms_reference_id TEXT,
					customer_type TEXT,
					guest_data TEXT
				)`,
				`CREATE INDEX idx_transactions_date ON transactions(date)`,
				`CREATE INDEX idx_transactions_reconciled ON transactions(is_reconciled)`,

				`CREATE TABLE IF NOT EXISTS bookings (
					position INTEGER NOT NULL,
					id TEXT PRIMARY KEY,
					guest_name TEXT NOT NULL,
					room_number TEXT NOT NULL,
					check_in TEXT NOT NULL,
					check_out TEXT NOT NULL,
					total_amount REAL NOT NULL,
					nights INTEGER DEFAULT 0,
					price_per_night REAL DEFAULT 0,
					deposit_amount REAL DEFAULT 0,
					status TEXT NOT NULL,
					locked_until DATETIME,
					guest_details TEXT
				)`,
				`CREATE INDEX idx_bookings_room ON bookings(room_number)`,
				`CREATE INDEX idx_bookings_status ON bookings(status)`,

				`CREATE TABLE IF NOT EXISTS settings (
					id INTEGER PRIMARY KEY CHECK (id = 1),
					property_name TEXT,
					property_address TEXT,
					tax_id TEXT,
					phone TEXT,
					ai_model TEXT,
					auto_reconcile BOOLEAN NOT NULL DEFAULT 0,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add OTA import columns to bookings",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`ALTER TABLE bookings ADD COLUMN ota_channel TEXT`,
				`ALTER TABLE bookings ADD COLUMN confirmation_number TEXT`,
			}
			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate brings the database schema up to the expected version.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= version {
			continue
		}

		slog.Info("applying migration", "version", m.Version, "description", m.Description)

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
		}

		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", m.Version, err)
		}

		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to set schema version %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}
