package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"github.com/patcharin/innflow/internal/catalog"
	"github.com/patcharin/innflow/internal/config"
	"github.com/patcharin/innflow/internal/desk"
	"github.com/patcharin/innflow/internal/ledger"
	"github.com/patcharin/innflow/internal/model"
	"github.com/patcharin/innflow/internal/service"
	"github.com/patcharin/innflow/internal/storage"
)

// app is the whole wired application: stores over the loaded snapshot, with
// persistence subscribed to every mutation.
type app struct {
	storage  *storage.SQLiteStorage
	desk     *desk.Store
	ledger   *ledger.Ledger
	catalog  *catalog.Catalog
	settings service.Settings
}

// initStorage opens the database and runs migrations.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/innflow/innflow.db"
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// loadApp opens storage, loads the snapshot, builds the stores, and hooks
// persistence to their mutation notifications. One expiry sweep runs
// immediately so stale locks from a previous session never survive into
// command output.
func loadApp(ctx context.Context) (*app, error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	snapshot, err := store.Load(ctx)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	settings := config.ApplySettings(snapshot.Settings)
	cat := catalog.Default()

	a := &app{
		storage:  store,
		catalog:  cat,
		settings: settings,
		desk: desk.NewStore(desk.Config{
			Catalog:       cat,
			LockWindow:    config.LockWindow(),
			SweepInterval: config.SweepInterval(),
		}, snapshot.Bookings),
		ledger: ledger.New(snapshot.Transactions, settings.AutoReconcile),
	}

	persist := func() {
		saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.save(saveCtx); err != nil {
			slog.Error("failed to persist snapshot", "error", err)
		}
	}
	a.desk.Subscribe(persist)
	a.ledger.Subscribe(persist)

	if removed := a.desk.Sweep(time.Now()); len(removed) > 0 {
		slog.Info("removed expired locks on startup", "count", len(removed))
	}

	return a, nil
}

func (a *app) save(ctx context.Context) error {
	return a.storage.Save(ctx, &service.Snapshot{
		Settings:     a.settings,
		Transactions: a.ledger.List(),
		Bookings:     a.desk.List(),
	})
}

func (a *app) Close() error {
	return a.storage.Close()
}

// parseDateFlag parses a required YYYY-MM-DD flag value.
func parseDateFlag(name, value string) (time.Time, error) {
	t, err := model.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s date %q: expected YYYY-MM-DD", name, value)
	}
	return t, nil
}
