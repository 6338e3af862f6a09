package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/hcsdev/hcs-manager/internal/config"
	"github.com/hcsdev/hcs-manager/internal/engine"
	"github.com/hcsdev/hcs-manager/internal/model"
	"github.com/hcsdev/hcs-manager/internal/storage"
)

// initStorage opens the inventory database and runs pending migrations.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/hcs/hcs.db"
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

// initHistory opens the sales history slot.
func initHistory() (*storage.HistoryLog, error) {
	path := viper.GetString("history.path")
	if path == "" {
		path = "$HOME/.local/share/hcs/history.json"
	}
	return storage.NewHistoryLog(config.ExpandPath(path))
}

// initEngine opens both stores and wires the transaction engine. The
// returned cleanup closes the database.
func initEngine(ctx context.Context) (*engine.Engine, *storage.SQLiteStorage, *storage.HistoryLog, func(), error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	log, err := initHistory()
	if err != nil {
		_ = store.Close()
		return nil, nil, nil, nil, err
	}
	cleanup := func() { _ = store.Close() }
	return engine.New(store, log), store, log, cleanup, nil
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid item id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parsePrice(s string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q", s)
	}
	return price, nil
}

func parseDateFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := model.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}
