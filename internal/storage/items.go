package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hcsdev/hcs-manager/internal/common"
	"github.com/hcsdev/hcs-manager/internal/model"
)

// InsertItems appends inventory rows, one per physical unit. The generated
// row ids are written back into the slice.
func (s *SQLiteStorage) InsertItems(ctx context.Context, items []model.Item) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateItems(items); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO skins (name, type, buy_price, sell_price, purchase_date, steam_link)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range items {
		it := &items[i]
		res, execErr := stmt.ExecContext(ctx,
			it.Name,
			it.Type,
			it.BuyPrice.InexactFloat64(),
			it.SellPrice.InexactFloat64(),
			nullDate(it.PurchaseDate),
			nullString(it.SteamLink),
		)
		if execErr != nil {
			return fmt.Errorf("failed to insert item %q: %w", it.Name, execErr)
		}
		id, idErr := res.LastInsertId()
		if idErr != nil {
			return fmt.Errorf("failed to read inserted id: %w", idErr)
		}
		it.ID = id
	}

	if err := tx.Commit(); err != nil {
		return common.NewPersistenceError("inventory", err)
	}
	return nil
}

// GetItem retrieves a single inventory row by id.
func (s *SQLiteStorage) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, type, buy_price, sell_price, purchase_date, steam_link
		FROM skins
		WHERE id = ?
	`, id)

	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

// ListItems returns all inventory rows in insertion order.
func (s *SQLiteStorage) ListItems(ctx context.Context) ([]model.Item, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, type, buy_price, sell_price, purchase_date, steam_link
		FROM skins
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.Item
	for rows.Next() {
		item, scanErr := scanItem(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan item: %w", scanErr)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// DeleteItems removes inventory rows by id and returns how many rows were
// actually deleted. Missing ids are not an error; the caller decides what a
// partial delete means.
func (s *SQLiteStorage) DeleteItems(ctx context.Context, ids []int64) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := strings.Repeat("?,", len(ids)-1) + "?"
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM skins WHERE id IN (%s)", placeholders), args...)
	if err != nil {
		return 0, common.NewPersistenceError("inventory", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, common.NewPersistenceError("inventory", err)
	}
	return int(affected), nil
}

// CountItems returns the number of inventory rows.
func (s *SQLiteStorage) CountItems(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM skins").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}

// scannable covers *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

func scanItem(row scannable) (*model.Item, error) {
	var (
		item model.Item
		buy  float64
		sell float64
		date sql.NullString
		link sql.NullString
	)
	if err := row.Scan(&item.ID, &item.Name, &item.Type, &buy, &sell, &date, &link); err != nil {
		return nil, err
	}

	item.BuyPrice = decimal.NewFromFloat(buy)
	item.SellPrice = decimal.NewFromFloat(sell)
	if link.Valid {
		item.SteamLink = link.String
	}
	if date.Valid && date.String != "" {
		parsed, err := model.ParseDate(date.String)
		if err != nil {
			return nil, fmt.Errorf("invalid purchase_date %q: %w", date.String, err)
		}
		item.PurchaseDate = parsed
	}
	return &item, nil
}

func nullDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(model.DateFormat)
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
