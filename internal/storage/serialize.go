package storage

import (
	"context"
	"fmt"
	"os"

	"github.com/hcsdev/hcs-manager/internal/common"
)

// Serialize returns the raw bytes of the database file for backup export.
// The WAL is checkpointed first so the file alone is the complete store.
func (s *SQLiteStorage) Serialize(ctx context.Context) ([]byte, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	if _, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return nil, fmt.Errorf("failed to checkpoint database: %w", err)
	}

	data, err := os.ReadFile(s.dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read database file: %w", err)
	}
	return data, nil
}

// Deserialize replaces the store's contents with a previously serialized
// database. The connection is reopened against the imported bytes; callers
// must run Migrate afterwards since imported files may predate the current
// schema.
func (s *SQLiteStorage) Deserialize(ctx context.Context, data []byte) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: empty database payload", common.ErrImportFormat)
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database before import: %w", err)
	}

	// Drop WAL leftovers from the previous incarnation of the file.
	_ = os.Remove(s.dbPath + "-wal")
	_ = os.Remove(s.dbPath + "-shm")

	if err := os.WriteFile(s.dbPath, data, 0600); err != nil {
		return common.NewPersistenceError("inventory", err)
	}

	db, err := openDB(s.dbPath)
	if err != nil {
		return err
	}
	s.db = db
	return nil
}
