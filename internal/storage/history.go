package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hcsdev/hcs-manager/internal/common"
	"github.com/hcsdev/hcs-manager/internal/model"
)

// HistoryLog persists the sales history as one JSON document in a single
// named slot, mirrored after the browser build's localStorage key. Every
// update is a read-modify-write of the whole document.
type HistoryLog struct {
	path string
}

// NewHistoryLog creates a history log backed by the given slot file.
func NewHistoryLog(path string) (*HistoryLog, error) {
	if err := validateString(path, "path"); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	return &HistoryLog{path: path}, nil
}

// Path returns the location of the slot file.
func (h *HistoryLog) Path() string {
	return h.path
}

// All returns every sale record in append order (oldest first). A missing
// slot file is an empty history.
func (h *HistoryLog) All() ([]model.SaleRecord, error) {
	data, err := os.ReadFile(h.path)
	if os.IsNotExist(err) {
		return []model.SaleRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history slot: %w", err)
	}

	var records []model.SaleRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("corrupt history slot: %w", err)
	}
	return records, nil
}

// Append adds records to the end of the log.
func (h *HistoryLog) Append(records ...model.SaleRecord) error {
	if len(records) == 0 {
		return nil
	}
	existing, err := h.All()
	if err != nil {
		return err
	}
	return h.write(append(existing, records...))
}

// Remove deletes records by id and returns how many were removed. Unknown
// ids are skipped.
func (h *HistoryLog) Remove(ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	records, err := h.All()
	if err != nil {
		return 0, err
	}

	doomed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		doomed[id] = struct{}{}
	}

	kept := records[:0]
	removed := 0
	for _, r := range records {
		if _, ok := doomed[r.ID]; ok {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, h.write(kept)
}

// Replace overwrites the whole log.
func (h *HistoryLog) Replace(records []model.SaleRecord) error {
	return h.write(records)
}

// Clear wipes the log.
func (h *HistoryLog) Clear() error {
	return h.write([]model.SaleRecord{})
}

// write flushes the slot synchronously via a temp file rename, so a failed
// write can never leave a half-written document behind.
func (h *HistoryLog) write(records []model.SaleRecord) error {
	if records == nil {
		records = []model.SaleRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	tmp := h.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return common.NewPersistenceError("history", err)
	}
	if err := os.Rename(tmp, h.path); err != nil {
		_ = os.Remove(tmp)
		return common.NewPersistenceError("history", err)
	}
	return nil
}
