// Package backup implements full export and import of both stores as a
// single JSON document.
package backup

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hcsdev/hcs-manager/internal/common"
	"github.com/hcsdev/hcs-manager/internal/model"
	"github.com/hcsdev/hcs-manager/internal/service"
)

// ArchiveVersion is the export format version written by Export.
const ArchiveVersion = "1.0"

// ByteArray is a database image that marshals as a JSON array of numbers,
// the shape older exports carry the serialized store in. Unmarshal also
// accepts a base64 string for compactness-minded producers.
type ByteArray []byte

// MarshalJSON renders the bytes as a numeric array.
func (b ByteArray) MarshalJSON() ([]byte, error) {
	var sb strings.Builder
	sb.Grow(len(b)*4 + 2)
	sb.WriteByte('[')
	for i, v := range b {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(int(v)))
	}
	sb.WriteByte(']')
	return []byte(sb.String()), nil
}

// UnmarshalJSON accepts either a numeric array or a base64 string.
func (b *ByteArray) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "\"") {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		decoded, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return fmt.Errorf("%w: database is not valid base64", common.ErrImportFormat)
		}
		*b = decoded
		return nil
	}
	var nums []uint16
	if err := json.Unmarshal(data, &nums); err != nil {
		return fmt.Errorf("%w: database must be a byte array", common.ErrImportFormat)
	}
	out := make([]byte, len(nums))
	for i, n := range nums {
		if n > 255 {
			return fmt.Errorf("%w: byte value %d out of range", common.ErrImportFormat, n)
		}
		out[i] = byte(n)
	}
	*b = out
	return nil
}

// Archive is the full export document. History may be absent in files
// produced by older versions.
type Archive struct {
	ExportDate time.Time          `json:"exportDate"`
	Version    string             `json:"version"`
	Database   ByteArray          `json:"database"`
	History    []model.SaleRecord `json:"history"`
	hasHistory bool
}

type archiveJSON struct {
	ExportDate time.Time       `json:"exportDate"`
	Version    string          `json:"version"`
	Database   ByteArray       `json:"database"`
	History    json.RawMessage `json:"history,omitempty"`
}

// MarshalJSON always includes the history array, even when empty.
func (a Archive) MarshalJSON() ([]byte, error) {
	history := a.History
	if history == nil {
		history = []model.SaleRecord{}
	}
	raw, err := json.Marshal(history)
	if err != nil {
		return nil, err
	}
	return json.Marshal(archiveJSON{
		ExportDate: a.ExportDate,
		Version:    a.Version,
		Database:   a.Database,
		History:    raw,
	})
}

// UnmarshalJSON tracks whether the document carried a history field at all,
// so import can tell "no history" apart from "empty history".
func (a *Archive) UnmarshalJSON(data []byte) error {
	var aux archiveJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	a.ExportDate = aux.ExportDate
	a.Version = aux.Version
	a.Database = aux.Database
	a.History = nil
	a.hasHistory = aux.History != nil
	if a.hasHistory {
		if err := json.Unmarshal(aux.History, &a.History); err != nil {
			return err
		}
	}
	return nil
}

// Manager wires export/import to the two stores.
type Manager struct {
	items service.InventoryStore
	sales service.SaleLog
}

// NewManager creates a backup manager over the two stores.
func NewManager(items service.InventoryStore, sales service.SaleLog) *Manager {
	return &Manager{items: items, sales: sales}
}

// Export produces the full archive document as JSON.
func (m *Manager) Export(ctx context.Context) ([]byte, error) {
	database, err := m.items.Serialize(ctx)
	if err != nil {
		return nil, err
	}
	history, err := m.sales.All()
	if err != nil {
		return nil, err
	}

	archive := Archive{
		Database:   database,
		History:    history,
		ExportDate: time.Now().UTC(),
		Version:    ArchiveVersion,
	}
	data, err := json.Marshal(archive)
	if err != nil {
		return nil, fmt.Errorf("failed to encode archive: %w", err)
	}
	return data, nil
}

// Import replaces both stores from an exported document. A malformed file
// is rejected wholesale before either store is touched. The history slot is
// only replaced when the document actually carries a history field; legacy
// bare byte-array exports replace the database and leave history alone.
func (m *Manager) Import(ctx context.Context, data []byte) error {
	archive, err := parse(data)
	if err != nil {
		return err
	}

	if err := m.items.Deserialize(ctx, archive.Database); err != nil {
		return err
	}
	// Older database images may predate the current schema.
	if err := m.items.Migrate(ctx); err != nil {
		return err
	}

	if archive.hasHistory {
		if err := m.sales.Replace(archive.History); err != nil {
			return err
		}
	}
	return nil
}

func parse(data []byte) (*Archive, error) {
	trimmed := strings.TrimLeftFunc(string(data), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if trimmed == "" {
		return nil, fmt.Errorf("%w: file is empty", common.ErrImportFormat)
	}

	// A bare array is a legacy database-only export.
	if trimmed[0] == '[' {
		var database ByteArray
		if err := json.Unmarshal([]byte(trimmed), &database); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrImportFormat, err)
		}
		if len(database) == 0 {
			return nil, fmt.Errorf("%w: database image is empty", common.ErrImportFormat)
		}
		return &Archive{Database: database}, nil
	}

	var archive Archive
	if err := json.Unmarshal([]byte(trimmed), &archive); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrImportFormat, err)
	}
	if len(archive.Database) == 0 {
		return nil, fmt.Errorf("%w: missing database field", common.ErrImportFormat)
	}
	return &archive, nil
}
