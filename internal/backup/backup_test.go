package backup

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcsdev/hcs-manager/internal/common"
	"github.com/hcsdev/hcs-manager/internal/model"
	"github.com/hcsdev/hcs-manager/internal/storage"
)

func setupStores(t *testing.T) (*storage.SQLiteStorage, *storage.HistoryLog) {
	t.Helper()

	dir := t.TempDir()
	store, err := storage.NewSQLiteStorage(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	log, err := storage.NewHistoryLog(filepath.Join(dir, "history.json"))
	require.NoError(t, err)
	return store, log
}

func TestByteArray_JSON(t *testing.T) {
	t.Run("marshals as numeric array", func(t *testing.T) {
		data, err := json.Marshal(ByteArray{0, 1, 255})
		require.NoError(t, err)
		assert.Equal(t, "[0,1,255]", string(data))
	})

	t.Run("round trips", func(t *testing.T) {
		in := ByteArray{83, 81, 76, 105, 116, 101, 0}
		data, err := json.Marshal(in)
		require.NoError(t, err)
		var out ByteArray
		require.NoError(t, json.Unmarshal(data, &out))
		assert.Equal(t, in, out)
	})

	t.Run("accepts base64 string", func(t *testing.T) {
		var out ByteArray
		require.NoError(t, json.Unmarshal([]byte(`"aGVsbG8="`), &out))
		assert.Equal(t, ByteArray("hello"), out)
	})

	t.Run("rejects out-of-range values", func(t *testing.T) {
		var out ByteArray
		err := json.Unmarshal([]byte(`[0,256]`), &out)
		require.Error(t, err)
	})
}

func TestManager_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, log := setupStores(t)

	items := []model.Item{
		{Name: "AK-47 | Redline", Type: model.TypeSkin, BuyPrice: decimal.NewFromFloat(12.50),
			PurchaseDate: time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC)},
		{Name: "Fracture Case", Type: model.TypeCase, BuyPrice: decimal.NewFromFloat(0.30)},
	}
	require.NoError(t, store.InsertItems(ctx, items))
	require.NoError(t, log.Append(model.SaleRecord{
		ID:        "sale-1",
		Name:      "AWP | Asiimov",
		Type:      model.TypeSkin,
		BuyPrice:  decimal.NewFromFloat(40),
		SellPrice: decimal.NewFromFloat(55),
		SaleDate:  time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	}))

	exported, err := NewManager(store, log).Export(ctx)
	require.NoError(t, err)

	var archive Archive
	require.NoError(t, json.Unmarshal(exported, &archive))
	assert.Equal(t, ArchiveVersion, archive.Version)
	assert.NotEmpty(t, archive.Database)
	assert.False(t, archive.ExportDate.IsZero())

	// Import into a fresh pair of stores.
	dest, destLog := setupStores(t)
	require.NoError(t, NewManager(dest, destLog).Import(ctx, exported))

	restored, err := dest.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, restored, 2)
	assert.Equal(t, "AK-47 | Redline", restored[0].Name)
	assert.True(t, decimal.NewFromFloat(12.50).Equal(restored[0].BuyPrice))
	assert.Equal(t, "2025-11-02", restored[0].PurchaseDate.Format(model.DateFormat))

	history, err := destLog.All()
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "sale-1", history[0].ID)
	assert.True(t, decimal.NewFromFloat(55).Equal(history[0].SellPrice))
}

func TestManager_ImportLegacyBareArray(t *testing.T) {
	ctx := context.Background()
	store, _ := setupStores(t)
	require.NoError(t, store.InsertItems(ctx, []model.Item{
		{Name: "Fracture Case", Type: model.TypeCase, BuyPrice: decimal.NewFromFloat(0.30)},
	}))

	image, err := store.Serialize(ctx)
	require.NoError(t, err)
	bare, err := json.Marshal(ByteArray(image))
	require.NoError(t, err)

	dest, destLog := setupStores(t)
	require.NoError(t, destLog.Append(model.SaleRecord{
		ID: "keep-me", Name: "AWP | Asiimov",
		BuyPrice: decimal.NewFromFloat(40), SellPrice: decimal.NewFromFloat(55),
	}))

	require.NoError(t, NewManager(dest, destLog).Import(ctx, bare))

	restored, err := dest.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, restored, 1)
	assert.Equal(t, "Fracture Case", restored[0].Name)

	// A database-only export must not touch the existing history.
	history, err := destLog.All()
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "keep-me", history[0].ID)
}

func TestManager_ImportRejectsMalformed(t *testing.T) {
	ctx := context.Background()
	store, log := setupStores(t)
	mgr := NewManager(store, log)

	for _, input := range []string{"", "   ", "{}", `{"history":[]}`, "not json", "[1,2,"} {
		err := mgr.Import(ctx, []byte(input))
		require.Error(t, err, "input %q", input)
	}

	err := mgr.Import(ctx, []byte(`{"database":[]}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrImportFormat))
}
