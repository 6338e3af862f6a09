package engine

import (
	"context"
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

func setupEngine(t *testing.T) (*Engine, *storage.SQLiteStorage, *storage.HistoryLog) {
	t.Helper()

	dir := t.TempDir()
	store, err := storage.NewSQLiteStorage(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	log, err := storage.NewHistoryLog(filepath.Join(dir, "history.json"))
	require.NoError(t, err)

	return New(store, log), store, log
}

func TestEngine_Add(t *testing.T) {
	tests := []struct {
		name      string
		params    AddParams
		wantCount int
		wantType  string
		wantErr   bool
	}{
		{
			name: "single item",
			params: AddParams{
				Name:     "AK-47 | Redline",
				Type:     model.TypeSkin,
				BuyPrice: decimal.NewFromFloat(12.50),
				Quantity: 1,
			},
			wantCount: 1,
			wantType:  model.TypeSkin,
		},
		{
			name: "quantity expands to independent rows",
			params: AddParams{
				Name:     "Fracture Case",
				BuyPrice: decimal.NewFromFloat(0.30),
				Quantity: 5,
			},
			wantCount: 5,
			wantType:  model.TypeCase,
		},
		{
			name: "type autodetected when omitted",
			params: AddParams{
				Name:     "Karambit | Doppler",
				BuyPrice: decimal.NewFromFloat(900),
				Quantity: 1,
			},
			wantCount: 1,
			wantType:  model.TypeKnife,
		},
		{
			name: "zero price is allowed",
			params: AddParams{
				Name:     "Graffiti | Piggles",
				Type:     model.TypeOther,
				BuyPrice: decimal.Zero,
				Quantity: 1,
			},
			wantCount: 1,
			wantType:  model.TypeOther,
		},
		{
			name:    "empty name",
			params:  AddParams{BuyPrice: decimal.NewFromInt(1), Quantity: 1},
			wantErr: true,
		},
		{
			name: "negative price",
			params: AddParams{
				Name:     "AK-47 | Redline",
				BuyPrice: decimal.NewFromInt(-1),
				Quantity: 1,
			},
			wantErr: true,
		},
		{
			name: "zero quantity",
			params: AddParams{
				Name:     "AK-47 | Redline",
				BuyPrice: decimal.NewFromInt(1),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, store, _ := setupEngine(t)
			ctx := context.Background()

			added, err := eng.Add(ctx, tt.params)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, common.IsValidation(err))
				return
			}
			require.NoError(t, err)
			require.Len(t, added, tt.wantCount)

			items, err := store.ListItems(ctx)
			require.NoError(t, err)
			require.Len(t, items, tt.wantCount)
			for _, it := range items {
				assert.Equal(t, tt.params.Name, it.Name)
				assert.Equal(t, tt.wantType, it.Type)
				assert.True(t, tt.params.BuyPrice.Equal(it.BuyPrice))
				assert.True(t, it.SellPrice.IsZero())
				assert.NotZero(t, it.ID)
			}
		})
	}
}

func TestEngine_Sell(t *testing.T) {
	ctx := context.Background()

	t.Run("uniform price", func(t *testing.T) {
		eng, store, log := setupEngine(t)
		added, err := eng.Add(ctx, AddParams{
			Name:     "AWP | Asiimov",
			Type:     model.TypeSkin,
			BuyPrice: decimal.NewFromFloat(40),
			Quantity: 2,
		})
		require.NoError(t, err)

		result, err := eng.Sell(ctx, SellParams{
			IDs:      []int64{added[0].ID, added[1].ID},
			Price:    decimal.NewFromFloat(55),
			SaleDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		require.Len(t, result.Sold, 2)
		assert.Empty(t, result.SkippedIDs)
		assert.True(t, decimal.NewFromFloat(30).Equal(result.TotalProfit))

		count, err := store.CountItems(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count)

		records, err := log.All()
		require.NoError(t, err)
		require.Len(t, records, 2)
		for _, r := range records {
			assert.Equal(t, "AWP | Asiimov", r.Name)
			assert.True(t, decimal.NewFromFloat(55).Equal(r.SellPrice))
			assert.Equal(t, "2026-03-10", r.SaleDate.Format(model.DateFormat))
			assert.NotEmpty(t, r.ID)
		}
		assert.NotEqual(t, records[0].ID, records[1].ID)
	})

	t.Run("per-name prices", func(t *testing.T) {
		eng, _, log := setupEngine(t)
		ak, err := eng.Add(ctx, AddParams{
			Name: "AK-47 | Redline", Type: model.TypeSkin,
			BuyPrice: decimal.NewFromFloat(12), Quantity: 1,
		})
		require.NoError(t, err)
		awp, err := eng.Add(ctx, AddParams{
			Name: "AWP | Asiimov", Type: model.TypeSkin,
			BuyPrice: decimal.NewFromFloat(40), Quantity: 1,
		})
		require.NoError(t, err)

		result, err := eng.Sell(ctx, SellParams{
			IDs: []int64{ak[0].ID, awp[0].ID},
			PricesByName: map[string]decimal.Decimal{
				"AK-47 | Redline": decimal.NewFromFloat(15),
				"AWP | Asiimov":   decimal.NewFromFloat(50),
			},
		})
		require.NoError(t, err)
		require.Len(t, result.Sold, 2)
		assert.True(t, decimal.NewFromFloat(13).Equal(result.TotalProfit))

		records, err := log.All()
		require.NoError(t, err)
		prices := map[string]decimal.Decimal{}
		for _, r := range records {
			prices[r.Name] = r.SellPrice
		}
		assert.True(t, decimal.NewFromFloat(15).Equal(prices["AK-47 | Redline"]))
		assert.True(t, decimal.NewFromFloat(50).Equal(prices["AWP | Asiimov"]))
	})

	t.Run("missing id skipped silently", func(t *testing.T) {
		eng, store, log := setupEngine(t)
		added, err := eng.Add(ctx, AddParams{
			Name: "Fracture Case", Type: model.TypeCase,
			BuyPrice: decimal.NewFromFloat(0.30), Quantity: 2,
		})
		require.NoError(t, err)

		// Simulate a concurrent delete between selection and confirmation.
		_, err = store.DeleteItems(ctx, []int64{added[0].ID})
		require.NoError(t, err)

		result, err := eng.Sell(ctx, SellParams{
			IDs:   []int64{added[0].ID, added[1].ID},
			Price: decimal.NewFromFloat(1),
		})
		require.NoError(t, err)
		require.Len(t, result.Sold, 1)
		assert.Equal(t, []int64{added[0].ID}, result.SkippedIDs)

		records, err := log.All()
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("repeated id sells one unit", func(t *testing.T) {
		eng, store, log := setupEngine(t)
		added, err := eng.Add(ctx, AddParams{
			Name: "Dreams & Nightmares Case", Type: model.TypeCase,
			BuyPrice: decimal.NewFromFloat(1.20), Quantity: 1,
		})
		require.NoError(t, err)

		result, err := eng.Sell(ctx, SellParams{
			IDs:   []int64{added[0].ID, added[0].ID},
			Price: decimal.NewFromFloat(2),
		})
		require.NoError(t, err)
		require.Len(t, result.Sold, 1)
		assert.Empty(t, result.SkippedIDs)

		records, err := log.All()
		require.NoError(t, err)
		assert.Len(t, records, 1)

		left, err := store.CountItems(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, left)
	})

	t.Run("all ids missing is a no-op", func(t *testing.T) {
		eng, _, log := setupEngine(t)
		result, err := eng.Sell(ctx, SellParams{
			IDs:   []int64{999},
			Price: decimal.NewFromFloat(1),
		})
		require.NoError(t, err)
		assert.Empty(t, result.Sold)
		assert.Equal(t, []int64{999}, result.SkippedIDs)

		records, err := log.All()
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("rejects non-positive price", func(t *testing.T) {
		eng, _, _ := setupEngine(t)
		_, err := eng.Sell(ctx, SellParams{IDs: []int64{1}, Price: decimal.Zero})
		require.Error(t, err)
		assert.True(t, common.IsValidation(err))
	})

	t.Run("rejects empty selection", func(t *testing.T) {
		eng, _, _ := setupEngine(t)
		_, err := eng.Sell(ctx, SellParams{Price: decimal.NewFromInt(1)})
		require.Error(t, err)
		assert.True(t, common.IsValidation(err))
	})
}

func TestEngine_SellFromGroup(t *testing.T) {
	ctx := context.Background()

	t.Run("first N in group order", func(t *testing.T) {
		eng, store, _ := setupEngine(t)
		added, err := eng.Add(ctx, AddParams{
			Name: "Fracture Case", Type: model.TypeCase,
			BuyPrice: decimal.NewFromFloat(0.30), Quantity: 5,
		})
		require.NoError(t, err)

		result, err := eng.SellFromGroup(ctx, GroupSellParams{
			Name:     "Fracture Case",
			Quantity: 3,
			Price:    decimal.NewFromFloat(0.45),
		})
		require.NoError(t, err)
		require.Len(t, result.Sold, 3)

		items, err := store.ListItems(ctx)
		require.NoError(t, err)
		require.Len(t, items, 2)
		// The oldest units go first.
		assert.Equal(t, added[3].ID, items[0].ID)
		assert.Equal(t, added[4].ID, items[1].ID)
	})

	t.Run("buy price pins the group", func(t *testing.T) {
		eng, store, _ := setupEngine(t)
		_, err := eng.Add(ctx, AddParams{
			Name: "Fracture Case", Type: model.TypeCase,
			BuyPrice: decimal.NewFromFloat(0.30), Quantity: 2,
		})
		require.NoError(t, err)
		_, err = eng.Add(ctx, AddParams{
			Name: "Fracture Case", Type: model.TypeCase,
			BuyPrice: decimal.NewFromFloat(0.20), Quantity: 2,
		})
		require.NoError(t, err)

		pin := decimal.NewFromFloat(0.20)
		result, err := eng.SellFromGroup(ctx, GroupSellParams{
			Name:     "Fracture Case",
			BuyPrice: &pin,
			Quantity: 2,
			Price:    decimal.NewFromFloat(0.45),
		})
		require.NoError(t, err)
		require.Len(t, result.Sold, 2)
		for _, r := range result.Sold {
			assert.True(t, pin.Equal(r.BuyPrice))
		}

		count, err := store.CountItems(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("quantity beyond holdings rejected", func(t *testing.T) {
		eng, _, _ := setupEngine(t)
		_, err := eng.Add(ctx, AddParams{
			Name: "Fracture Case", Type: model.TypeCase,
			BuyPrice: decimal.NewFromFloat(0.30), Quantity: 1,
		})
		require.NoError(t, err)

		_, err = eng.SellFromGroup(ctx, GroupSellParams{
			Name: "Fracture Case", Quantity: 2, Price: decimal.NewFromFloat(1),
		})
		require.Error(t, err)
		assert.True(t, common.IsValidation(err))
	})
}

func TestEngine_Restore(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip preserves descriptive fields", func(t *testing.T) {
		eng, store, log := setupEngine(t)
		purchase := time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC)
		added, err := eng.Add(ctx, AddParams{
			Name:         "M4A4 | Howl",
			Type:         model.TypeSkin,
			BuyPrice:     decimal.NewFromFloat(2500),
			PurchaseDate: purchase,
			SteamLink:    "https://steamcommunity.com/market/listings/730/M4A4%20%7C%20Howl",
			Quantity:     1,
		})
		require.NoError(t, err)
		originalID := added[0].ID

		sold, err := eng.Sell(ctx, SellParams{
			IDs:   []int64{originalID},
			Price: decimal.NewFromFloat(3000),
		})
		require.NoError(t, err)

		result, err := eng.Restore(ctx, []string{sold.Sold[0].ID})
		require.NoError(t, err)
		require.Len(t, result.Restored, 1)
		assert.Empty(t, result.Missing)

		items, err := store.ListItems(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
		got := items[0]
		assert.Equal(t, "M4A4 | Howl", got.Name)
		assert.Equal(t, model.TypeSkin, got.Type)
		assert.True(t, decimal.NewFromFloat(2500).Equal(got.BuyPrice))
		assert.True(t, got.SellPrice.IsZero(), "sell price placeholder must reset")
		assert.True(t, purchase.Equal(got.PurchaseDate))
		assert.Equal(t, added[0].SteamLink, got.SteamLink)
		// A fresh identity, not the pre-sale one.
		assert.NotEqual(t, originalID, got.ID)

		records, err := log.All()
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("missing ids reported not fatal", func(t *testing.T) {
		eng, store, _ := setupEngine(t)
		added, err := eng.Add(ctx, AddParams{
			Name: "Fracture Case", Type: model.TypeCase,
			BuyPrice: decimal.NewFromFloat(0.30), Quantity: 1,
		})
		require.NoError(t, err)
		sold, err := eng.Sell(ctx, SellParams{
			IDs: []int64{added[0].ID}, Price: decimal.NewFromFloat(1),
		})
		require.NoError(t, err)

		result, err := eng.Restore(ctx, []string{sold.Sold[0].ID, "no-such-id"})
		require.NoError(t, err)
		assert.Len(t, result.Restored, 1)
		assert.Equal(t, []string{"no-such-id"}, result.Missing)

		count, err := store.CountItems(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("repeated id restores one unit", func(t *testing.T) {
		eng, store, log := setupEngine(t)
		added, err := eng.Add(ctx, AddParams{
			Name: "Clutch Case", Type: model.TypeCase,
			BuyPrice: decimal.NewFromFloat(0.25), Quantity: 1,
		})
		require.NoError(t, err)
		sold, err := eng.Sell(ctx, SellParams{
			IDs: []int64{added[0].ID}, Price: decimal.NewFromFloat(1),
		})
		require.NoError(t, err)

		result, err := eng.Restore(ctx, []string{sold.Sold[0].ID, sold.Sold[0].ID})
		require.NoError(t, err)
		assert.Len(t, result.Restored, 1)
		assert.Empty(t, result.Missing)

		count, err := store.CountItems(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		records, err := log.All()
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("empty selection rejected", func(t *testing.T) {
		eng, _, _ := setupEngine(t)
		_, err := eng.Restore(ctx, nil)
		require.Error(t, err)
		assert.True(t, common.IsValidation(err))
	})
}

// Every unit is always in exactly one of the two stores: selling then
// restoring across a mixed set never loses or duplicates a unit.
func TestEngine_Conservation(t *testing.T) {
	ctx := context.Background()
	eng, store, log := setupEngine(t)

	added, err := eng.Add(ctx, AddParams{
		Name: "Glock-18 | Fade", Type: model.TypeSkin,
		BuyPrice: decimal.NewFromFloat(300), Quantity: 4,
	})
	require.NoError(t, err)

	total := func() int {
		t.Helper()
		count, err := store.CountItems(ctx)
		require.NoError(t, err)
		records, err := log.All()
		require.NoError(t, err)
		return count + len(records)
	}
	require.Equal(t, 4, total())

	sold, err := eng.Sell(ctx, SellParams{
		IDs:   []int64{added[0].ID, added[1].ID, added[2].ID},
		Price: decimal.NewFromFloat(350),
	})
	require.NoError(t, err)
	require.Equal(t, 4, total())

	_, err = eng.Restore(ctx, []string{sold.Sold[0].ID, sold.Sold[1].ID})
	require.NoError(t, err)
	require.Equal(t, 4, total())
}

func TestEngine_DeleteAndClear(t *testing.T) {
	ctx := context.Background()

	t.Run("delete inventory", func(t *testing.T) {
		eng, store, _ := setupEngine(t)
		added, err := eng.Add(ctx, AddParams{
			Name: "Fracture Case", Type: model.TypeCase,
			BuyPrice: decimal.NewFromFloat(0.30), Quantity: 3,
		})
		require.NoError(t, err)

		removed, err := eng.DeleteInventory(ctx, []int64{added[0].ID, added[2].ID})
		require.NoError(t, err)
		assert.Equal(t, 2, removed)
		count, err := store.CountItems(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("delete reports only rows that existed", func(t *testing.T) {
		eng, store, _ := setupEngine(t)
		added, err := eng.Add(ctx, AddParams{
			Name: "Fracture Case", Type: model.TypeCase,
			BuyPrice: decimal.NewFromFloat(0.30), Quantity: 1,
		})
		require.NoError(t, err)

		removed, err := eng.DeleteInventory(ctx, []int64{added[0].ID, 9999})
		require.NoError(t, err)
		assert.Equal(t, 1, removed)
		count, err := store.CountItems(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("delete history records", func(t *testing.T) {
		eng, _, log := setupEngine(t)
		added, err := eng.Add(ctx, AddParams{
			Name: "Fracture Case", Type: model.TypeCase,
			BuyPrice: decimal.NewFromFloat(0.30), Quantity: 2,
		})
		require.NoError(t, err)
		sold, err := eng.Sell(ctx, SellParams{
			IDs: []int64{added[0].ID, added[1].ID}, Price: decimal.NewFromFloat(1),
		})
		require.NoError(t, err)

		removed, err := eng.DeleteHistory(ctx, []string{sold.Sold[0].ID})
		require.NoError(t, err)
		assert.Equal(t, 1, removed)

		records, err := log.All()
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("clear history", func(t *testing.T) {
		eng, _, log := setupEngine(t)
		added, err := eng.Add(ctx, AddParams{
			Name: "Fracture Case", Type: model.TypeCase,
			BuyPrice: decimal.NewFromFloat(0.30), Quantity: 1,
		})
		require.NoError(t, err)
		_, err = eng.Sell(ctx, SellParams{
			IDs: []int64{added[0].ID}, Price: decimal.NewFromFloat(1),
		})
		require.NoError(t, err)

		require.NoError(t, eng.ClearHistory(ctx))
		records, err := log.All()
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}
