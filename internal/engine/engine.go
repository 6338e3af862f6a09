// Package engine implements the state-changing operations that move items
// between the inventory store and the sales history.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hcsdev/hcs-manager/internal/common"
	"github.com/hcsdev/hcs-manager/internal/model"
	"github.com/hcsdev/hcs-manager/internal/service"
)

// Engine coordinates the inventory store and the sales history so each
// logical operation moves the two together. Operations never yield between
// their store-mutation steps; persistence happens before success is
// reported.
type Engine struct {
	items service.InventoryStore
	sales service.SaleLog
}

// New creates a transaction engine over the two stores.
func New(items service.InventoryStore, sales service.SaleLog) *Engine {
	return &Engine{items: items, sales: sales}
}

// AddParams describes a purchase of one or more identical units.
type AddParams struct {
	PurchaseDate time.Time
	Name         string
	Type         string
	SteamLink    string
	BuyPrice     decimal.Decimal
	Quantity     int
}

// Add records a purchase, creating one independent inventory row per unit.
func (e *Engine) Add(ctx context.Context, p AddParams) ([]model.Item, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	typ := p.Type
	if typ == "" {
		typ = model.DetectType(p.Name)
		if typ == "" {
			typ = model.TypeOther
		}
	}

	items := make([]model.Item, p.Quantity)
	for i := range items {
		items[i] = model.Item{
			Name:         p.Name,
			Type:         typ,
			BuyPrice:     p.BuyPrice,
			SellPrice:    decimal.Zero,
			PurchaseDate: p.PurchaseDate,
			SteamLink:    p.SteamLink,
		}
	}

	if err := e.items.InsertItems(ctx, items); err != nil {
		return nil, err
	}

	slog.Info("Added items to inventory",
		"name", p.Name,
		"type", typ,
		"quantity", p.Quantity,
		"buy_price", p.BuyPrice)
	return items, nil
}

func (p AddParams) validate() error {
	if p.Name == "" {
		return common.NewValidationError("name", "cannot be empty")
	}
	if p.BuyPrice.IsNegative() {
		return common.NewValidationError("buy price", "must be a non-negative number")
	}
	if p.Quantity < 1 {
		return common.NewValidationError("quantity", "must be at least 1")
	}
	return nil
}

// SellParams describes a sale of previously selected inventory rows. Either
// Price applies uniformly to every id, or PricesByName carries one price per
// distinct item name.
type SellParams struct {
	SaleDate     time.Time
	PricesByName map[string]decimal.Decimal
	IDs          []int64
	Price        decimal.Decimal
}

// SellResult reports what a sale actually did.
type SellResult struct {
	Sold        []model.SaleRecord
	SkippedIDs  []int64
	TotalProfit decimal.Decimal
}

// Sell moves the identified rows into the sales history. The target id set
// is exactly the one captured at confirmation time: ids that have since
// disappeared are skipped silently. The history slot is persisted before any
// inventory row is removed, so an interrupted sale over-counts history
// rather than losing an item.
func (e *Engine) Sell(ctx context.Context, p SellParams) (*SellResult, error) {
	if len(p.IDs) == 0 {
		return nil, common.NewValidationError("selection", "no items selected")
	}
	if err := p.validatePrices(); err != nil {
		return nil, err
	}

	saleDate := p.SaleDate
	if saleDate.IsZero() {
		saleDate = time.Now()
	}
	// Sales carry calendar dates, not instants.
	y, m, d := saleDate.Date()
	saleDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	result := &SellResult{TotalProfit: decimal.Zero}
	var soldIDs []int64

	for _, id := range dedupeInt64(p.IDs) {
		item, err := e.items.GetItem(ctx, id)
		if errors.Is(err, common.ErrNotFound) {
			// Deleted between selection and confirmation: a no-op, not an error.
			result.SkippedIDs = append(result.SkippedIDs, id)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read item %d: %w", id, err)
		}

		price, err := p.priceFor(item)
		if err != nil {
			return nil, err
		}

		record := model.SaleRecord{
			ID:           model.NewSaleID(),
			Name:         item.Name,
			Type:         item.Type,
			BuyPrice:     item.BuyPrice,
			SellPrice:    price,
			PurchaseDate: item.PurchaseDate,
			SaleDate:     saleDate,
			SteamLink:    item.SteamLink,
		}
		result.Sold = append(result.Sold, record)
		result.TotalProfit = result.TotalProfit.Add(record.Profit())
		soldIDs = append(soldIDs, id)
	}

	if len(result.Sold) == 0 {
		return result, nil
	}

	// History first; only then remove the sold rows.
	if err := e.sales.Append(result.Sold...); err != nil {
		return nil, err
	}
	if _, err := e.items.DeleteItems(ctx, soldIDs); err != nil {
		return nil, err
	}

	slog.Info("Sold items",
		"sold", len(result.Sold),
		"skipped", len(result.SkippedIDs),
		"profit", result.TotalProfit)
	return result, nil
}

func (p SellParams) validatePrices() error {
	if len(p.PricesByName) > 0 {
		for name, price := range p.PricesByName {
			if price.IsNegative() || price.IsZero() {
				return common.NewValidationError("sell price",
					fmt.Sprintf("price for %q must be positive", name))
			}
		}
		return nil
	}
	if p.Price.IsNegative() || p.Price.IsZero() {
		return common.NewValidationError("sell price", "must be a positive number")
	}
	return nil
}

func (p SellParams) priceFor(item *model.Item) (decimal.Decimal, error) {
	if len(p.PricesByName) == 0 {
		return p.Price, nil
	}
	price, ok := p.PricesByName[item.Name]
	if !ok {
		return decimal.Zero, common.NewValidationError("sell price",
			fmt.Sprintf("no price given for %q", item.Name))
	}
	return price, nil
}

// GroupSellParams describes selling part of a grouped inventory row: N
// units of one name, optionally pinned to one buy price when the name is
// held at several cost bases.
type GroupSellParams struct {
	SaleDate time.Time
	BuyPrice *decimal.Decimal
	Name     string
	Price    decimal.Decimal
	Quantity int
}

// SellFromGroup sells the first Quantity members of a display group, in
// group order. The members are economically identical, so which ids go is
// immaterial.
func (e *Engine) SellFromGroup(ctx context.Context, p GroupSellParams) (*SellResult, error) {
	if p.Name == "" {
		return nil, common.NewValidationError("name", "cannot be empty")
	}
	if p.Quantity < 1 {
		return nil, common.NewValidationError("quantity", "must be at least 1")
	}

	items, err := e.items.ListItems(ctx)
	if err != nil {
		return nil, err
	}

	var ids []int64
	for _, item := range items {
		if item.Name != p.Name {
			continue
		}
		if p.BuyPrice != nil && !item.BuyPrice.Equal(*p.BuyPrice) {
			continue
		}
		ids = append(ids, item.ID)
		if len(ids) == p.Quantity {
			break
		}
	}
	if len(ids) < p.Quantity {
		return nil, common.NewValidationError("quantity",
			fmt.Sprintf("only %d of %q held", len(ids), p.Name))
	}

	return e.Sell(ctx, SellParams{
		IDs:      ids,
		Price:    p.Price,
		SaleDate: p.SaleDate,
	})
}

// DeleteInventory discards inventory rows and reports how many actually
// existed. Irreversible.
func (e *Engine) DeleteInventory(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, common.NewValidationError("selection", "no items selected")
	}
	removed, err := e.items.DeleteItems(ctx, ids)
	if err != nil {
		return 0, err
	}
	slog.Info("Deleted inventory items", "requested", len(ids), "removed", removed)
	return removed, nil
}

// DeleteHistory discards sale records. Irreversible.
func (e *Engine) DeleteHistory(_ context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, common.NewValidationError("selection", "no items selected")
	}
	removed, err := e.sales.Remove(ids)
	if err != nil {
		return 0, err
	}
	slog.Info("Deleted sale records", "requested", len(ids), "removed", removed)
	return removed, nil
}

// ClearHistory wipes the whole sales history.
func (e *Engine) ClearHistory(_ context.Context) error {
	return e.sales.Clear()
}

// RestoreResult reports what a restore actually did.
type RestoreResult struct {
	Restored []model.Item
	Missing  []string
}

// Restore moves sale records back into inventory. Each restored unit gets a
// fresh inventory identity and a zeroed sell-price placeholder; the original
// inventory identity is not preserved across a sell/restore round trip.
// Rows are inserted before their records are removed, mirroring Sell.
// Missing ids are reported in the result, not fatal.
func (e *Engine) Restore(ctx context.Context, ids []string) (*RestoreResult, error) {
	if len(ids) == 0 {
		return nil, common.NewValidationError("selection", "no items selected")
	}

	records, err := e.sales.All()
	if err != nil {
		return nil, err
	}

	byID := make(map[string]model.SaleRecord, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	result := &RestoreResult{}
	var restoreIDs []string
	for _, id := range dedupeStrings(ids) {
		record, ok := byID[id]
		if !ok {
			result.Missing = append(result.Missing, id)
			slog.Warn("Sale record not found in history", "id", id)
			continue
		}
		result.Restored = append(result.Restored, model.Item{
			Name:         record.Name,
			Type:         record.Type,
			BuyPrice:     record.BuyPrice,
			SellPrice:    decimal.Zero,
			PurchaseDate: record.PurchaseDate,
			SteamLink:    record.SteamLink,
		})
		restoreIDs = append(restoreIDs, id)
	}

	if len(result.Restored) == 0 {
		return result, nil
	}

	// Inventory insert first; only then drop the history records.
	if err := e.items.InsertItems(ctx, result.Restored); err != nil {
		return nil, err
	}
	if _, err := e.sales.Remove(restoreIDs); err != nil {
		return nil, err
	}

	slog.Info("Restored items to inventory",
		"restored", len(result.Restored),
		"missing", len(result.Missing))
	return result, nil
}

// dedupeInt64 drops repeated ids while keeping first-occurrence order.
// A selection that names the same row twice still sells one unit.
func dedupeInt64(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func dedupeStrings(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
