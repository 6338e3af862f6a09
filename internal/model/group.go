package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemGroup collapses inventory items sharing (name, buy price) into one
// display row. Groups are rebuilt from store contents on every render and
// never persisted.
type ItemGroup struct {
	Name         string
	Type         string
	SteamLink    string
	IDs          []int64
	BuyPrice     decimal.Decimal
	TotalValue   decimal.Decimal
	PurchaseDate time.Time
	Quantity     int
}

// SaleGroup collapses sale records sharing (name, buy price, sell price).
// SaleDate is the most recent sale date among members, so a repeated item
// shows its latest transaction.
type SaleGroup struct {
	Name         string
	Type         string
	SteamLink    string
	IDs          []string
	BuyPrice     decimal.Decimal
	SellPrice    decimal.Decimal
	TotalProfit  decimal.Decimal
	PurchaseDate time.Time
	SaleDate     time.Time
	Quantity     int
}

// GroupItems buckets items by (name, buy price), preserving first-occurrence
// order and the first-seen values of all representative fields.
func GroupItems(items []Item) []ItemGroup {
	index := make(map[string]int)
	groups := make([]ItemGroup, 0, len(items))

	for _, it := range items {
		key := it.Name + "|" + it.BuyPrice.String()
		if i, ok := index[key]; ok {
			g := &groups[i]
			g.IDs = append(g.IDs, it.ID)
			g.Quantity++
			g.TotalValue = g.TotalValue.Add(it.BuyPrice)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, ItemGroup{
			IDs:          []int64{it.ID},
			Name:         it.Name,
			Type:         it.Type,
			BuyPrice:     it.BuyPrice,
			PurchaseDate: it.PurchaseDate,
			SteamLink:    it.SteamLink,
			Quantity:     1,
			TotalValue:   it.BuyPrice,
		})
	}

	return groups
}

// GroupSales buckets sale records by (name, buy price, sell price). Callers
// wanting newest-first groups pass the records already reversed; within a
// group the sale date is bumped to the latest member's.
func GroupSales(records []SaleRecord) []SaleGroup {
	index := make(map[string]int)
	groups := make([]SaleGroup, 0, len(records))

	for _, r := range records {
		key := r.Name + "|" + r.BuyPrice.String() + "|" + r.SellPrice.String()
		if i, ok := index[key]; ok {
			g := &groups[i]
			g.IDs = append(g.IDs, r.ID)
			g.Quantity++
			g.TotalProfit = g.TotalProfit.Add(r.Profit())
			if r.SaleDate.After(g.SaleDate) {
				g.SaleDate = r.SaleDate
			}
			continue
		}
		index[key] = len(groups)
		groups = append(groups, SaleGroup{
			IDs:          []string{r.ID},
			Name:         r.Name,
			Type:         r.Type,
			BuyPrice:     r.BuyPrice,
			SellPrice:    r.SellPrice,
			PurchaseDate: r.PurchaseDate,
			SaleDate:     r.SaleDate,
			SteamLink:    r.SteamLink,
			Quantity:     1,
			TotalProfit:  r.Profit(),
		})
	}

	return groups
}

// Reversed returns a copy of records in reverse order (newest-first for an
// append-only log).
func Reversed(records []SaleRecord) []SaleRecord {
	out := make([]SaleRecord, len(records))
	for i, r := range records {
		out[len(records)-1-i] = r
	}
	return out
}
