package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Profit filter values for sale listings.
const (
	ProfitAny      = ""
	ProfitPositive = "positive"
	ProfitNegative = "negative"
)

// Filter narrows inventory or history listings. Zero values mean "no
// constraint". Price bounds apply to the buy price, date bounds to the
// purchase date for items and the sale date for sales.
type Filter struct {
	StartDate time.Time
	EndDate   time.Time
	Search    string
	Type      string
	Profit    string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
}

// ViewState carries the explicit filter/pagination state of one listing
// render. PageSize 0 means "all".
type ViewState struct {
	Filter   Filter
	Page     int
	PageSize int
}

// MatchItem reports whether an inventory item passes the filter.
func (f Filter) MatchItem(it Item) bool {
	if !f.matchText(it.Name, it.Type) {
		return false
	}
	if !f.matchPrice(it.BuyPrice) {
		return false
	}
	return f.matchDates(it.PurchaseDate)
}

// MatchSale reports whether a sale record passes the filter.
func (f Filter) MatchSale(r SaleRecord) bool {
	if !f.matchText(r.Name, r.Type) {
		return false
	}
	if !f.matchPrice(r.BuyPrice) {
		return false
	}
	if !f.matchDates(r.SaleDate) {
		return false
	}
	switch f.Profit {
	case ProfitPositive:
		return !r.Profit().IsNegative()
	case ProfitNegative:
		return r.Profit().IsNegative()
	}
	return true
}

func (f Filter) matchText(name, typ string) bool {
	if f.Search != "" {
		s := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(name), s) &&
			!strings.Contains(strings.ToLower(typ), s) {
			return false
		}
	}
	return f.Type == "" || typ == f.Type
}

func (f Filter) matchPrice(buy decimal.Decimal) bool {
	if f.MinPrice != nil && buy.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && buy.GreaterThan(*f.MaxPrice) {
		return false
	}
	return true
}

// Date bounds only constrain records that carry the date, matching the
// original page behavior of letting undated rows through.
func (f Filter) matchDates(date time.Time) bool {
	if date.IsZero() {
		return true
	}
	if !f.StartDate.IsZero() && date.Before(f.StartDate) {
		return false
	}
	if !f.EndDate.IsZero() && date.After(f.EndDate) {
		return false
	}
	return true
}

// FilterItems applies the filter to an inventory listing.
func (f Filter) FilterItems(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if f.MatchItem(it) {
			out = append(out, it)
		}
	}
	return out
}

// FilterSales applies the filter to a history listing.
func (f Filter) FilterSales(records []SaleRecord) []SaleRecord {
	out := make([]SaleRecord, 0, len(records))
	for _, r := range records {
		if f.MatchSale(r) {
			out = append(out, r)
		}
	}
	return out
}

// Bounds returns the half-open [start, end) slice bounds of the current page
// over total rows.
func (v ViewState) Bounds(total int) (int, int) {
	if v.PageSize <= 0 {
		return 0, total
	}
	page := v.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * v.PageSize
	if start >= total {
		return total, total
	}
	end := start + v.PageSize
	if end > total {
		end = total
	}
	return start, end
}
