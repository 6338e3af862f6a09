// Package analytics derives financial metrics from the raw inventory and
// sales records. All accumulation runs at full decimal precision; rounding
// to two places happens only when values are rendered.
package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/hcsdev/hcs-manager/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Snapshot holds every derived metric for one point in time.
//
// Balance is a conservative net cash position: unsold inventory counts as
// sunk cost, not as an asset at market value. ROI divides realized profit
// by all capital ever committed, sold and held alike.
type Snapshot struct {
	ProfitByType    map[string]decimal.Decimal
	InventoryByType map[string]int
	SalesByMonth    map[string]decimal.Decimal
	InventoryValue  decimal.Decimal
	Revenue         decimal.Decimal
	InvestedInSold  decimal.Decimal
	Profit          decimal.Decimal
	TotalInvested   decimal.Decimal
	Balance         decimal.Decimal
	ROI             decimal.Decimal
	AvgProfitMargin decimal.Decimal
	InventoryCount  int
	SalesCount      int
}

// Compute builds a snapshot from the current contents of both stores.
// Empty inputs yield all-zero metrics; every ratio is zero-guarded.
func Compute(inventory []model.Item, history []model.SaleRecord) *Snapshot {
	s := &Snapshot{
		ProfitByType:    make(map[string]decimal.Decimal),
		InventoryByType: make(map[string]int),
		SalesByMonth:    make(map[string]decimal.Decimal),
		InventoryValue:  decimal.Zero,
		Revenue:         decimal.Zero,
		InvestedInSold:  decimal.Zero,
		InventoryCount:  len(inventory),
		SalesCount:      len(history),
	}

	for _, item := range inventory {
		s.InventoryValue = s.InventoryValue.Add(item.BuyPrice)
		s.InventoryByType[item.Type]++
	}

	for _, record := range history {
		s.Revenue = s.Revenue.Add(record.SellPrice)
		s.InvestedInSold = s.InvestedInSold.Add(record.BuyPrice)

		profit := record.Profit()
		s.ProfitByType[record.Type] = s.ProfitByType[record.Type].Add(profit)
		if month := record.MonthKey(); month != "" {
			s.SalesByMonth[month] = s.SalesByMonth[month].Add(profit)
		}
	}

	s.Profit = s.Revenue.Sub(s.InvestedInSold)
	s.TotalInvested = s.InventoryValue.Add(s.InvestedInSold)
	s.Balance = s.Profit.Sub(s.InventoryValue)

	s.ROI = decimal.Zero
	if s.TotalInvested.IsPositive() {
		s.ROI = s.Profit.Div(s.TotalInvested).Mul(hundred)
	}
	s.AvgProfitMargin = decimal.Zero
	if s.Revenue.IsPositive() {
		s.AvgProfitMargin = s.Profit.Div(s.Revenue).Mul(hundred)
	}

	return s
}

// TopItems returns the n most profitable sales, ordered by profit
// descending. Equal-profit records keep their relative input order.
func TopItems(history []model.SaleRecord, n int) []model.SaleRecord {
	if n <= 0 {
		return nil
	}
	sorted := make([]model.SaleRecord, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Profit().GreaterThan(sorted[j].Profit())
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Months returns the snapshot's sale months in ascending order. The
// "YYYY-MM" keys sort correctly as strings.
func (s *Snapshot) Months() []string {
	months := make([]string, 0, len(s.SalesByMonth))
	for m := range s.SalesByMonth {
		months = append(months, m)
	}
	sort.Strings(months)
	return months
}

// Types returns every type seen across inventory and history, sorted.
func (s *Snapshot) Types() []string {
	seen := make(map[string]bool, len(s.ProfitByType)+len(s.InventoryByType))
	for t := range s.ProfitByType {
		seen[t] = true
	}
	for t := range s.InventoryByType {
		seen[t] = true
	}
	types := make([]string, 0, len(seen))
	for t := range seen {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
