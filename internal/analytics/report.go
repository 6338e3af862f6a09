package analytics

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/hcsdev/hcs-manager/internal/model"
)

// reportTopN is how many top sales the CSV report includes.
const reportTopN = 10

// WriteCSV renders the snapshot as a CSV report: headline metrics, then the
// per-type and per-month breakdowns, then the most profitable sales. Map
// sections are emitted in sorted key order so repeated exports of the same
// data are identical.
func WriteCSV(w io.Writer, s *Snapshot, history []model.SaleRecord) error {
	cw := csv.NewWriter(w)

	rows := [][]string{
		{"Metric", "Value"},
		{"Balance", s.Balance.StringFixed(2)},
		{"Inventory Value", s.InventoryValue.StringFixed(2)},
		{"Inventory Count", fmt.Sprintf("%d", s.InventoryCount)},
		{"Revenue", s.Revenue.StringFixed(2)},
		{"Invested In Sold", s.InvestedInSold.StringFixed(2)},
		{"Profit", s.Profit.StringFixed(2)},
		{"Total Invested", s.TotalInvested.StringFixed(2)},
		{"ROI %", s.ROI.StringFixed(2)},
		{"Avg Profit Margin %", s.AvgProfitMargin.StringFixed(2)},
		{},
		{"Type", "Profit", "In Inventory"},
	}
	for _, typ := range s.Types() {
		rows = append(rows, []string{
			typ,
			s.ProfitByType[typ].StringFixed(2),
			fmt.Sprintf("%d", s.InventoryByType[typ]),
		})
	}

	rows = append(rows, []string{}, []string{"Month", "Profit"})
	for _, month := range s.Months() {
		rows = append(rows, []string{month, s.SalesByMonth[month].StringFixed(2)})
	}

	rows = append(rows, []string{},
		[]string{"Item", "Buy Price", "Sell Price", "Profit", "Sale Date"})
	for _, r := range TopItems(history, reportTopN) {
		rows = append(rows, []string{
			r.Name,
			r.BuyPrice.StringFixed(2),
			r.SellPrice.StringFixed(2),
			r.Profit().StringFixed(2),
			model.FormatDate(r.SaleDate),
		})
	}

	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write report row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
