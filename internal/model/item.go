// Package model defines the domain records of the tracker: inventory items,
// sale records, and the derived display groups built from them.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item categories. Custom category strings are allowed anywhere a type is
// stored; these are the ones the UI offers.
const (
	TypeKnife   = "Knife"
	TypeSkin    = "Skin"
	TypeCase    = "Case"
	TypeGloves  = "Gloves"
	TypeAgent   = "Agent"
	TypeSticker = "Sticker"
	TypeOther   = "Other"
)

// DateFormat is the calendar-date layout used in storage and on the wire.
const DateFormat = "2006-01-02"

// Item is one physical unit held in inventory. Quantity is never stored;
// visual quantity is derived by grouping identical items.
type Item struct {
	PurchaseDate time.Time
	Name         string
	Type         string
	SteamLink    string
	BuyPrice     decimal.Decimal
	SellPrice    decimal.Decimal
	ID           int64
}

// HasPurchaseDate reports whether a purchase date was recorded.
func (i Item) HasPurchaseDate() bool {
	return !i.PurchaseDate.IsZero()
}

// FormatDate renders a calendar date, or "N/A" when unset.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format(DateFormat)
}

// ParseDate parses a stored calendar date. Empty input yields the zero time.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(DateFormat, s)
}
