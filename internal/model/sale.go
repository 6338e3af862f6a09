package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleRecord is one completed sale in the history log. Records are immutable
// once written; they only ever leave the log by deletion or restoration.
// Profit is never stored, always derived.
type SaleRecord struct {
	PurchaseDate time.Time
	SaleDate     time.Time
	ID           string
	Name         string
	Type         string
	SteamLink    string
	BuyPrice     decimal.Decimal
	SellPrice    decimal.Decimal
}

// Profit is the realized gain (or loss) of the sale.
func (r SaleRecord) Profit() decimal.Decimal {
	return r.SellPrice.Sub(r.BuyPrice)
}

// MonthKey buckets the sale into a YYYY-MM key, or "" when the sale date is
// unset.
func (r SaleRecord) MonthKey() string {
	if r.SaleDate.IsZero() {
		return ""
	}
	return r.SaleDate.Format("2006-01")
}

// NewSaleID returns a fresh time-ordered, collision-resistant identity for a
// sale record.
func NewSaleID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the entropy source does; fall back to v4.
		return uuid.NewString()
	}
	return id.String()
}

// saleJSON is the persisted shape of a SaleRecord. Keys match the history
// documents written by earlier releases so old exports import cleanly.
type saleJSON struct {
	ID           json.RawMessage `json:"id"`
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	BuyPrice     decimal.Decimal `json:"buy_price"`
	SellPrice    decimal.Decimal `json:"sell_price"`
	PurchaseDate string          `json:"purchase_date,omitempty"`
	SaleDate     string          `json:"sale_date,omitempty"`
	SteamLink    string          `json:"steam_link,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (r SaleRecord) MarshalJSON() ([]byte, error) {
	id, err := json.Marshal(r.ID)
	if err != nil {
		return nil, err
	}
	aux := saleJSON{
		ID:        id,
		Name:      r.Name,
		Type:      r.Type,
		BuyPrice:  r.BuyPrice,
		SellPrice: r.SellPrice,
		SteamLink: r.SteamLink,
	}
	if !r.PurchaseDate.IsZero() {
		aux.PurchaseDate = r.PurchaseDate.Format(DateFormat)
	}
	if !r.SaleDate.IsZero() {
		aux.SaleDate = r.SaleDate.Format(DateFormat)
	}
	return json.Marshal(aux)
}

// UnmarshalJSON implements json.Unmarshaler. Legacy records carry numeric
// ids (epoch millis plus a random fraction) and a stored profit field; the
// id is kept verbatim as a string and the profit is discarded.
func (r *SaleRecord) UnmarshalJSON(data []byte) error {
	var aux saleJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var id string
	if len(aux.ID) > 0 {
		if err := json.Unmarshal(aux.ID, &id); err != nil {
			// Not a JSON string: keep the raw token (legacy numeric id).
			id = string(aux.ID)
		}
	}

	purchase, err := ParseDate(aux.PurchaseDate)
	if err != nil {
		return fmt.Errorf("invalid purchase_date: %w", err)
	}
	sale, err := ParseDate(aux.SaleDate)
	if err != nil {
		return fmt.Errorf("invalid sale_date: %w", err)
	}

	r.ID = id
	r.Name = aux.Name
	r.Type = aux.Type
	r.BuyPrice = aux.BuyPrice
	r.SellPrice = aux.SellPrice
	r.PurchaseDate = purchase
	r.SaleDate = sale
	r.SteamLink = aux.SteamLink
	return nil
}
