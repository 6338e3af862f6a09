// Package service defines the interfaces between the engines and their
// collaborators.
package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/hcsdev/hcs-manager/internal/model"
)

// InventoryStore is the Record Store contract: the durable home of unsold
// items.
type InventoryStore interface {
	InsertItems(ctx context.Context, items []model.Item) error
	GetItem(ctx context.Context, id int64) (*model.Item, error)
	ListItems(ctx context.Context) ([]model.Item, error)
	DeleteItems(ctx context.Context, ids []int64) (int, error)
	CountItems(ctx context.Context) (int, error)

	// Serialize and Deserialize move the whole store as raw bytes for
	// backup export/import.
	Serialize(ctx context.Context) ([]byte, error)
	Deserialize(ctx context.Context, data []byte) error

	Migrate(ctx context.Context) error
	Close() error
}

// SaleLog is the History Log contract: an append-only list of completed
// sales held in a single named slot, written read-modify-write.
type SaleLog interface {
	All() ([]model.SaleRecord, error)
	Append(records ...model.SaleRecord) error
	Remove(ids []string) (int, error)
	Replace(records []model.SaleRecord) error
	Clear() error
}

// Quote is the market data returned for a listed item.
type Quote struct {
	Name        string
	ImageURL    string
	Volume      string
	LowestPrice decimal.Decimal
	MedianPrice decimal.Decimal
}

// PriceSource looks up current market data for a listing link. Lookups are
// cancellable and never touch the stores.
type PriceSource interface {
	Lookup(ctx context.Context, listingURL string) (*Quote, error)
}
