package ledger

import (
	"context"

	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/shopspring/decimal"
)

// Repository stores ledger rows. All methods join the transaction bound to ctx.
type Repository interface {
	// Find returns the row for key, or nil, nil.
	Find(ctx context.Context, key model.StockKey) (*model.InventoryItem, error)
	// Acquire returns the row for key, creating it at zero, and locks it for the
	// rest of the transaction.
	Acquire(ctx context.Context, key model.StockKey) (*model.InventoryItem, error)
	SetQuantity(ctx context.Context, id string, qty decimal.Decimal) error
	ListByInventory(ctx context.Context, inventoryID string) ([]model.InventoryItem, error)
}
