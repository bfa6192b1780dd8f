package inventorycount

import (
	"context"

	"github.com/fekuna/omnipos-stock-service/internal/model"
)

type Repository interface {
	// Create inserts the count together with its pre-seeded items.
	Create(ctx context.Context, c *model.InventoryCount) error
	FindByID(ctx context.Context, id string) (*model.InventoryCount, error)
	FindByIDForUpdate(ctx context.Context, id string) (*model.InventoryCount, error)
	FindOpenByInventory(ctx context.Context, inventoryID string) (*model.InventoryCount, error)

	FindItem(ctx context.Context, countID string, item model.ItemRef, colorID *string) (*model.InventoryCountItem, error)
	// UpsertItem inserts or overwrites the line keyed by (count, item, color).
	UpsertItem(ctx context.Context, item *model.InventoryCountItem) error

	MarkFinalized(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
