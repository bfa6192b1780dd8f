package inventory

import (
	"context"

	"github.com/fekuna/omnipos-stock-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-stock-service/internal/model"
)

type UseCase interface {
	// Resolve maps a symbolic endpoint to a concrete inventory, provisioning it on first use.
	Resolve(ctx context.Context, side dto.Side, endpoint dto.Endpoint) (*model.Inventory, error)
	Shared(ctx context.Context, t model.InventoryType) (*model.Inventory, error)
	// Lock takes row locks on the given inventories; empty ids are skipped.
	Lock(ctx context.Context, ids ...string) (map[string]*model.Inventory, error)

	GetInventory(ctx context.Context, id string) (*dto.InventoryView, error)
	ListInventories(ctx context.Context, filters *dto.InventoryFilters) ([]model.Inventory, int, error)
	ListItems(ctx context.Context, id string) ([]model.InventoryItem, error)
}
