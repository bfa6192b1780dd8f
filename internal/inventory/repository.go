package inventory

import (
	"context"

	"github.com/fekuna/omnipos-stock-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-stock-service/internal/model"
)

type Repository interface {
	FindByID(ctx context.Context, id string) (*model.Inventory, error)
	FindAll(ctx context.Context, filters *dto.InventoryFilters) ([]model.Inventory, int, error)

	// LockByIDs takes FOR UPDATE locks in ascending id order and returns the rows by id.
	LockByIDs(ctx context.Context, ids ...string) (map[string]*model.Inventory, error)

	// Get-or-create, safe under concurrent first use.
	GetOrCreateShared(ctx context.Context, t model.InventoryType) (*model.Inventory, error)
	GetOrCreatePersonal(ctx context.Context, owner *model.User, t model.InventoryType) (*model.Inventory, error)

	LockStatus(ctx context.Context, inventoryID, excludeTransferID string) (model.LockStatus, error)
}
