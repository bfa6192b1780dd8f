package inventorycount

import (
	"context"

	"github.com/fekuna/omnipos-stock-service/internal/inventorycount/dto"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/shopspring/decimal"
)

type UseCase interface {
	Start(ctx context.Context, input *dto.StartCountInput) (*model.InventoryCount, error)
	RecordCount(ctx context.Context, input *dto.RecordCountInput) (*model.InventoryCountItem, error)
	Finalize(ctx context.Context, input *dto.FinalizeCountInput) (*model.InventoryCount, error)
	Get(ctx context.Context, id string) (*model.InventoryCount, error)
	ListItems(ctx context.Context, id string) ([]model.InventoryCountItem, error)
	Delete(ctx context.Context, id, actorID string) error

	// Reconcile opens a count on inv with the given lines already counted and
	// finalizes it with ledger adjustment, all in the caller's transaction.
	Reconcile(ctx context.Context, inv *model.Inventory, actorID string, notes string, lines []Adjustment) (*model.InventoryCount, error)
}

// Adjustment moves the counted quantity of one ledger row by Delta from its current value.
type Adjustment struct {
	Item    model.ItemRef
	ColorID *string
	Delta   decimal.Decimal
}
