package ledger

import (
	"context"

	"github.com/fekuna/omnipos-stock-service/internal/catalog"
	"github.com/fekuna/omnipos-stock-service/internal/model"
)

// Mover applies or reverses whole transfers against the ledger. Callers hold
// FOR UPDATE locks on both inventories, which serializes row access.
type Mover struct {
	rows    Repository
	catalog catalog.Reader
}

func NewMover(rows Repository, catalog catalog.Reader) *Mover {
	return &Mover{rows: rows, catalog: catalog}
}

func (m *Mover) env(inv *model.Inventory) Env {
	return Env{Rows: m.rows, Catalog: m.catalog, Inventory: inv}
}

// Apply debits from and credits to for every item. It records on each item
// how much of the debit was covered by BOM explosion.
func (m *Mover) Apply(ctx context.Context, from, to *model.Inventory, items []model.TransferItem) error {
	for i := range items {
		item := &items[i]
		strategy, err := StrategyFor(item.ItemType)
		if err != nil {
			return err
		}

		if from != nil {
			row, err := m.rows.Acquire(ctx, model.StockKey{InventoryID: from.ID, Item: item.Ref(), ColorID: item.ColorID})
			if err != nil {
				return err
			}
			exploded, err := strategy.HandleOutgoing(ctx, m.env(from), row, item.Quantity)
			if err != nil {
				return err
			}
			item.ExplodedQuantity = exploded
		}

		if to != nil {
			row, err := m.rows.Acquire(ctx, model.StockKey{InventoryID: to.ID, Item: item.Ref(), ColorID: item.ColorID})
			if err != nil {
				return err
			}
			if err := strategy.HandleIncoming(ctx, m.env(to), row, item.Quantity); err != nil {
				return err
			}
		}
	}
	return nil
}

// Reverse undoes Apply for an approved transfer.
func (m *Mover) Reverse(ctx context.Context, from, to *model.Inventory, items []model.TransferItem) error {
	for i := range items {
		item := &items[i]
		strategy, err := StrategyFor(item.ItemType)
		if err != nil {
			return err
		}

		if from != nil {
			row, err := m.rows.Acquire(ctx, model.StockKey{InventoryID: from.ID, Item: item.Ref(), ColorID: item.ColorID})
			if err != nil {
				return err
			}
			if err := strategy.ReverseOutgoing(ctx, m.env(from), row, item.Quantity, item.ExplodedQuantity); err != nil {
				return err
			}
		}

		if to != nil {
			row, err := m.rows.Acquire(ctx, model.StockKey{InventoryID: to.ID, Item: item.Ref(), ColorID: item.ColorID})
			if err != nil {
				return err
			}
			if err := strategy.ReverseIncoming(ctx, m.env(to), row, item.Quantity); err != nil {
				return err
			}
		}
	}
	return nil
}
