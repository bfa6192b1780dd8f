package ledger

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-stock-service/internal/apperror"
	"github.com/fekuna/omnipos-stock-service/internal/catalog"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/shopspring/decimal"
)

// Env carries what a strategy needs besides the row itself.
type Env struct {
	Rows      Repository
	Catalog   catalog.Reader
	Inventory *model.Inventory
	// Reserved tracks quantity already promised to earlier lines of the same
	// validation pass, keyed by StockKey.Key(). Nil outside validation.
	Reserved map[string]decimal.Decimal
}

// Line is a quantity of one (item, color) requested against an inventory.
type Line struct {
	Item     model.ItemRef
	ColorID  *string
	Quantity decimal.Decimal
}

func (l Line) Key() string {
	return model.LineKey(l.Item, l.ColorID)
}

// Strategy mutates ledger rows for one item type.
type Strategy interface {
	// HandleOutgoing debits qty from row and returns the part of qty that was
	// covered by exploding the bill of materials instead.
	HandleOutgoing(ctx context.Context, env Env, row *model.InventoryItem, qty decimal.Decimal) (decimal.Decimal, error)
	HandleIncoming(ctx context.Context, env Env, row *model.InventoryItem, qty decimal.Decimal) error
	// ReverseOutgoing undoes HandleOutgoing given the exploded part it returned.
	ReverseOutgoing(ctx context.Context, env Env, row *model.InventoryItem, qty, exploded decimal.Decimal) error
	ReverseIncoming(ctx context.Context, env Env, row *model.InventoryItem, qty decimal.Decimal) error
	ValidateOutgoing(ctx context.Context, env Env, line Line) error
	ValidateReverseIncoming(ctx context.Context, env Env, line Line) error
}

var strategies = map[model.ItemType]Strategy{
	model.ItemTypeRawMaterial: DefaultStrategy{},
	model.ItemTypeProductPart: DefaultStrategy{},
	model.ItemTypeProduct:     CompositeStrategy{},
}

// StrategyFor maps an item type to its strategy.
func StrategyFor(t model.ItemType) (Strategy, error) {
	s, ok := strategies[t]
	if !ok {
		return nil, apperror.Validation("item_type", "invalid_item_type",
			fmt.Sprintf("invalid item type %q", t), map[string]any{"Type": string(t)})
	}
	return s, nil
}

func adjust(ctx context.Context, env Env, row *model.InventoryItem, delta decimal.Decimal) error {
	qty := row.Quantity.Add(delta)
	if err := env.Rows.SetQuantity(ctx, row.ID, qty); err != nil {
		return err
	}
	row.Quantity = qty
	return nil
}

// available returns what key can still give in this validation pass.
func available(ctx context.Context, env Env, key model.StockKey) (decimal.Decimal, error) {
	row, err := env.Rows.Find(ctx, key)
	if err != nil {
		return decimal.Zero, err
	}
	qty := decimal.Zero
	if row != nil {
		qty = row.Quantity
	}
	if env.Reserved != nil {
		qty = qty.Sub(env.Reserved[key.Key()])
	}
	return qty, nil
}

func reserve(env Env, key model.StockKey, qty decimal.Decimal) {
	if env.Reserved != nil {
		env.Reserved[key.Key()] = env.Reserved[key.Key()].Add(qty)
	}
}

// validateDirect checks that key alone covers qty.
func validateDirect(ctx context.Context, env Env, line Line) error {
	key := model.StockKey{InventoryID: env.Inventory.ID, Item: line.Item, ColorID: line.ColorID}
	avail, err := available(ctx, env, key)
	if err != nil {
		return err
	}
	if avail.LessThan(line.Quantity) {
		return shortage(ctx, env, line.Item, line.ColorID, line.Quantity, avail, false)
	}
	reserve(env, key, line.Quantity)
	return nil
}

func shortage(ctx context.Context, env Env, item model.ItemRef, colorID *string, requested, avail decimal.Decimal, component bool) error {
	d := apperror.ShortageDetail{
		ItemType:  string(item.Type),
		ItemID:    item.ID,
		ItemName:  item.ID,
		ColorID:   colorID,
		Requested: requested,
		Available: decimal.Max(avail, decimal.Zero),
		Component: component,
	}
	if found, err := env.Catalog.FindItem(ctx, item); err == nil && found != nil {
		d.ItemName = found.Name
	}
	if colorID != nil {
		d.ColorName = *colorID
		if c, err := env.Catalog.FindColor(ctx, *colorID); err == nil && c != nil {
			d.ColorName = c.Name
		}
	}
	return apperror.Shortage(d)
}
