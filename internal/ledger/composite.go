package ledger

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-stock-service/internal/apperror"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/shopspring/decimal"
)

// CompositeStrategy moves products. Inside an assembler inventory a shortfall
// of finished products is covered by consuming one level of their bill of
// materials; anywhere else it behaves like DefaultStrategy.
type CompositeStrategy struct{}

func explodes(env Env) bool {
	return env.Inventory != nil && env.Inventory.Type == model.InventoryTypeAssembler
}

func (s CompositeStrategy) HandleOutgoing(ctx context.Context, env Env, row *model.InventoryItem, qty decimal.Decimal) (decimal.Decimal, error) {
	if !explodes(env) || row.Quantity.GreaterThanOrEqual(qty) {
		return decimal.Zero, adjust(ctx, env, row, qty.Neg())
	}

	direct := decimal.Max(row.Quantity, decimal.Zero)
	shortfall := qty.Sub(direct)

	if direct.IsPositive() {
		if err := adjust(ctx, env, row, direct.Neg()); err != nil {
			return decimal.Zero, err
		}
	}

	err := s.eachComponent(ctx, env, row.Ref(), row.ColorID, shortfall, func(key model.StockKey, need decimal.Decimal) error {
		sub, err := env.Rows.Acquire(ctx, key)
		if err != nil {
			return err
		}
		return adjust(ctx, env, sub, need.Neg())
	})
	if err != nil {
		return decimal.Zero, err
	}
	return shortfall, nil
}

func (CompositeStrategy) HandleIncoming(ctx context.Context, env Env, row *model.InventoryItem, qty decimal.Decimal) error {
	return adjust(ctx, env, row, qty)
}

func (s CompositeStrategy) ReverseOutgoing(ctx context.Context, env Env, row *model.InventoryItem, qty, exploded decimal.Decimal) error {
	if !explodes(env) || !exploded.IsPositive() {
		return adjust(ctx, env, row, qty)
	}

	if direct := qty.Sub(exploded); direct.IsPositive() {
		if err := adjust(ctx, env, row, direct); err != nil {
			return err
		}
	}

	return s.eachComponent(ctx, env, row.Ref(), row.ColorID, exploded, func(key model.StockKey, need decimal.Decimal) error {
		sub, err := env.Rows.Acquire(ctx, key)
		if err != nil {
			return err
		}
		return adjust(ctx, env, sub, need)
	})
}

func (CompositeStrategy) ReverseIncoming(ctx context.Context, env Env, row *model.InventoryItem, qty decimal.Decimal) error {
	return adjust(ctx, env, row, qty.Neg())
}

func (s CompositeStrategy) ValidateOutgoing(ctx context.Context, env Env, line Line) error {
	if !explodes(env) {
		return validateDirect(ctx, env, line)
	}

	key := model.StockKey{InventoryID: env.Inventory.ID, Item: line.Item, ColorID: line.ColorID}
	avail, err := available(ctx, env, key)
	if err != nil {
		return err
	}
	if avail.GreaterThanOrEqual(line.Quantity) {
		reserve(env, key, line.Quantity)
		return nil
	}

	item, err := env.Catalog.FindItem(ctx, line.Item)
	if err != nil {
		return err
	}
	if item == nil || len(item.Requirements) == 0 {
		return shortage(ctx, env, line.Item, line.ColorID, line.Quantity, avail, false)
	}

	direct := decimal.Max(avail, decimal.Zero)
	shortfall := line.Quantity.Sub(direct)

	err = s.eachComponent(ctx, env, line.Item, line.ColorID, shortfall, func(sub model.StockKey, need decimal.Decimal) error {
		subAvail, err := available(ctx, env, sub)
		if err != nil {
			return err
		}
		if subAvail.LessThan(need) {
			return shortage(ctx, env, sub.Item, sub.ColorID, need, subAvail, true)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Reserve only once every component passed.
	reserve(env, key, direct)
	return s.eachComponent(ctx, env, line.Item, line.ColorID, shortfall, func(sub model.StockKey, need decimal.Decimal) error {
		reserve(env, sub, need)
		return nil
	})
}

func (CompositeStrategy) ValidateReverseIncoming(ctx context.Context, env Env, line Line) error {
	return validateDirect(ctx, env, line)
}

// eachComponent visits the BOM rows that cover qty units of product. Colored
// components inherit the product's color; raw materials are uncolored.
func (CompositeStrategy) eachComponent(ctx context.Context, env Env, product model.ItemRef, colorID *string, qty decimal.Decimal, fn func(model.StockKey, decimal.Decimal) error) error {
	item, err := env.Catalog.FindItem(ctx, product)
	if err != nil {
		return err
	}
	if item == nil {
		return apperror.Validation("item_id", "item_not_found",
			fmt.Sprintf("%s %s not found", product.Type, product.ID), map[string]any{"Item": product.ID})
	}

	for _, req := range item.Requirements {
		var color *string
		if req.Item.Type == model.ItemTypeProductPart || req.Item.Type == model.ItemTypeProduct {
			color = colorID
		}
		key := model.StockKey{InventoryID: env.Inventory.ID, Item: req.Item, ColorID: color}
		if err := fn(key, req.QuantityPerUnit.Mul(qty)); err != nil {
			return err
		}
	}
	return nil
}
