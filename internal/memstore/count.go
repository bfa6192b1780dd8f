package memstore

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-stock-service/internal/apperror"
	"github.com/fekuna/omnipos-stock-service/internal/model"
)

type CountRepo struct{ s *Store }

func copyCount(c model.InventoryCount) *model.InventoryCount {
	c.Items = append([]model.InventoryCountItem(nil), c.Items...)
	return &c
}

func (r *CountRepo) Create(ctx context.Context, c *model.InventoryCount) error {
	defer r.s.guard(ctx)()

	if !c.IsLocked {
		for _, open := range r.s.state.counts {
			if open.InventoryID == c.InventoryID && !open.IsLocked {
				return apperror.State("count_already_open", "inventory already has an open count",
					map[string]any{"Inventory": c.InventoryID})
			}
		}
	}
	r.s.state.counts[c.ID] = *copyCount(*c)
	return nil
}

func (r *CountRepo) FindByID(ctx context.Context, id string) (*model.InventoryCount, error) {
	defer r.s.guard(ctx)()

	c, ok := r.s.state.counts[id]
	if !ok {
		return nil, nil
	}
	return copyCount(c), nil
}

func (r *CountRepo) FindByIDForUpdate(ctx context.Context, id string) (*model.InventoryCount, error) {
	return r.FindByID(ctx, id)
}

func (r *CountRepo) FindOpenByInventory(ctx context.Context, inventoryID string) (*model.InventoryCount, error) {
	defer r.s.guard(ctx)()

	for _, c := range r.s.state.counts {
		if c.InventoryID == inventoryID && !c.IsLocked {
			return copyCount(c), nil
		}
	}
	return nil, nil
}

func (r *CountRepo) FindItem(ctx context.Context, countID string, item model.ItemRef, colorID *string) (*model.InventoryCountItem, error) {
	defer r.s.guard(ctx)()

	c, ok := r.s.state.counts[countID]
	if !ok {
		return nil, nil
	}
	for _, it := range c.Items {
		if it.Ref() == item && model.SameID(it.ColorID, colorID) {
			return &it, nil
		}
	}
	return nil, nil
}

func (r *CountRepo) UpsertItem(ctx context.Context, item *model.InventoryCountItem) error {
	defer r.s.guard(ctx)()

	c, ok := r.s.state.counts[item.InventoryCountID]
	if !ok {
		return notFound("inventory count", item.InventoryCountID)
	}
	for i, it := range c.Items {
		if it.Ref() == item.Ref() && model.SameID(it.ColorID, item.ColorID) {
			updated := *item
			updated.ID = it.ID
			updated.CreatedAt = it.CreatedAt
			c.Items[i] = updated
			item.ID = it.ID
			r.s.state.counts[c.ID] = c
			return nil
		}
	}
	c.Items = append(c.Items, *item)
	r.s.state.counts[c.ID] = c
	return nil
}

func (r *CountRepo) MarkFinalized(ctx context.Context, id string) error {
	defer r.s.guard(ctx)()

	c, ok := r.s.state.counts[id]
	if !ok {
		return notFound("inventory count", id)
	}
	c.IsLocked = true
	c.UpdatedAt = time.Now()
	r.s.state.counts[id] = c
	return nil
}

func (r *CountRepo) Delete(ctx context.Context, id string) error {
	defer r.s.guard(ctx)()

	delete(r.s.state.counts, id)
	return nil
}
