package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LedgerRepo struct{ s *Store }

func (r *LedgerRepo) find(key model.StockKey) (model.InventoryItem, bool) {
	for _, row := range r.s.state.rows {
		if row.InventoryID == key.InventoryID && row.Ref() == key.Item && model.SameID(row.ColorID, key.ColorID) {
			return row, true
		}
	}
	return model.InventoryItem{}, false
}

func (r *LedgerRepo) Find(ctx context.Context, key model.StockKey) (*model.InventoryItem, error) {
	defer r.s.guard(ctx)()

	row, ok := r.find(key)
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (r *LedgerRepo) Acquire(ctx context.Context, key model.StockKey) (*model.InventoryItem, error) {
	defer r.s.guard(ctx)()

	if row, ok := r.find(key); ok {
		return &row, nil
	}

	now := time.Now()
	row := model.InventoryItem{
		BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		InventoryID: key.InventoryID,
		ItemType:    key.Item.Type,
		ItemID:      key.Item.ID,
		ColorID:     key.ColorID,
		Quantity:    decimal.Zero,
	}
	r.s.state.rows[row.ID] = row
	return &row, nil
}

func (r *LedgerRepo) SetQuantity(ctx context.Context, id string, qty decimal.Decimal) error {
	defer r.s.guard(ctx)()

	row, ok := r.s.state.rows[id]
	if !ok {
		return notFound("ledger row", id)
	}
	row.Quantity = qty
	row.UpdatedAt = time.Now()
	r.s.state.rows[id] = row
	return nil
}

func (r *LedgerRepo) ListByInventory(ctx context.Context, inventoryID string) ([]model.InventoryItem, error) {
	defer r.s.guard(ctx)()

	out := []model.InventoryItem{}
	for _, row := range r.s.state.rows {
		if row.InventoryID == inventoryID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key().Key() < out[j].Key().Key()
	})
	return out, nil
}

// Seed sets the quantity of a ledger row directly, creating it when missing.
func (r *LedgerRepo) Seed(key model.StockKey, qty decimal.Decimal) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ctx := context.WithValue(context.Background(), txKey{}, r.s)
	row, _ := r.Acquire(ctx, key)
	_ = r.SetQuantity(ctx, row.ID, qty)
}

// Quantity reads a row quantity, zero when the row does not exist.
func (r *LedgerRepo) Quantity(key model.StockKey) decimal.Decimal {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if row, ok := r.find(key); ok {
		return row.Quantity
	}
	return decimal.Zero
}
