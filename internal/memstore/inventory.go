package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/fekuna/omnipos-stock-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/google/uuid"
)

type InventoryRepo struct{ s *Store }

func (r *InventoryRepo) FindByID(ctx context.Context, id string) (*model.Inventory, error) {
	defer r.s.guard(ctx)()

	inv, ok := r.s.state.inventories[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (r *InventoryRepo) FindAll(ctx context.Context, f *dto.InventoryFilters) ([]model.Inventory, int, error) {
	defer r.s.guard(ctx)()

	out := []model.Inventory{}
	for _, inv := range r.s.state.inventories {
		if f.Type != nil && inv.Type != *f.Type {
			continue
		}
		if f.UserID != nil && (inv.UserID == nil || *inv.UserID != *f.UserID) {
			continue
		}
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Name < out[j].Name
	})
	return paginate(out, f.Page, f.PageSize), len(out), nil
}

func (r *InventoryRepo) LockByIDs(ctx context.Context, ids ...string) (map[string]*model.Inventory, error) {
	defer r.s.guard(ctx)()

	out := map[string]*model.Inventory{}
	for _, id := range ids {
		if inv, ok := r.s.state.inventories[id]; ok {
			out[id] = &inv
		}
	}
	return out, nil
}

func (r *InventoryRepo) GetOrCreateShared(ctx context.Context, t model.InventoryType) (*model.Inventory, error) {
	defer r.s.guard(ctx)()

	desc := "Shared inventory - " + t.Label()
	return r.getOrCreate(nil, t, t.Label(), &desc), nil
}

func (r *InventoryRepo) GetOrCreatePersonal(ctx context.Context, owner *model.User, t model.InventoryType) (*model.Inventory, error) {
	defer r.s.guard(ctx)()

	return r.getOrCreate(&owner.ID, t, owner.FullName(), nil), nil
}

func (r *InventoryRepo) getOrCreate(userID *string, t model.InventoryType, name string, desc *string) *model.Inventory {
	for _, inv := range r.s.state.inventories {
		if inv.Type == t && model.SameID(inv.UserID, userID) {
			return &inv
		}
	}

	now := time.Now()
	inv := model.Inventory{
		BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		UserID:      userID,
		Type:        t,
		Name:        name,
		Description: desc,
	}
	r.s.state.inventories[inv.ID] = inv
	return &inv
}

func (r *InventoryRepo) LockStatus(ctx context.Context, inventoryID, excludeTransferID string) (model.LockStatus, error) {
	defer r.s.guard(ctx)()

	var status model.LockStatus
	for _, c := range r.s.state.counts {
		if c.InventoryID == inventoryID && !c.IsLocked {
			status.HasOpenCount = true
			break
		}
	}
	for _, t := range r.s.state.transfers {
		if t.Status != model.TransferStatusPending || t.ID == excludeTransferID {
			continue
		}
		if refersTo(t.FromInventoryID, inventoryID) || refersTo(t.ToInventoryID, inventoryID) {
			status.HasPendingTransfers = true
			break
		}
	}
	return status, nil
}

func refersTo(id *string, inventoryID string) bool {
	return id != nil && *id == inventoryID
}

func paginate[T any](items []T, page, pageSize int) []T {
	if pageSize <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
