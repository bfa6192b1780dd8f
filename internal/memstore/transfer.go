package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/fekuna/omnipos-stock-service/internal/transfer/dto"
)

type TransferRepo struct{ s *Store }

func copyTransfer(t model.Transfer) *model.Transfer {
	t.Items = append([]model.TransferItem(nil), t.Items...)
	return &t
}

func (r *TransferRepo) Create(ctx context.Context, t *model.Transfer) error {
	defer r.s.guard(ctx)()

	r.s.state.transfers[t.ID] = *copyTransfer(*t)
	return nil
}

func (r *TransferRepo) FindByID(ctx context.Context, id string) (*model.Transfer, error) {
	defer r.s.guard(ctx)()

	t, ok := r.s.state.transfers[id]
	if !ok {
		return nil, nil
	}
	return copyTransfer(t), nil
}

func (r *TransferRepo) FindByIDForUpdate(ctx context.Context, id string) (*model.Transfer, error) {
	return r.FindByID(ctx, id)
}

func (r *TransferRepo) FindAll(ctx context.Context, f *dto.TransferFilters) ([]model.Transfer, int, error) {
	defer r.s.guard(ctx)()

	out := []model.Transfer{}
	for _, t := range r.s.state.transfers {
		if f.Status != nil && t.Status != *f.Status {
			continue
		}
		if f.InventoryID != nil && !refersTo(t.FromInventoryID, *f.InventoryID) && !refersTo(t.ToInventoryID, *f.InventoryID) {
			continue
		}
		if f.UserID != nil && !refersTo(t.FromUserID, *f.UserID) && !refersTo(t.ToUserID, *f.UserID) && !refersTo(t.CreatorUserID, *f.UserID) {
			continue
		}
		if f.DateFrom != nil && t.TransferDate.Before(*f.DateFrom) {
			continue
		}
		if f.DateTo != nil && t.TransferDate.After(*f.DateTo) {
			continue
		}
		out = append(out, *copyTransfer(t))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TransferDate.Equal(out[j].TransferDate) {
			return out[i].TransferDate.After(out[j].TransferDate)
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, f.Page, f.PageSize), len(out), nil
}

func (r *TransferRepo) Update(ctx context.Context, t *model.Transfer) error {
	defer r.s.guard(ctx)()

	cur, ok := r.s.state.transfers[t.ID]
	if !ok {
		return notFound("transfer", t.ID)
	}
	items := cur.Items
	cur = *t
	cur.Items = items
	cur.UpdatedAt = time.Now()
	r.s.state.transfers[t.ID] = cur
	return nil
}

func (r *TransferRepo) ReplaceItems(ctx context.Context, transferID string, items []model.TransferItem) error {
	defer r.s.guard(ctx)()

	cur, ok := r.s.state.transfers[transferID]
	if !ok {
		return notFound("transfer", transferID)
	}
	cur.Items = append([]model.TransferItem(nil), items...)
	r.s.state.transfers[transferID] = cur
	return nil
}

func (r *TransferRepo) UpdateItemsExploded(ctx context.Context, items []model.TransferItem) error {
	defer r.s.guard(ctx)()

	for _, it := range items {
		cur, ok := r.s.state.transfers[it.TransferID]
		if !ok {
			return notFound("transfer", it.TransferID)
		}
		for i := range cur.Items {
			if cur.Items[i].ID == it.ID {
				cur.Items[i].ExplodedQuantity = it.ExplodedQuantity
			}
		}
		r.s.state.transfers[it.TransferID] = cur
	}
	return nil
}

func (r *TransferRepo) Delete(ctx context.Context, id string) error {
	defer r.s.guard(ctx)()

	delete(r.s.state.transfers, id)
	return nil
}
