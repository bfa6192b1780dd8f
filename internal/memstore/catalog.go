package memstore

import (
	"context"

	"github.com/fekuna/omnipos-stock-service/internal/model"
)

type CatalogRepo struct{ s *Store }

func (r *CatalogRepo) FindItem(ctx context.Context, ref model.ItemRef) (*model.CatalogItem, error) {
	defer r.s.guard(ctx)()

	item, ok := r.s.state.items[ref.String()]
	if !ok {
		return nil, nil
	}
	item.Requirements = append([]model.Requirement(nil), item.Requirements...)
	return &item, nil
}

func (r *CatalogRepo) FindColor(ctx context.Context, id string) (*model.Color, error) {
	defer r.s.guard(ctx)()

	c, ok := r.s.state.colors[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// PutItem registers or replaces a catalog item.
func (r *CatalogRepo) PutItem(item model.CatalogItem) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.state.items[item.Ref.String()] = item
}

func (r *CatalogRepo) PutColor(c model.Color) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.state.colors[c.ID] = c
}

type UserRepo struct{ s *Store }

func (r *UserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	defer r.s.guard(ctx)()

	u, ok := r.s.state.users[id]
	if !ok {
		return nil, nil
	}
	u.Roles = append([]model.Role(nil), u.Roles...)
	return &u, nil
}

func (r *UserRepo) HasRole(ctx context.Context, id string, role model.Role) (bool, error) {
	defer r.s.guard(ctx)()

	u, ok := r.s.state.users[id]
	return ok && u.HasRole(role), nil
}

func (r *UserRepo) Put(u model.User) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.state.users[u.ID] = u
}
