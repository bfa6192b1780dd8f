package memstore

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-stock-service/internal/model"
)

type ProductionRepo struct{ s *Store }

func (r *ProductionRepo) Create(ctx context.Context, p *model.Production) error {
	defer r.s.guard(ctx)()

	r.s.state.productions[p.ID] = *p
	return nil
}

func (r *ProductionRepo) FindByID(ctx context.Context, id string) (*model.Production, error) {
	defer r.s.guard(ctx)()

	p, ok := r.s.state.productions[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductionRepo) FindByIDForUpdate(ctx context.Context, id string) (*model.Production, error) {
	return r.FindByID(ctx, id)
}

func (r *ProductionRepo) MarkApproved(ctx context.Context, id, approverID string, at time.Time) error {
	defer r.s.guard(ctx)()

	p, ok := r.s.state.productions[id]
	if !ok {
		return notFound("production", id)
	}
	p.ApprovedBy = &approverID
	p.ApprovedAt = &at
	p.UpdatedAt = at
	r.s.state.productions[id] = p
	return nil
}
