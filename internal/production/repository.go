package production

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-stock-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, p *model.Production) error
	FindByID(ctx context.Context, id string) (*model.Production, error)
	FindByIDForUpdate(ctx context.Context, id string) (*model.Production, error)
	MarkApproved(ctx context.Context, id, approverID string, at time.Time) error
}
