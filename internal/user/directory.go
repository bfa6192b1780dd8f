package user

import (
	"context"

	"github.com/fekuna/omnipos-stock-service/internal/model"
)

// Directory answers identity and role-membership queries. FindByID returns
// nil, nil for unknown ids.
type Directory interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	HasRole(ctx context.Context, id string, role model.Role) (bool, error)
}
