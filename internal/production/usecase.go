package production

import (
	"context"

	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/fekuna/omnipos-stock-service/internal/production/dto"
)

type UseCase interface {
	Create(ctx context.Context, input *dto.CreateProductionInput) (*model.Production, error)
	Get(ctx context.Context, id string) (*model.Production, error)
	// Approve marks the production approved and generates the stage's auto-transfer.
	Approve(ctx context.Context, id, approverID string) (*dto.ApprovalResult, error)
}
