package transfer

import (
	"context"

	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/fekuna/omnipos-stock-service/internal/transfer/dto"
)

type UseCase interface {
	Create(ctx context.Context, input *dto.CreateTransferInput) (*model.Transfer, error)
	Approve(ctx context.Context, id, actorID string) (*model.Transfer, error)
	Reject(ctx context.Context, id, actorID string) (*model.Transfer, error)
	Update(ctx context.Context, input *dto.UpdateTransferInput) (*model.Transfer, error)
	Delete(ctx context.Context, id, actorID string) error

	Get(ctx context.Context, id string) (*model.Transfer, error)
	List(ctx context.Context, filters *dto.TransferFilters) ([]model.Transfer, int, error)

	// CreateApproved records and applies a system transfer in the caller's transaction.
	CreateApproved(ctx context.Context, input *dto.SystemTransferInput) (*model.Transfer, error)
}
