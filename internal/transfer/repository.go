package transfer

import (
	"context"

	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/fekuna/omnipos-stock-service/internal/transfer/dto"
)

type Repository interface {
	// Create inserts the transfer together with its items.
	Create(ctx context.Context, t *model.Transfer) error
	// FindByID loads the transfer with items, or nil, nil.
	FindByID(ctx context.Context, id string) (*model.Transfer, error)
	// FindByIDForUpdate is FindByID plus a row lock on the transfer.
	FindByIDForUpdate(ctx context.Context, id string) (*model.Transfer, error)
	FindAll(ctx context.Context, filters *dto.TransferFilters) ([]model.Transfer, int, error)

	// Update writes the header fields (status, approval, date, description).
	Update(ctx context.Context, t *model.Transfer) error
	ReplaceItems(ctx context.Context, transferID string, items []model.TransferItem) error
	UpdateItemsExploded(ctx context.Context, items []model.TransferItem) error
	Delete(ctx context.Context, id string) error
}
