package usecase

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-stock-service/internal/apperror"
	"github.com/fekuna/omnipos-stock-service/internal/inventory"
	"github.com/fekuna/omnipos-stock-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-stock-service/internal/ledger"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/fekuna/omnipos-stock-service/internal/user"
	"github.com/fekuna/omnipos-stock-service/pkg/logger"
	"go.uber.org/zap"
)

type inventoryUseCase struct {
	repo   inventory.Repository
	rows   ledger.Repository
	users  user.Directory
	logger logger.ZapLogger
}

func NewInventoryUseCase(repo inventory.Repository, rows ledger.Repository, users user.Directory, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:   repo,
		rows:   rows,
		users:  users,
		logger: log,
	}
}

func (uc *inventoryUseCase) Resolve(ctx context.Context, side dto.Side, ep dto.Endpoint) (*model.Inventory, error) {
	typeField := string(side) + "_inventory_type"
	userField := string(side) + "_user_id"

	if ep.Empty() {
		return nil, apperror.Validation(typeField, "endpoint_required",
			fmt.Sprintf("%s endpoint needs an inventory type or a user", side), map[string]any{"Side": string(side)})
	}

	// A typed destination always names its receiving user.
	if side == dto.SideTo && ep.Type != nil && ep.UserID == nil {
		return nil, apperror.Validation("to_user_id", "to_user_required",
			"a receiving user is required for the destination inventory", nil)
	}

	if ep.Type != nil {
		if !ep.Type.Valid() {
			return nil, apperror.Validation(typeField, "invalid_inventory_type",
				fmt.Sprintf("invalid inventory type %q", *ep.Type), map[string]any{"Type": string(*ep.Type)})
		}
		if ep.Type.Shared() {
			return uc.Shared(ctx, *ep.Type)
		}
	}

	if ep.UserID == nil {
		return nil, apperror.Validation(userField, "user_required",
			fmt.Sprintf("%s is required for a personal inventory", userField), nil)
	}

	owner, err := uc.users.FindByID(ctx, *ep.UserID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, apperror.Validation(userField, "user_not_found",
			fmt.Sprintf("user %s not found", *ep.UserID), map[string]any{"ID": *ep.UserID})
	}

	inv, err := uc.repo.GetOrCreatePersonal(ctx, owner, model.InventoryTypeAssembler)
	if err != nil {
		uc.logger.Error("failed to provision personal inventory", zap.String("user_id", owner.ID), zap.Error(err))
		return nil, err
	}
	return inv, nil
}

func (uc *inventoryUseCase) Shared(ctx context.Context, t model.InventoryType) (*model.Inventory, error) {
	inv, err := uc.repo.GetOrCreateShared(ctx, t)
	if err != nil {
		uc.logger.Error("failed to provision shared inventory", zap.String("type", string(t)), zap.Error(err))
		return nil, err
	}
	return inv, nil
}

func (uc *inventoryUseCase) Lock(ctx context.Context, ids ...string) (map[string]*model.Inventory, error) {
	seen := map[string]bool{}
	wanted := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		wanted = append(wanted, id)
	}

	locked, err := uc.repo.LockByIDs(ctx, wanted...)
	if err != nil {
		return nil, err
	}
	for _, id := range wanted {
		if _, ok := locked[id]; !ok {
			return nil, apperror.NotFound("inventory", id)
		}
	}
	return locked, nil
}

func (uc *inventoryUseCase) GetInventory(ctx context.Context, id string) (*dto.InventoryView, error) {
	inv, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, apperror.NotFound("inventory", id)
	}

	status, err := uc.repo.LockStatus(ctx, id, "")
	if err != nil {
		return nil, err
	}

	return &dto.InventoryView{Inventory: *inv, LockStatus: status, IsLocked: status.Locked()}, nil
}

func (uc *inventoryUseCase) ListInventories(ctx context.Context, filters *dto.InventoryFilters) ([]model.Inventory, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *inventoryUseCase) ListItems(ctx context.Context, id string) ([]model.InventoryItem, error) {
	inv, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, apperror.NotFound("inventory", id)
	}
	return uc.rows.ListByInventory(ctx, id)
}
