package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-stock-service/internal/apperror"
	"github.com/fekuna/omnipos-stock-service/internal/catalog"
	"github.com/fekuna/omnipos-stock-service/internal/database"
	"github.com/fekuna/omnipos-stock-service/internal/events"
	"github.com/fekuna/omnipos-stock-service/internal/inventory"
	invdto "github.com/fekuna/omnipos-stock-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-stock-service/internal/ledger"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/fekuna/omnipos-stock-service/internal/transfer"
	"github.com/fekuna/omnipos-stock-service/internal/transfer/dto"
	"github.com/fekuna/omnipos-stock-service/internal/user"
	"github.com/fekuna/omnipos-stock-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type transferUseCase struct {
	repo        transfer.Repository
	inventories inventory.UseCase
	validator   *ledger.Validator
	mover       *ledger.Mover
	catalog     catalog.Reader
	users       user.Directory
	tx          database.TxManager
	publisher   events.Publisher
	logger      logger.ZapLogger
}

func NewTransferUseCase(
	repo transfer.Repository,
	inventories inventory.UseCase,
	validator *ledger.Validator,
	mover *ledger.Mover,
	catalog catalog.Reader,
	users user.Directory,
	tx database.TxManager,
	publisher events.Publisher,
	log logger.ZapLogger,
) transfer.UseCase {
	return &transferUseCase{
		repo:        repo,
		inventories: inventories,
		validator:   validator,
		mover:       mover,
		catalog:     catalog,
		users:       users,
		tx:          tx,
		publisher:   publisher,
		logger:      log,
	}
}

func (uc *transferUseCase) Create(ctx context.Context, input *dto.CreateTransferInput) (*model.Transfer, error) {
	fromEp := invdto.Endpoint{Type: input.FromInventoryType, UserID: input.FromUserID}
	toEp := invdto.Endpoint{Type: input.ToInventoryType, UserID: input.ToUserID}
	if fromEp.Empty() && toEp.Empty() {
		return nil, apperror.Validation("from_inventory_type", "endpoint_required",
			"a source or a destination inventory is required", nil)
	}

	hints := []model.InventoryType{}
	for _, ep := range []invdto.Endpoint{fromEp, toEp} {
		if t, ok := ep.TypeHint(); ok {
			hints = append(hints, t)
		}
	}
	if err := uc.validateItems(ctx, input.Items, colorExempt(hints...)); err != nil {
		return nil, err
	}

	var t *model.Transfer
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		from, err := uc.resolve(ctx, invdto.SideFrom, fromEp)
		if err != nil {
			return err
		}
		to, err := uc.resolve(ctx, invdto.SideTo, toEp)
		if err != nil {
			return err
		}
		if from != nil && to != nil && from.ID == to.ID {
			return apperror.Validation("to_inventory_type", "same_inventory",
				"source and destination inventories must differ", nil)
		}

		if _, err := uc.inventories.Lock(ctx, inventoryIDs(from, to)...); err != nil {
			return err
		}

		id := uuid.New().String()
		items := buildItems(id, input.Items)
		if err := uc.validator.Check(ctx, from, to, ledger.LinesOf(items), ""); err != nil {
			return err
		}

		now := time.Now()
		date := now
		if input.TransferDate != nil {
			date = *input.TransferDate
		}
		t = &model.Transfer{
			BaseModel:     model.BaseModel{ID: id, CreatedAt: now, UpdatedAt: now},
			FromUserID:    input.FromUserID,
			ToUserID:      input.ToUserID,
			CreatorUserID: optional(input.ActorID),
			TransferDate:  date,
			Status:        model.TransferStatusPending,
			Description:   input.Description,
			Items:         items,
		}
		if from != nil {
			t.FromInventoryID = &from.ID
		}
		if to != nil {
			t.ToInventoryID = &to.ID
		}
		return uc.repo.Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("transfer created", zap.String("transfer_id", t.ID), zap.String("actor_id", input.ActorID))
	uc.publish(ctx, events.New(events.TransferCreated, t.ID, input.ActorID, t))
	return t, nil
}

func (uc *transferUseCase) resolve(ctx context.Context, side invdto.Side, ep invdto.Endpoint) (*model.Inventory, error) {
	if ep.Empty() {
		return nil, nil
	}
	return uc.inventories.Resolve(ctx, side, ep)
}

func (uc *transferUseCase) Approve(ctx context.Context, id, actorID string) (*model.Transfer, error) {
	var t *model.Transfer
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if t, err = uc.loadPending(ctx, id); err != nil {
			return err
		}
		if err := uc.authorizeRecipient(ctx, t, actorID); err != nil {
			return err
		}

		from, to, err := uc.lockEndpoints(ctx, t)
		if err != nil {
			return err
		}
		// Lock state and stock are read again here; anything may have changed since creation.
		if err := uc.validator.Check(ctx, from, to, ledger.LinesOf(t.Items), t.ID); err != nil {
			return err
		}
		if err := uc.mover.Apply(ctx, from, to, t.Items); err != nil {
			return err
		}
		if err := uc.repo.UpdateItemsExploded(ctx, t.Items); err != nil {
			return err
		}

		now := time.Now()
		t.Status = model.TransferStatusApproved
		t.ApprovedBy = &actorID
		t.ApprovedAt = &now
		return uc.repo.Update(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("transfer approved", zap.String("transfer_id", id), zap.String("actor_id", actorID))
	uc.publish(ctx, events.New(events.TransferApproved, id, actorID, t))
	return t, nil
}

func (uc *transferUseCase) Reject(ctx context.Context, id, actorID string) (*model.Transfer, error) {
	var t *model.Transfer
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if t, err = uc.loadPending(ctx, id); err != nil {
			return err
		}
		if err := uc.authorizeRecipient(ctx, t, actorID); err != nil {
			return err
		}

		now := time.Now()
		t.Status = model.TransferStatusRejected
		t.RejectedBy = &actorID
		t.RejectedAt = &now
		return uc.repo.Update(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("transfer rejected", zap.String("transfer_id", id), zap.String("actor_id", actorID))
	uc.publish(ctx, events.New(events.TransferRejected, id, actorID, t))
	return t, nil
}

func (uc *transferUseCase) Update(ctx context.Context, input *dto.UpdateTransferInput) (*model.Transfer, error) {
	var t *model.Transfer
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if t, err = uc.loadPending(ctx, input.ID); err != nil {
			return err
		}
		if !isParty(t, input.ActorID) {
			return apperror.Authorization("not_transfer_party",
				"only the sender, the recipient or the creator may edit this transfer")
		}

		if input.TransferDate != nil {
			t.TransferDate = *input.TransferDate
		}
		if input.Description != nil {
			t.Description = input.Description
		}

		if len(input.Items) > 0 {
			from, to, err := uc.lockEndpoints(ctx, t)
			if err != nil {
				return err
			}
			if err := uc.validateItems(ctx, input.Items, colorExempt(typesOf(from, to)...)); err != nil {
				return err
			}
			items := buildItems(t.ID, input.Items)
			if err := uc.validator.Check(ctx, from, to, ledger.LinesOf(items), t.ID); err != nil {
				return err
			}
			if err := uc.repo.ReplaceItems(ctx, t.ID, items); err != nil {
				return err
			}
			t.Items = items
		}

		return uc.repo.Update(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("transfer updated", zap.String("transfer_id", t.ID), zap.String("actor_id", input.ActorID))
	uc.publish(ctx, events.New(events.TransferUpdated, t.ID, input.ActorID, t))
	return t, nil
}

func (uc *transferUseCase) Delete(ctx context.Context, id, actorID string) error {
	var status model.TransferStatus
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		t, err := uc.repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return apperror.NotFound("transfer", id)
		}
		status = t.Status

		if t.Status == model.TransferStatusApproved {
			from, to, err := uc.lockEndpoints(ctx, t)
			if err != nil {
				return err
			}
			if err := uc.validator.CheckReversal(ctx, from, to, t.Items); err != nil {
				return err
			}
			if err := uc.mover.Reverse(ctx, from, to, t.Items); err != nil {
				return err
			}
		}
		return uc.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	uc.logger.Info("transfer deleted",
		zap.String("transfer_id", id),
		zap.String("status", string(status)),
		zap.String("actor_id", actorID))
	uc.publish(ctx, events.New(events.TransferDeleted, id, actorID, map[string]string{"status": string(status)}))
	return nil
}

func (uc *transferUseCase) Get(ctx context.Context, id string) (*model.Transfer, error) {
	t, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperror.NotFound("transfer", id)
	}
	return t, nil
}

func (uc *transferUseCase) List(ctx context.Context, filters *dto.TransferFilters) ([]model.Transfer, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *transferUseCase) CreateApproved(ctx context.Context, input *dto.SystemTransferInput) (*model.Transfer, error) {
	var t *model.Transfer
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := uc.inventories.Lock(ctx, inventoryIDs(input.From, input.To)...); err != nil {
			return err
		}
		if err := uc.validator.Check(ctx, input.From, input.To, ledger.LinesOf(input.Items), ""); err != nil {
			return err
		}

		now := time.Now()
		id := uuid.New().String()
		items := make([]model.TransferItem, len(input.Items))
		for i, it := range input.Items {
			it.ID = uuid.New().String()
			it.TransferID = id
			it.CreatedAt = now
			items[i] = it
		}
		if err := uc.mover.Apply(ctx, input.From, input.To, items); err != nil {
			return err
		}

		t = &model.Transfer{
			BaseModel:     model.BaseModel{ID: id, CreatedAt: now, UpdatedAt: now},
			FromUserID:    input.FromUserID,
			ToUserID:      input.ToUserID,
			CreatorUserID: optional(input.ApproverID),
			TransferDate:  input.TransferDate,
			Status:        model.TransferStatusApproved,
			ApprovedBy:    optional(input.ApproverID),
			ApprovedAt:    &now,
			Description:   input.Description,
			Items:         items,
		}
		if input.From != nil {
			t.FromInventoryID = &input.From.ID
		}
		if input.To != nil {
			t.ToInventoryID = &input.To.ID
		}
		return uc.repo.Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Debug("system transfer applied", zap.String("transfer_id", t.ID))
	return t, nil
}

func (uc *transferUseCase) loadPending(ctx context.Context, id string) (*model.Transfer, error) {
	t, err := uc.repo.FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperror.NotFound("transfer", id)
	}
	if t.Status != model.TransferStatusPending {
		return nil, apperror.State("transfer_not_pending", "transfer is already "+string(t.Status),
			map[string]any{"Status": string(t.Status)})
	}
	return t, nil
}

func (uc *transferUseCase) lockEndpoints(ctx context.Context, t *model.Transfer) (from, to *model.Inventory, err error) {
	locked, err := uc.inventories.Lock(ctx, deref(t.FromInventoryID), deref(t.ToInventoryID))
	if err != nil {
		return nil, nil, err
	}
	if t.FromInventoryID != nil {
		from = locked[*t.FromInventoryID]
	}
	if t.ToInventoryID != nil {
		to = locked[*t.ToInventoryID]
	}
	return from, to, nil
}

// authorizeRecipient allows the receiving user, or a manager when the
// transfer names no receiving user.
func (uc *transferUseCase) authorizeRecipient(ctx context.Context, t *model.Transfer, actorID string) error {
	if actorID == "" {
		return apperror.Authorization("actor_required", "an acting user is required")
	}
	if t.ToUserID != nil {
		if *t.ToUserID == actorID {
			return nil
		}
		return apperror.Authorization("not_recipient", "only the receiving user may approve or reject this transfer")
	}

	ok, err := uc.users.HasRole(ctx, actorID, model.RoleManager)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.Authorization("manager_required", "only a manager may approve or reject this transfer")
	}
	return nil
}

func (uc *transferUseCase) publish(ctx context.Context, evs ...events.Event) {
	if err := uc.publisher.Publish(ctx, evs...); err != nil {
		uc.logger.Warn("failed to publish transfer events", zap.Error(err))
	}
}

func isParty(t *model.Transfer, actorID string) bool {
	if actorID == "" {
		return false
	}
	for _, id := range []*string{t.FromUserID, t.ToUserID, t.CreatorUserID} {
		if id != nil && *id == actorID {
			return true
		}
	}
	return false
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
