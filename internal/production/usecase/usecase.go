package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-stock-service/internal/apperror"
	"github.com/fekuna/omnipos-stock-service/internal/catalog"
	"github.com/fekuna/omnipos-stock-service/internal/database"
	"github.com/fekuna/omnipos-stock-service/internal/events"
	"github.com/fekuna/omnipos-stock-service/internal/inventory"
	"github.com/fekuna/omnipos-stock-service/internal/inventorycount"
	"github.com/fekuna/omnipos-stock-service/internal/lock"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/fekuna/omnipos-stock-service/internal/production"
	"github.com/fekuna/omnipos-stock-service/internal/production/dto"
	"github.com/fekuna/omnipos-stock-service/internal/transfer"
	trdto "github.com/fekuna/omnipos-stock-service/internal/transfer/dto"
	"github.com/fekuna/omnipos-stock-service/internal/user"
	"github.com/fekuna/omnipos-stock-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type productionUseCase struct {
	repo        production.Repository
	users       user.Directory
	catalog     catalog.Reader
	inventories inventory.UseCase
	transfers   transfer.UseCase
	counts      inventorycount.UseCase
	locker      lock.Locker
	tx          database.TxManager
	publisher   events.Publisher
	logger      logger.ZapLogger
}

func NewProductionUseCase(
	repo production.Repository,
	users user.Directory,
	catalog catalog.Reader,
	inventories inventory.UseCase,
	transfers transfer.UseCase,
	counts inventorycount.UseCase,
	locker lock.Locker,
	tx database.TxManager,
	publisher events.Publisher,
	log logger.ZapLogger,
) production.UseCase {
	return &productionUseCase{
		repo:        repo,
		users:       users,
		catalog:     catalog,
		inventories: inventories,
		transfers:   transfers,
		counts:      counts,
		locker:      locker,
		tx:          tx,
		publisher:   publisher,
		logger:      log,
	}
}

func (uc *productionUseCase) Create(ctx context.Context, input *dto.CreateProductionInput) (*model.Production, error) {
	if err := uc.validate(ctx, input); err != nil {
		return nil, err
	}

	now := time.Now()
	date := now
	if input.ProductionDate != nil {
		date = *input.ProductionDate
	}
	p := &model.Production{
		BaseModel:      model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		UserID:         input.UserID,
		ProductID:      input.ProductID,
		ProductPartID:  input.ProductPartID,
		ColorID:        input.ColorID,
		FabricID:       input.FabricID,
		BunchCount:     input.BunchCount,
		ProductionDate: date,
		Description:    input.Description,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *productionUseCase) validate(ctx context.Context, input *dto.CreateProductionInput) error {
	var errs []error
	if !input.BunchCount.IsPositive() {
		errs = append(errs, apperror.Validation("bunch_count", "quantity_positive", "bunch count must be greater than zero", nil))
	}

	worker, err := uc.users.FindByID(ctx, input.UserID)
	if err != nil {
		return err
	}
	if worker == nil {
		errs = append(errs, apperror.Validation("user_id", "user_not_found",
			fmt.Sprintf("user %s not found", input.UserID), map[string]any{"ID": input.UserID}))
	}

	refs := map[string]model.ItemRef{}
	if input.ProductPartID != nil {
		refs["product_part_id"] = model.ItemRef{Type: model.ItemTypeProductPart, ID: *input.ProductPartID}
	}
	if input.ProductID != nil {
		refs["product_id"] = model.ItemRef{Type: model.ItemTypeProduct, ID: *input.ProductID}
	}
	if input.FabricID != nil {
		refs["fabric_id"] = model.ItemRef{Type: model.ItemTypeRawMaterial, ID: *input.FabricID}
	}
	for field, ref := range refs {
		item, err := uc.catalog.FindItem(ctx, ref)
		if err != nil {
			return err
		}
		if item == nil {
			errs = append(errs, apperror.Validation(field, "item_not_found",
				fmt.Sprintf("%s %s not found", ref.Type, ref.ID), map[string]any{"Item": ref.ID}))
		}
	}

	if input.ColorID != nil {
		color, err := uc.catalog.FindColor(ctx, *input.ColorID)
		if err != nil {
			return err
		}
		if color == nil {
			errs = append(errs, apperror.Validation("color_id", "color_not_found",
				fmt.Sprintf("color %s not found", *input.ColorID), map[string]any{"Color": *input.ColorID}))
		}
	}
	return apperror.Collect(errs...)
}

func (uc *productionUseCase) Get(ctx context.Context, id string) (*model.Production, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("production", id)
	}
	return p, nil
}

// Approve marks the production approved and, depending on the worker's
// pipeline stage, moves its stock in one system-approved transfer.
func (uc *productionUseCase) Approve(ctx context.Context, id, approverID string) (*dto.ApprovalResult, error) {
	if approverID == "" {
		return nil, apperror.Authorization("actor_required", "an acting user is required")
	}

	release, err := uc.locker.Obtain(ctx, "production:"+id)
	if err != nil {
		if errors.Is(err, lock.ErrBusy) {
			return nil, apperror.State("approval_in_progress", "production approval is already in progress", nil)
		}
		return nil, err
	}
	defer release()

	result := &dto.ApprovalResult{ProductionID: id}
	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := uc.repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return apperror.NotFound("production", id)
		}
		if p.Approved() {
			return apperror.State("production_already_approved", "production is already approved", nil)
		}

		worker, err := uc.users.FindByID(ctx, p.UserID)
		if err != nil {
			return err
		}
		if worker == nil {
			return apperror.Validation("user_id", "user_not_found",
				fmt.Sprintf("user %s not found", p.UserID), map[string]any{"ID": p.UserID})
		}

		if err := uc.repo.MarkApproved(ctx, p.ID, approverID, time.Now()); err != nil {
			return err
		}

		switch {
		case worker.HasRole(model.RoleFabricCutter):
			return uc.approveCutting(ctx, p, worker, approverID, result)
		case worker.HasRole(model.RoleColoringWorker):
			return uc.moveStage(ctx, p, worker, approverID, model.InventoryTypeFabricCutter, model.InventoryTypeColoringWorker, nil, result)
		case worker.HasRole(model.RoleMoldingWorker):
			return uc.moveStage(ctx, p, worker, approverID, model.InventoryTypeColoringWorker, model.InventoryTypeMoldingWorker, p.ColorID, result)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("production approved",
		zap.String("production_id", id),
		zap.String("approver_id", approverID),
		zap.Stringp("transfer_id", result.TransferID))
	if err := uc.publisher.Publish(ctx, events.New(events.ProductionApproved, id, approverID, result)); err != nil {
		uc.logger.Warn("failed to publish production events", zap.Error(err))
	}
	return result, nil
}

// approveCutting pulls the part's requirements from the central warehouse
// into the cutter inventory, then books them as consumed and the cut parts
// as produced.
func (uc *productionUseCase) approveCutting(ctx context.Context, p *model.Production, worker *model.User, approverID string, result *dto.ApprovalResult) error {
	part, err := uc.productPart(ctx, p)
	if err != nil {
		return err
	}

	central, err := uc.inventories.Shared(ctx, model.InventoryTypeCentralWarehouse)
	if err != nil {
		return err
	}
	cutter, err := uc.inventories.Shared(ctx, model.InventoryTypeFabricCutter)
	if err != nil {
		return err
	}

	perBunch := part.CountPerBunch
	if !perBunch.IsPositive() {
		perBunch = decimal.NewFromInt(1)
	}
	produced := p.BunchCount.Mul(perBunch)

	notes := "for producing " + part.Name
	items := make([]model.TransferItem, 0, len(part.Requirements))
	adjustments := make([]inventorycount.Adjustment, 0, len(part.Requirements)+1)
	for _, req := range part.Requirements {
		qty := req.QuantityPerUnit.Mul(produced)
		items = append(items, model.TransferItem{
			ItemType: req.Item.Type,
			ItemID:   req.Item.ID,
			Quantity: qty,
			Notes:    &notes,
		})
		adjustments = append(adjustments, inventorycount.Adjustment{Item: req.Item, Delta: qty.Neg()})
	}
	adjustments = append(adjustments, inventorycount.Adjustment{Item: part.Ref, Delta: produced})

	if len(items) > 0 {
		desc := "Auto transfer: cutting production by " + worker.FullName()
		t, err := uc.transfers.CreateApproved(ctx, &trdto.SystemTransferInput{
			From:         central,
			To:           cutter,
			ToUserID:     &p.UserID,
			ApproverID:   approverID,
			TransferDate: p.ProductionDate,
			Description:  &desc,
			Items:        items,
		})
		if err != nil {
			return err
		}
		result.TransferID = &t.ID
	}

	c, err := uc.counts.Reconcile(ctx, cutter, approverID, "System count: produced "+part.Name+" from requirements", adjustments)
	if err != nil {
		return err
	}
	result.CountID = &c.ID
	return nil
}

// moveStage hands bunch_count parts from one pipeline stage to the next.
func (uc *productionUseCase) moveStage(ctx context.Context, p *model.Production, worker *model.User, approverID string, fromType, toType model.InventoryType, colorID *string, result *dto.ApprovalResult) error {
	part, err := uc.productPart(ctx, p)
	if err != nil {
		return err
	}

	from, err := uc.inventories.Shared(ctx, fromType)
	if err != nil {
		return err
	}
	to, err := uc.inventories.Shared(ctx, toType)
	if err != nil {
		return err
	}

	desc := fmt.Sprintf("Auto transfer: %s production by %s", toType.Label(), worker.FullName())
	t, err := uc.transfers.CreateApproved(ctx, &trdto.SystemTransferInput{
		From:         from,
		To:           to,
		FromUserID:   &p.UserID,
		ApproverID:   approverID,
		TransferDate: p.ProductionDate,
		Description:  &desc,
		Items: []model.TransferItem{{
			ItemType: model.ItemTypeProductPart,
			ItemID:   part.Ref.ID,
			ColorID:  colorID,
			Quantity: p.BunchCount,
		}},
	})
	if err != nil {
		return err
	}
	result.TransferID = &t.ID
	return nil
}

func (uc *productionUseCase) productPart(ctx context.Context, p *model.Production) (*model.CatalogItem, error) {
	if p.ProductPartID == nil {
		return nil, apperror.Validation("product_part_id", "product_part_required",
			"production has no product part", nil)
	}
	part, err := uc.catalog.FindItem(ctx, model.ItemRef{Type: model.ItemTypeProductPart, ID: *p.ProductPartID})
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, apperror.Validation("product_part_id", "item_not_found",
			fmt.Sprintf("product part %s not found", *p.ProductPartID), map[string]any{"Item": *p.ProductPartID})
	}
	return part, nil
}
