package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-stock-service/internal/apperror"
	"github.com/fekuna/omnipos-stock-service/internal/catalog"
	"github.com/fekuna/omnipos-stock-service/internal/database"
	"github.com/fekuna/omnipos-stock-service/internal/events"
	"github.com/fekuna/omnipos-stock-service/internal/inventory"
	"github.com/fekuna/omnipos-stock-service/internal/inventorycount"
	"github.com/fekuna/omnipos-stock-service/internal/inventorycount/dto"
	"github.com/fekuna/omnipos-stock-service/internal/ledger"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/fekuna/omnipos-stock-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type countUseCase struct {
	repo        inventorycount.Repository
	inventories inventory.UseCase
	rows        ledger.Repository
	catalog     catalog.Reader
	tx          database.TxManager
	publisher   events.Publisher
	logger      logger.ZapLogger
}

func NewCountUseCase(
	repo inventorycount.Repository,
	inventories inventory.UseCase,
	rows ledger.Repository,
	catalog catalog.Reader,
	tx database.TxManager,
	publisher events.Publisher,
	log logger.ZapLogger,
) inventorycount.UseCase {
	return &countUseCase{
		repo:        repo,
		inventories: inventories,
		rows:        rows,
		catalog:     catalog,
		tx:          tx,
		publisher:   publisher,
		logger:      log,
	}
}

// Start snapshots every ledger row of the inventory. The inventory stays
// locked for transfers until the count is finalized.
func (uc *countUseCase) Start(ctx context.Context, input *dto.StartCountInput) (*model.InventoryCount, error) {
	var c *model.InventoryCount
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := uc.inventories.Lock(ctx, input.InventoryID); err != nil {
			return err
		}
		open, err := uc.repo.FindOpenByInventory(ctx, input.InventoryID)
		if err != nil {
			return err
		}
		if open != nil {
			return apperror.State("count_already_open", "inventory already has an open count",
				map[string]any{"Count": open.ID})
		}

		rows, err := uc.rows.ListByInventory(ctx, input.InventoryID)
		if err != nil {
			return err
		}

		now := time.Now()
		date := now
		if input.CountDate != nil {
			date = *input.CountDate
		}
		c = &model.InventoryCount{
			BaseModel:     model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
			InventoryID:   input.InventoryID,
			CountDate:     date,
			CounterUserID: optional(input.ActorID),
			Notes:         input.Notes,
			Items:         make([]model.InventoryCountItem, 0, len(rows)),
		}
		for _, row := range rows {
			c.Items = append(c.Items, model.InventoryCountItem{
				BaseModel:        model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
				InventoryCountID: c.ID,
				ItemType:         row.ItemType,
				ItemID:           row.ItemID,
				ColorID:          row.ColorID,
				SystemQuantity:   row.Quantity,
				Difference:       row.Quantity.Neg(),
			})
		}
		return uc.repo.Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("inventory count started",
		zap.String("count_id", c.ID),
		zap.String("inventory_id", c.InventoryID),
		zap.Int("items", len(c.Items)))
	uc.publish(ctx, events.New(events.CountStarted, c.ID, input.ActorID, c))
	return c, nil
}

func (uc *countUseCase) RecordCount(ctx context.Context, input *dto.RecordCountInput) (*model.InventoryCountItem, error) {
	input.ColorID = input.ItemType.Color(input.ColorID)
	if err := uc.validateLine(ctx, input); err != nil {
		return nil, err
	}

	ref := model.ItemRef{Type: input.ItemType, ID: input.ItemID}
	var item *model.InventoryCountItem
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := uc.loadOpen(ctx, input.CountID)
		if err != nil {
			return err
		}

		item, err = uc.repo.FindItem(ctx, c.ID, ref, input.ColorID)
		if err != nil {
			return err
		}
		if item == nil {
			// Discovered during the count: nothing was on the books.
			now := time.Now()
			item = &model.InventoryCountItem{
				BaseModel:        model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
				InventoryCountID: c.ID,
				ItemType:         ref.Type,
				ItemID:           ref.ID,
				ColorID:          input.ColorID,
				SystemQuantity:   decimal.Zero,
			}
		}
		item.SetActual(input.ActualQuantity)
		if input.Notes != nil {
			item.Notes = input.Notes
		}
		return uc.repo.UpsertItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (uc *countUseCase) validateLine(ctx context.Context, input *dto.RecordCountInput) error {
	var errs []error
	if input.ActualQuantity.IsNegative() {
		errs = append(errs, apperror.Validation("actual_quantity", "actual_quantity_negative",
			"actual quantity cannot be negative", nil))
	}
	if !input.ItemType.Valid() {
		return apperror.Collect(append(errs, apperror.Validation("item_type", "invalid_item_type",
			fmt.Sprintf("invalid item type %q", input.ItemType), map[string]any{"Type": string(input.ItemType)}))...)
	}

	item, err := uc.catalog.FindItem(ctx, model.ItemRef{Type: input.ItemType, ID: input.ItemID})
	if err != nil {
		return err
	}
	if item == nil {
		errs = append(errs, apperror.Validation("item_id", "item_not_found",
			fmt.Sprintf("%s %s not found", input.ItemType, input.ItemID), map[string]any{"Item": input.ItemID}))
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

// Finalize closes the count for good. With AdjustLedger every line that
// differs overwrites its ledger row with the counted quantity.
func (uc *countUseCase) Finalize(ctx context.Context, input *dto.FinalizeCountInput) (*model.InventoryCount, error) {
	var c *model.InventoryCount
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if c, err = uc.loadOpen(ctx, input.CountID); err != nil {
			return err
		}
		return uc.finalize(ctx, c, input.AdjustLedger)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("inventory count finalized",
		zap.String("count_id", c.ID),
		zap.Bool("adjust_ledger", input.AdjustLedger),
		zap.String("actor_id", input.ActorID))
	uc.publish(ctx, events.New(events.CountFinalized, c.ID, input.ActorID, c))
	return c, nil
}

func (uc *countUseCase) finalize(ctx context.Context, c *model.InventoryCount, adjust bool) error {
	var missing []error
	for i, it := range c.Items {
		if !it.ActualQuantity.Valid {
			missing = append(missing, apperror.Validation(fmt.Sprintf("items.%d.actual_quantity", i), "actual_quantity_missing",
				fmt.Sprintf("%s has not been counted", it.Ref()), map[string]any{"Item": it.ItemID}))
		}
	}
	if err := apperror.Collect(missing...); err != nil {
		return err
	}

	if _, err := uc.inventories.Lock(ctx, c.InventoryID); err != nil {
		return err
	}

	if adjust {
		for _, it := range c.Items {
			if it.Difference.IsZero() {
				continue
			}
			row, err := uc.rows.Acquire(ctx, model.StockKey{InventoryID: c.InventoryID, Item: it.Ref(), ColorID: it.ColorID})
			if err != nil {
				return err
			}
			if err := uc.rows.SetQuantity(ctx, row.ID, it.ActualQuantity.Decimal); err != nil {
				return err
			}
		}
	}

	if err := uc.repo.MarkFinalized(ctx, c.ID); err != nil {
		return err
	}
	c.IsLocked = true
	return nil
}

func (uc *countUseCase) Reconcile(ctx context.Context, inv *model.Inventory, actorID string, notes string, lines []inventorycount.Adjustment) (*model.InventoryCount, error) {
	var c *model.InventoryCount
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := uc.inventories.Lock(ctx, inv.ID); err != nil {
			return err
		}
		open, err := uc.repo.FindOpenByInventory(ctx, inv.ID)
		if err != nil {
			return err
		}
		if open != nil {
			return apperror.Lock("inventory", inv.ID, inv.Name, apperror.LockOpenCount)
		}

		now := time.Now()
		c = &model.InventoryCount{
			BaseModel:     model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
			InventoryID:   inv.ID,
			CountDate:     now,
			CounterUserID: optional(actorID),
			Notes:         &notes,
		}

		index := map[string]int{}
		for _, l := range lines {
			color := l.Item.Type.Color(l.ColorID)
			key := model.StockKey{InventoryID: inv.ID, Item: l.Item, ColorID: color}
			if i, ok := index[key.Key()]; ok {
				it := &c.Items[i]
				it.SetActual(it.ActualQuantity.Decimal.Add(l.Delta))
				continue
			}

			current := decimal.Zero
			row, err := uc.rows.Find(ctx, key)
			if err != nil {
				return err
			}
			if row != nil {
				current = row.Quantity
			}

			it := model.InventoryCountItem{
				BaseModel:        model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
				InventoryCountID: c.ID,
				ItemType:         l.Item.Type,
				ItemID:           l.Item.ID,
				ColorID:          color,
				SystemQuantity:   current,
			}
			it.SetActual(current.Add(l.Delta))
			index[key.Key()] = len(c.Items)
			c.Items = append(c.Items, it)
		}

		if err := uc.repo.Create(ctx, c); err != nil {
			return err
		}
		return uc.finalize(ctx, c, true)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Debug("inventory reconciled", zap.String("count_id", c.ID), zap.String("inventory_id", inv.ID))
	return c, nil
}

func (uc *countUseCase) Get(ctx context.Context, id string) (*model.InventoryCount, error) {
	c, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperror.NotFound("inventory count", id)
	}
	return c, nil
}

func (uc *countUseCase) ListItems(ctx context.Context, id string) ([]model.InventoryCountItem, error) {
	c, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.Items, nil
}

// Delete discards an open count and releases its inventory.
func (uc *countUseCase) Delete(ctx context.Context, id, actorID string) error {
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := uc.loadOpen(ctx, id); err != nil {
			return err
		}
		return uc.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	uc.logger.Info("inventory count deleted", zap.String("count_id", id), zap.String("actor_id", actorID))
	uc.publish(ctx, events.New(events.CountDeleted, id, actorID, nil))
	return nil
}

func (uc *countUseCase) loadOpen(ctx context.Context, id string) (*model.InventoryCount, error) {
	c, err := uc.repo.FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperror.NotFound("inventory count", id)
	}
	if c.IsLocked {
		return nil, apperror.State("count_finalized", "inventory count is already finalized", nil)
	}
	return c, nil
}

func (uc *countUseCase) publish(ctx context.Context, evs ...events.Event) {
	if err := uc.publisher.Publish(ctx, evs...); err != nil {
		uc.logger.Warn("failed to publish count events", zap.Error(err))
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
