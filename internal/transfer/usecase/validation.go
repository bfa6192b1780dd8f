package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-stock-service/internal/apperror"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/fekuna/omnipos-stock-service/internal/transfer/dto"
	"github.com/google/uuid"
)

// colorExempt reports whether product parts may travel without a color:
// parts leave the cutter before they are dyed.
func colorExempt(types ...model.InventoryType) bool {
	for _, t := range types {
		if t == model.InventoryTypeFabricCutter {
			return true
		}
	}
	return false
}

// validateItems checks every line on its own and reports all failures at once.
func (uc *transferUseCase) validateItems(ctx context.Context, inputs []dto.TransferItemInput, exempt bool) error {
	if len(inputs) == 0 {
		return apperror.Validation("items", "items_required", "at least one item is required", nil)
	}

	var errs []error
	for i, in := range inputs {
		row := i + 1
		field := func(name string) string { return fmt.Sprintf("items.%d.%s", i, name) }

		if !in.ItemType.Valid() {
			errs = append(errs, apperror.Validation(field("item_type"), "invalid_item_type",
				fmt.Sprintf("row %d: invalid item type %q", row, in.ItemType),
				map[string]any{"Row": row, "Type": string(in.ItemType)}))
			continue
		}

		if !in.Quantity.IsPositive() {
			errs = append(errs, apperror.Validation(field("quantity"), "quantity_positive",
				fmt.Sprintf("row %d: quantity must be greater than zero", row), map[string]any{"Row": row}))
		}

		item, err := uc.catalog.FindItem(ctx, model.ItemRef{Type: in.ItemType, ID: in.ItemID})
		if err != nil {
			return err
		}
		if item == nil {
			errs = append(errs, apperror.Validation(field("item_id"), "item_not_found",
				fmt.Sprintf("row %d: %s %s not found", row, in.ItemType, in.ItemID),
				map[string]any{"Row": row, "Item": in.ItemID}))
		}

		needsColor := in.ItemType == model.ItemTypeProduct ||
			(in.ItemType == model.ItemTypeProductPart && !exempt)
		switch {
		case in.ColorID == nil && needsColor:
			errs = append(errs, apperror.Validation(field("color_id"), "color_required",
				fmt.Sprintf("row %d: color is required", row), map[string]any{"Row": row}))
		case in.ColorID != nil && in.ItemType != model.ItemTypeRawMaterial:
			color, err := uc.catalog.FindColor(ctx, *in.ColorID)
			if err != nil {
				return err
			}
			if color == nil {
				errs = append(errs, apperror.Validation(field("color_id"), "color_not_found",
					fmt.Sprintf("row %d: color %s not found", row, *in.ColorID),
					map[string]any{"Row": row, "Color": *in.ColorID}))
			}
		}
	}
	return apperror.Collect(errs...)
}

func buildItems(transferID string, inputs []dto.TransferItemInput) []model.TransferItem {
	now := time.Now()
	items := make([]model.TransferItem, len(inputs))
	for i, in := range inputs {
		items[i] = model.TransferItem{
			ID:         uuid.New().String(),
			TransferID: transferID,
			ItemType:   in.ItemType,
			ItemID:     in.ItemID,
			ColorID:    in.ItemType.Color(in.ColorID),
			Quantity:   in.Quantity,
			Notes:      in.Notes,
			CreatedAt:  now,
		}
	}
	return items
}

func inventoryIDs(from, to *model.Inventory) []string {
	ids := []string{}
	for _, inv := range []*model.Inventory{from, to} {
		if inv != nil {
			ids = append(ids, inv.ID)
		}
	}
	return ids
}

func typesOf(invs ...*model.Inventory) []model.InventoryType {
	out := []model.InventoryType{}
	for _, inv := range invs {
		if inv != nil {
			out = append(out, inv.Type)
		}
	}
	return out
}
