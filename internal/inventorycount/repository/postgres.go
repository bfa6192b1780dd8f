package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-stock-service/internal/apperror"
	"github.com/fekuna/omnipos-stock-service/internal/database"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, c *model.InventoryCount) error {
	db := database.Ext(ctx, r.DB)
	query := `
		INSERT INTO inventory_counts (id, inventory_id, count_date, counter_user_id, is_locked, notes, created_at, updated_at)
		VALUES (:id, :inventory_id, :count_date, :counter_user_id, :is_locked, :notes, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, query, c); err != nil {
		// idx_inventory_counts_open allows one open count per inventory.
		if database.IsUniqueViolation(err) {
			return apperror.State("count_already_open", "inventory already has an open count",
				map[string]any{"Inventory": c.InventoryID})
		}
		return fmt.Errorf("insert inventory count: %w", err)
	}
	if len(c.Items) == 0 {
		return nil
	}

	itemQuery := `
		INSERT INTO inventory_count_items (
			id, inventory_count_id, item_type, item_id, color_id,
			system_quantity, actual_quantity, difference, notes, created_at, updated_at
		) VALUES (
			:id, :inventory_count_id, :item_type, :item_id, :color_id,
			:system_quantity, :actual_quantity, :difference, :notes, :created_at, :updated_at
		)`
	if _, err := sqlx.NamedExecContext(ctx, db, itemQuery, c.Items); err != nil {
		return fmt.Errorf("insert inventory count items: %w", err)
	}
	return nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.InventoryCount, error) {
	return r.find(ctx, `SELECT * FROM inventory_counts WHERE id = $1`, id)
}

func (r *PGRepository) FindByIDForUpdate(ctx context.Context, id string) (*model.InventoryCount, error) {
	return r.find(ctx, `SELECT * FROM inventory_counts WHERE id = $1 FOR UPDATE`, id)
}

func (r *PGRepository) FindOpenByInventory(ctx context.Context, inventoryID string) (*model.InventoryCount, error) {
	return r.find(ctx, `
		SELECT * FROM inventory_counts
		WHERE inventory_id = $1 AND is_locked = FALSE
		ORDER BY created_at LIMIT 1`, inventoryID)
}

func (r *PGRepository) find(ctx context.Context, query string, arg string) (*model.InventoryCount, error) {
	if database.MalformedID(arg) {
		return nil, nil
	}
	db := database.Ext(ctx, r.DB)

	var c model.InventoryCount
	if err := sqlx.GetContext(ctx, db, &c, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find inventory count: %w", err)
	}

	c.Items = []model.InventoryCountItem{}
	if err := sqlx.SelectContext(ctx, db, &c.Items, `
		SELECT * FROM inventory_count_items
		WHERE inventory_count_id = $1
		ORDER BY created_at, id`, c.ID); err != nil {
		return nil, fmt.Errorf("find items of inventory count %s: %w", c.ID, err)
	}
	return &c, nil
}

func (r *PGRepository) FindItem(ctx context.Context, countID string, item model.ItemRef, colorID *string) (*model.InventoryCountItem, error) {
	var it model.InventoryCountItem
	err := sqlx.GetContext(ctx, database.Ext(ctx, r.DB), &it, `
		SELECT * FROM inventory_count_items
		WHERE inventory_count_id = $1 AND item_type = $2 AND item_id = $3
		  AND color_id IS NOT DISTINCT FROM $4::uuid`,
		countID, item.Type, item.ID, colorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find count item %s: %w", item, err)
	}
	return &it, nil
}

func (r *PGRepository) UpsertItem(ctx context.Context, item *model.InventoryCountItem) error {
	item.UpdatedAt = time.Now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = item.UpdatedAt
	}

	err := database.Ext(ctx, r.DB).QueryRowxContext(ctx, `
		INSERT INTO inventory_count_items (
			id, inventory_count_id, item_type, item_id, color_id,
			system_quantity, actual_quantity, difference, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT ON CONSTRAINT inventory_count_items_key DO UPDATE SET
			actual_quantity = EXCLUDED.actual_quantity,
			difference = EXCLUDED.difference,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at
		RETURNING id`,
		item.ID, item.InventoryCountID, item.ItemType, item.ItemID, item.ColorID,
		item.SystemQuantity, item.ActualQuantity, item.Difference, item.Notes,
		item.CreatedAt, item.UpdatedAt,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("upsert count item %s: %w", item.Ref(), err)
	}
	return nil
}

func (r *PGRepository) MarkFinalized(ctx context.Context, id string) error {
	_, err := database.Ext(ctx, r.DB).ExecContext(ctx,
		`UPDATE inventory_counts SET is_locked = TRUE, updated_at = $2 WHERE id = $1`, id, time.Now())
	if err != nil {
		return fmt.Errorf("finalize inventory count %s: %w", id, err)
	}
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	if _, err := database.Ext(ctx, r.DB).ExecContext(ctx, `DELETE FROM inventory_counts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete inventory count %s: %w", id, err)
	}
	return nil
}
