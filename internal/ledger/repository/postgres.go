package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-stock-service/internal/database"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const selectByKey = `
	SELECT * FROM inventory_items
	WHERE inventory_id = $1 AND item_type = $2 AND item_id = $3
	  AND color_id IS NOT DISTINCT FROM $4::uuid`

func (r *PGRepository) Find(ctx context.Context, key model.StockKey) (*model.InventoryItem, error) {
	var row model.InventoryItem
	err := sqlx.GetContext(ctx, database.Ext(ctx, r.DB), &row, selectByKey,
		key.InventoryID, key.Item.Type, key.Item.ID, key.ColorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find ledger row %s: %w", key, err)
	}
	return &row, nil
}

func (r *PGRepository) Acquire(ctx context.Context, key model.StockKey) (*model.InventoryItem, error) {
	db := database.Ext(ctx, r.DB)
	now := time.Now()

	// Concurrent creators collide on the NULLS NOT DISTINCT key; the loser reads the winner's row.
	_, err := db.ExecContext(ctx, `
		INSERT INTO inventory_items (id, inventory_id, item_type, item_id, color_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, $6, $6)
		ON CONFLICT ON CONSTRAINT inventory_items_key DO NOTHING`,
		uuid.New().String(), key.InventoryID, key.Item.Type, key.Item.ID, key.ColorID, now)
	if err != nil {
		return nil, fmt.Errorf("insert ledger row %s: %w", key, err)
	}

	var row model.InventoryItem
	if err := sqlx.GetContext(ctx, db, &row, selectByKey+` FOR UPDATE`,
		key.InventoryID, key.Item.Type, key.Item.ID, key.ColorID); err != nil {
		return nil, fmt.Errorf("lock ledger row %s: %w", key, err)
	}
	return &row, nil
}

func (r *PGRepository) SetQuantity(ctx context.Context, id string, qty decimal.Decimal) error {
	res, err := database.Ext(ctx, r.DB).ExecContext(ctx,
		`UPDATE inventory_items SET quantity = $1, updated_at = $2 WHERE id = $3`, qty, time.Now(), id)
	if err != nil {
		return fmt.Errorf("update ledger row %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update ledger row %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

func (r *PGRepository) ListByInventory(ctx context.Context, inventoryID string) ([]model.InventoryItem, error) {
	items := []model.InventoryItem{}
	err := sqlx.SelectContext(ctx, database.Ext(ctx, r.DB), &items, `
		SELECT * FROM inventory_items
		WHERE inventory_id = $1
		ORDER BY item_type, item_id, color_id NULLS FIRST`, inventoryID)
	if err != nil {
		return nil, fmt.Errorf("list ledger rows of %s: %w", inventoryID, err)
	}
	return items, nil
}
