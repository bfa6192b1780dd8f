package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fekuna/omnipos-stock-service/internal/database"
	"github.com/fekuna/omnipos-stock-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Inventory, error) {
	if database.MalformedID(id) {
		return nil, nil
	}
	var inv model.Inventory
	err := sqlx.GetContext(ctx, database.Ext(ctx, r.DB), &inv, `SELECT * FROM inventories WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find inventory %s: %w", id, err)
	}
	return &inv, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.InventoryFilters) ([]model.Inventory, int, error) {
	db := database.Ext(ctx, r.DB)
	items := []model.Inventory{}
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Type != nil {
		conditions = append(conditions, "type = :type")
		args["type"] = *f.Type
	}
	if f.UserID != nil {
		if database.MalformedID(*f.UserID) {
			return items, 0, nil
		}
		conditions = append(conditions, "user_id = :user_id")
		args["user_id"] = *f.UserID
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	rows, err := sqlx.NamedQueryContext(ctx, db, "SELECT count(*) FROM inventories"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			rows.Close()
			return nil, 0, err
		}
	}
	rows.Close()

	query := "SELECT * FROM inventories" + whereClause + " ORDER BY type, name"
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	nstmt, err := sqlx.NamedQueryContext(ctx, db, query, args)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	for nstmt.Next() {
		var inv model.Inventory
		if err := nstmt.StructScan(&inv); err != nil {
			return nil, 0, err
		}
		items = append(items, inv)
	}

	return items, count, nstmt.Err()
}

func (r *PGRepository) LockByIDs(ctx context.Context, ids ...string) (map[string]*model.Inventory, error) {
	out := map[string]*model.Inventory{}
	if len(ids) == 0 {
		return out, nil
	}

	sorted := make([]string, 0, len(ids))
	for _, id := range ids {
		if !database.MalformedID(id) {
			sorted = append(sorted, id)
		}
	}
	if len(sorted) == 0 {
		return out, nil
	}
	sort.Strings(sorted)

	query, args, err := sqlx.In(`SELECT * FROM inventories WHERE id IN (?) ORDER BY id FOR UPDATE`, sorted)
	if err != nil {
		return nil, err
	}

	db := database.Ext(ctx, r.DB)
	var invs []model.Inventory
	if err := sqlx.SelectContext(ctx, db, &invs, db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("lock inventories: %w", err)
	}

	for i := range invs {
		out[invs[i].ID] = &invs[i]
	}
	return out, nil
}

func (r *PGRepository) GetOrCreateShared(ctx context.Context, t model.InventoryType) (*model.Inventory, error) {
	desc := "Shared inventory - " + t.Label()
	if err := r.insertIgnore(ctx, nil, t, t.Label(), &desc); err != nil {
		return nil, err
	}

	var inv model.Inventory
	err := sqlx.GetContext(ctx, database.Ext(ctx, r.DB), &inv,
		`SELECT * FROM inventories WHERE user_id IS NULL AND type = $1`, t)
	if err != nil {
		return nil, fmt.Errorf("find shared inventory %s: %w", t, err)
	}
	return &inv, nil
}

func (r *PGRepository) GetOrCreatePersonal(ctx context.Context, owner *model.User, t model.InventoryType) (*model.Inventory, error) {
	if err := r.insertIgnore(ctx, &owner.ID, t, owner.FullName(), nil); err != nil {
		return nil, err
	}

	var inv model.Inventory
	err := sqlx.GetContext(ctx, database.Ext(ctx, r.DB), &inv,
		`SELECT * FROM inventories WHERE user_id = $1 AND type = $2`, owner.ID, t)
	if err != nil {
		return nil, fmt.Errorf("find inventory of user %s: %w", owner.ID, err)
	}
	return &inv, nil
}

func (r *PGRepository) insertIgnore(ctx context.Context, userID *string, t model.InventoryType, name string, desc *string) error {
	now := time.Now()
	inv := model.Inventory{
		BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		UserID:      userID,
		Type:        t,
		Name:        name,
		Description: desc,
	}

	_, err := sqlx.NamedExecContext(ctx, database.Ext(ctx, r.DB), `
		INSERT INTO inventories (id, user_id, type, name, description, created_at, updated_at)
		VALUES (:id, :user_id, :type, :name, :description, :created_at, :updated_at)
		ON CONFLICT ON CONSTRAINT inventories_user_type_key DO NOTHING`, inv)
	if err != nil {
		return fmt.Errorf("provision inventory %s: %w", t, err)
	}
	return nil
}

func (r *PGRepository) LockStatus(ctx context.Context, inventoryID, excludeTransferID string) (model.LockStatus, error) {
	var status model.LockStatus
	err := sqlx.GetContext(ctx, database.Ext(ctx, r.DB), &status, `
		SELECT
			EXISTS (
				SELECT 1 FROM inventory_counts
				WHERE inventory_id = $1 AND is_locked = FALSE
			) AS has_open_count,
			EXISTS (
				SELECT 1 FROM transfers
				WHERE status = 'pending'
				  AND (from_inventory_id = $1 OR to_inventory_id = $1)
				  AND ($2 = '' OR id::text <> $2)
			) AS has_pending_transfers`, inventoryID, excludeTransferID)
	if err != nil {
		return status, fmt.Errorf("lock status of %s: %w", inventoryID, err)
	}
	return status, nil
}
