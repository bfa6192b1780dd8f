package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-stock-service/internal/database"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/fekuna/omnipos-stock-service/internal/transfer/dto"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, t *model.Transfer) error {
	query := `
		INSERT INTO transfers (
			id, from_user_id, to_user_id, from_inventory_id, to_inventory_id, creator_user_id,
			transfer_date, status, approved_by, approved_at, rejected_by, rejected_at,
			description, created_at, updated_at
		) VALUES (
			:id, :from_user_id, :to_user_id, :from_inventory_id, :to_inventory_id, :creator_user_id,
			:transfer_date, :status, :approved_by, :approved_at, :rejected_by, :rejected_at,
			:description, :created_at, :updated_at
		)`

	if _, err := sqlx.NamedExecContext(ctx, database.Ext(ctx, r.DB), query, t); err != nil {
		return fmt.Errorf("insert transfer: %w", err)
	}
	return r.insertItems(ctx, t.Items)
}

func (r *PGRepository) insertItems(ctx context.Context, items []model.TransferItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `
		INSERT INTO transfer_items (id, transfer_id, item_type, item_id, color_id, quantity, exploded_quantity, notes, created_at)
		VALUES (:id, :transfer_id, :item_type, :item_id, :color_id, :quantity, :exploded_quantity, :notes, :created_at)`

	if _, err := sqlx.NamedExecContext(ctx, database.Ext(ctx, r.DB), query, items); err != nil {
		return fmt.Errorf("insert transfer items: %w", err)
	}
	return nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Transfer, error) {
	return r.find(ctx, id, "")
}

func (r *PGRepository) FindByIDForUpdate(ctx context.Context, id string) (*model.Transfer, error) {
	return r.find(ctx, id, " FOR UPDATE")
}

func (r *PGRepository) find(ctx context.Context, id, suffix string) (*model.Transfer, error) {
	if database.MalformedID(id) {
		return nil, nil
	}
	db := database.Ext(ctx, r.DB)

	var t model.Transfer
	if err := sqlx.GetContext(ctx, db, &t, `SELECT * FROM transfers WHERE id = $1`+suffix, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find transfer %s: %w", id, err)
	}

	t.Items = []model.TransferItem{}
	if err := sqlx.SelectContext(ctx, db, &t.Items,
		`SELECT * FROM transfer_items WHERE transfer_id = $1 ORDER BY created_at, id`, id); err != nil {
		return nil, fmt.Errorf("find items of transfer %s: %w", id, err)
	}
	return &t, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.TransferFilters) ([]model.Transfer, int, error) {
	db := database.Ext(ctx, r.DB)
	transfers := []model.Transfer{}
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Status != nil {
		conditions = append(conditions, "status = :status")
		args["status"] = *f.Status
	}
	if f.InventoryID != nil {
		if database.MalformedID(*f.InventoryID) {
			return transfers, 0, nil
		}
		conditions = append(conditions, "(from_inventory_id = :inventory_id OR to_inventory_id = :inventory_id)")
		args["inventory_id"] = *f.InventoryID
	}
	if f.UserID != nil {
		if database.MalformedID(*f.UserID) {
			return transfers, 0, nil
		}
		conditions = append(conditions, "(from_user_id = :user_id OR to_user_id = :user_id OR creator_user_id = :user_id)")
		args["user_id"] = *f.UserID
	}
	if f.DateFrom != nil {
		conditions = append(conditions, "transfer_date >= :date_from")
		args["date_from"] = *f.DateFrom
	}
	if f.DateTo != nil {
		conditions = append(conditions, "transfer_date <= :date_to")
		args["date_to"] = *f.DateTo
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	rows, err := sqlx.NamedQueryContext(ctx, db, "SELECT count(*) FROM transfers"+whereClause, args)
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

	query := "SELECT * FROM transfers" + whereClause + " ORDER BY transfer_date DESC, id"
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
		var t model.Transfer
		if err := nstmt.StructScan(&t); err != nil {
			return nil, 0, err
		}
		transfers = append(transfers, t)
	}
	if err := nstmt.Err(); err != nil {
		return nil, 0, err
	}

	return transfers, count, r.attachItems(ctx, transfers)
}

func (r *PGRepository) attachItems(ctx context.Context, transfers []model.Transfer) error {
	if len(transfers) == 0 {
		return nil
	}

	ids := make([]string, len(transfers))
	index := make(map[string]int, len(transfers))
	for i := range transfers {
		ids[i] = transfers[i].ID
		index[transfers[i].ID] = i
		transfers[i].Items = []model.TransferItem{}
	}

	query, args, err := sqlx.In(`SELECT * FROM transfer_items WHERE transfer_id IN (?) ORDER BY created_at, id`, ids)
	if err != nil {
		return err
	}

	db := database.Ext(ctx, r.DB)
	var items []model.TransferItem
	if err := sqlx.SelectContext(ctx, db, &items, db.Rebind(query), args...); err != nil {
		return fmt.Errorf("load transfer items: %w", err)
	}
	for _, it := range items {
		i := index[it.TransferID]
		transfers[i].Items = append(transfers[i].Items, it)
	}
	return nil
}

func (r *PGRepository) Update(ctx context.Context, t *model.Transfer) error {
	t.UpdatedAt = time.Now()
	query := `
		UPDATE transfers SET
			transfer_date = :transfer_date,
			status = :status,
			approved_by = :approved_by,
			approved_at = :approved_at,
			rejected_by = :rejected_by,
			rejected_at = :rejected_at,
			description = :description,
			updated_at = :updated_at
		WHERE id = :id`

	if _, err := sqlx.NamedExecContext(ctx, database.Ext(ctx, r.DB), query, t); err != nil {
		return fmt.Errorf("update transfer %s: %w", t.ID, err)
	}
	return nil
}

func (r *PGRepository) ReplaceItems(ctx context.Context, transferID string, items []model.TransferItem) error {
	if _, err := database.Ext(ctx, r.DB).ExecContext(ctx,
		`DELETE FROM transfer_items WHERE transfer_id = $1`, transferID); err != nil {
		return fmt.Errorf("clear items of transfer %s: %w", transferID, err)
	}
	return r.insertItems(ctx, items)
}

func (r *PGRepository) UpdateItemsExploded(ctx context.Context, items []model.TransferItem) error {
	db := database.Ext(ctx, r.DB)
	for _, it := range items {
		if _, err := db.ExecContext(ctx,
			`UPDATE transfer_items SET exploded_quantity = $1 WHERE id = $2`, it.ExplodedQuantity, it.ID); err != nil {
			return fmt.Errorf("update transfer item %s: %w", it.ID, err)
		}
	}
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	if _, err := database.Ext(ctx, r.DB).ExecContext(ctx, `DELETE FROM transfers WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete transfer %s: %w", id, err)
	}
	return nil
}
