package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

func (r *PGRepository) Create(ctx context.Context, p *model.Production) error {
	query := `
		INSERT INTO productions (
			id, user_id, product_id, product_part_id, color_id, fabric_id, bunch_count,
			production_date, approved_by, approved_at, description, created_at, updated_at
		) VALUES (
			:id, :user_id, :product_id, :product_part_id, :color_id, :fabric_id, :bunch_count,
			:production_date, :approved_by, :approved_at, :description, :created_at, :updated_at
		)`

	if _, err := sqlx.NamedExecContext(ctx, database.Ext(ctx, r.DB), query, p); err != nil {
		return fmt.Errorf("insert production: %w", err)
	}
	return nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Production, error) {
	return r.find(ctx, `SELECT * FROM productions WHERE id = $1`, id)
}

func (r *PGRepository) FindByIDForUpdate(ctx context.Context, id string) (*model.Production, error) {
	return r.find(ctx, `SELECT * FROM productions WHERE id = $1 FOR UPDATE`, id)
}

func (r *PGRepository) find(ctx context.Context, query, id string) (*model.Production, error) {
	if database.MalformedID(id) {
		return nil, nil
	}
	var p model.Production
	if err := sqlx.GetContext(ctx, database.Ext(ctx, r.DB), &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find production %s: %w", id, err)
	}
	return &p, nil
}

func (r *PGRepository) MarkApproved(ctx context.Context, id, approverID string, at time.Time) error {
	_, err := database.Ext(ctx, r.DB).ExecContext(ctx, `
		UPDATE productions SET approved_by = $2, approved_at = $3, updated_at = $3
		WHERE id = $1`, id, approverID, at)
	if err != nil {
		return fmt.Errorf("approve production %s: %w", id, err)
	}
	return nil
}
