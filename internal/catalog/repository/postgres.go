package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-stock-service/internal/database"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

type itemRow struct {
	ID            string          `db:"id"`
	Name          string          `db:"name"`
	Unit          string          `db:"unit"`
	CountPerBunch decimal.Decimal `db:"count_per_bunch"`
}

var itemQueries = map[model.ItemType]string{
	model.ItemTypeRawMaterial: `SELECT id, name, unit, 1::numeric AS count_per_bunch FROM raw_materials WHERE id = $1`,
	model.ItemTypeProductPart: `SELECT id, name, '' AS unit, count_per_bunch FROM product_parts WHERE id = $1`,
	model.ItemTypeProduct:     `SELECT id, name, '' AS unit, 1::numeric AS count_per_bunch FROM products WHERE id = $1`,
}

func (r *PGRepository) FindItem(ctx context.Context, ref model.ItemRef) (*model.CatalogItem, error) {
	query, ok := itemQueries[ref.Type]
	if !ok || database.MalformedID(ref.ID) {
		return nil, nil
	}

	db := database.Ext(ctx, r.DB)

	var row itemRow
	if err := sqlx.GetContext(ctx, db, &row, query, ref.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find %s: %w", ref, err)
	}

	item := &model.CatalogItem{
		Ref:           ref,
		Name:          row.Name,
		Unit:          row.Unit,
		CountPerBunch: row.CountPerBunch,
	}

	if ref.Type == model.ItemTypeRawMaterial {
		return item, nil
	}

	var reqs []model.RequirementRow
	err := sqlx.SelectContext(ctx, db, &reqs, `
		SELECT owner_id, required_item_id, required_item_type, quantity, unit, position
		FROM bom_requirements
		WHERE owner_type = $1 AND owner_id = $2
		ORDER BY position, required_item_type, required_item_id`, ref.Type, ref.ID)
	if err != nil {
		return nil, fmt.Errorf("find requirements of %s: %w", ref, err)
	}

	for _, req := range reqs {
		unit := ""
		if req.Unit != nil {
			unit = *req.Unit
		}
		item.Requirements = append(item.Requirements, model.Requirement{
			Item:            model.ItemRef{Type: req.RequiredItemType, ID: req.RequiredItemID},
			QuantityPerUnit: req.Quantity,
			Unit:            unit,
		})
	}

	return item, nil
}

func (r *PGRepository) FindColor(ctx context.Context, id string) (*model.Color, error) {
	if database.MalformedID(id) {
		return nil, nil
	}
	var c model.Color
	err := sqlx.GetContext(ctx, database.Ext(ctx, r.DB), &c, `SELECT id, name FROM colors WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find color %s: %w", id, err)
	}
	return &c, nil
}
