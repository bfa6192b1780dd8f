package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if database.MalformedID(id) {
		return nil, nil
	}
	db := database.Ext(ctx, r.DB)

	var u model.User
	err := sqlx.GetContext(ctx, db, &u, `SELECT id, firstname, lastname, username FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}

	if err := sqlx.SelectContext(ctx, db, &u.Roles, `SELECT role FROM user_roles WHERE user_id = $1 ORDER BY role`, id); err != nil {
		return nil, fmt.Errorf("find roles of user %s: %w", id, err)
	}

	return &u, nil
}

func (r *PGRepository) HasRole(ctx context.Context, id string, role model.Role) (bool, error) {
	if database.MalformedID(id) {
		return false, nil
	}
	var ok bool
	err := sqlx.GetContext(ctx, database.Ext(ctx, r.DB), &ok,
		`SELECT EXISTS (SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2)`, id, role)
	if err != nil {
		return false, fmt.Errorf("check role %s of user %s: %w", role, id, err)
	}
	return ok, nil
}
