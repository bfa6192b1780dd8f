package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-stock-service/internal/apperror"
	"github.com/fekuna/omnipos-stock-service/internal/database/dbtest"
	invrepo "github.com/fekuna/omnipos-stock-service/internal/inventory/repository"
	"github.com/fekuna/omnipos-stock-service/internal/inventorycount/repository"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCount(inventoryID string) *model.InventoryCount {
	now := time.Now()
	return &model.InventoryCount{
		BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		InventoryID: inventoryID,
		CountDate:   now,
	}
}

func TestCreateRejectsSecondOpenCount(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	inv, err := invrepo.NewPGRepository(db).GetOrCreateShared(ctx, model.InventoryTypeCentralWarehouse)
	require.NoError(t, err)

	repo := repository.NewPGRepository(db)
	first := newCount(inv.ID)
	require.NoError(t, repo.Create(ctx, first))

	err = repo.Create(ctx, newCount(inv.ID))
	var appErr *apperror.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.KindState, appErr.Kind)
	assert.Equal(t, "count_already_open", appErr.Code)

	require.NoError(t, repo.MarkFinalized(ctx, first.ID))
	require.NoError(t, repo.Create(ctx, newCount(inv.ID)))
}

func TestFindMalformedIDIsNotFound(t *testing.T) {
	db := dbtest.Open(t)

	c, err := repository.NewPGRepository(db).FindByID(context.Background(), "42")
	require.NoError(t, err)
	assert.Nil(t, c)
}
