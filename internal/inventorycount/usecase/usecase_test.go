package usecase_test

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-stock-service/internal/apperror"
	"github.com/fekuna/omnipos-stock-service/internal/events"
	"github.com/fekuna/omnipos-stock-service/internal/inventorycount"
	"github.com/fekuna/omnipos-stock-service/internal/inventorycount/dto"
	"github.com/fekuna/omnipos-stock-service/internal/inventorycount/usecase"
	invusecase "github.com/fekuna/omnipos-stock-service/internal/inventory/usecase"
	"github.com/fekuna/omnipos-stock-service/internal/memstore"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/fekuna/omnipos-stock-service/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	wire  = model.ItemRef{Type: model.ItemTypeRawMaterial, ID: "wire"}
	petal = model.ItemRef{Type: model.ItemTypeProductPart, ID: "petal"}
	red   = "red"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

type fixture struct {
	store    *memstore.Store
	central  *model.Inventory
	recorder *events.Recorder
	uc       inventorycount.UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memstore.New()
	s.Catalog().PutColor(model.Color{ID: red, Name: "Red"})
	s.Catalog().PutItem(model.CatalogItem{Ref: wire, Name: "Wire"})
	s.Catalog().PutItem(model.CatalogItem{Ref: petal, Name: "Petal"})

	log := logger.NewNop()
	invs := invusecase.NewInventoryUseCase(s.Inventories(), s.Ledger(), s.Users(), log)
	central, err := invs.Shared(context.Background(), model.InventoryTypeCentralWarehouse)
	require.NoError(t, err)

	rec := &events.Recorder{}
	uc := usecase.NewCountUseCase(s.Counts(), invs, s.Ledger(), s.Catalog(), s, rec, log)
	return &fixture{store: s, central: central, recorder: rec, uc: uc}
}

func (f *fixture) key(item model.ItemRef, color *string) model.StockKey {
	return model.StockKey{InventoryID: f.central.ID, Item: item, ColorID: color}
}

func (f *fixture) start(t *testing.T) *model.InventoryCount {
	t.Helper()
	c, err := f.uc.Start(context.Background(), &dto.StartCountInput{ActorID: "u-keep", InventoryID: f.central.ID})
	require.NoError(t, err)
	return c
}

func (f *fixture) record(t *testing.T, countID string, item model.ItemRef, color *string, qty int64) *model.InventoryCountItem {
	t.Helper()
	it, err := f.uc.RecordCount(context.Background(), &dto.RecordCountInput{
		CountID:        countID,
		ItemType:       item.Type,
		ItemID:         item.ID,
		ColorID:        color,
		ActualQuantity: d(qty),
	})
	require.NoError(t, err)
	return it
}

func TestStartSeedsOneLinePerLedgerRow(t *testing.T) {
	f := newFixture(t)
	f.store.Ledger().Seed(f.key(petal, &red), d(5))

	c := f.start(t)

	require.Len(t, c.Items, 1)
	item := c.Items[0]
	assert.Equal(t, "5", item.SystemQuantity.String())
	assert.False(t, item.ActualQuantity.Valid)
	assert.Equal(t, "-5", item.Difference.String())
	assert.False(t, c.IsLocked)

	status, err := f.store.Inventories().LockStatus(context.Background(), f.central.ID, "")
	require.NoError(t, err)
	assert.True(t, status.HasOpenCount)
}

func TestStartRefusesSecondOpenCount(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	_, err := f.uc.Start(context.Background(), &dto.StartCountInput{InventoryID: f.central.ID})
	assert.True(t, apperror.IsKind(err, apperror.KindState))
}

func TestStartUnknownInventory(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Start(context.Background(), &dto.StartCountInput{InventoryID: "missing"})
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestFinalizeOverwritesLedger(t *testing.T) {
	f := newFixture(t)
	f.store.Ledger().Seed(f.key(petal, &red), d(5))
	c := f.start(t)

	item := f.record(t, c.ID, petal, &red, 8)
	assert.Equal(t, "3", item.Difference.String())

	done, err := f.uc.Finalize(context.Background(), &dto.FinalizeCountInput{CountID: c.ID, AdjustLedger: true})
	require.NoError(t, err)

	assert.True(t, done.IsLocked)
	assert.Equal(t, "8", f.store.Ledger().Quantity(f.key(petal, &red)).String())
	assert.Equal(t, []string{events.CountStarted, events.CountFinalized}, f.recorder.Types())
}

func TestFinalizeWithoutAdjustKeepsLedger(t *testing.T) {
	f := newFixture(t)
	f.store.Ledger().Seed(f.key(wire, nil), d(5))
	c := f.start(t)
	f.record(t, c.ID, wire, nil, 2)

	done, err := f.uc.Finalize(context.Background(), &dto.FinalizeCountInput{CountID: c.ID})
	require.NoError(t, err)

	assert.True(t, done.IsLocked)
	assert.Equal(t, "5", f.store.Ledger().Quantity(f.key(wire, nil)).String())
}

func TestFinalizeRequiresEveryActual(t *testing.T) {
	f := newFixture(t)
	f.store.Ledger().Seed(f.key(wire, nil), d(5))
	f.store.Ledger().Seed(f.key(petal, &red), d(2))
	c := f.start(t)
	f.record(t, c.ID, wire, nil, 5)

	_, err := f.uc.Finalize(context.Background(), &dto.FinalizeCountInput{CountID: c.ID, AdjustLedger: true})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.Len(t, apperror.All(err), 1)

	got, err := f.uc.Get(context.Background(), c.ID)
	require.NoError(t, err)
	assert.False(t, got.IsLocked)
}

func TestFinalizeTwiceIsStateError(t *testing.T) {
	f := newFixture(t)
	c := f.start(t)

	_, err := f.uc.Finalize(context.Background(), &dto.FinalizeCountInput{CountID: c.ID})
	require.NoError(t, err)

	_, err = f.uc.Finalize(context.Background(), &dto.FinalizeCountInput{CountID: c.ID, AdjustLedger: true})
	assert.True(t, apperror.IsKind(err, apperror.KindState))

	_, err = f.uc.RecordCount(context.Background(), &dto.RecordCountInput{
		CountID: c.ID, ItemType: wire.Type, ItemID: wire.ID, ActualQuantity: d(1),
	})
	assert.True(t, apperror.IsKind(err, apperror.KindState))
}

func TestRecordDiscoveredItem(t *testing.T) {
	f := newFixture(t)
	c := f.start(t)

	item := f.record(t, c.ID, wire, nil, 4)
	assert.True(t, item.SystemQuantity.IsZero())
	assert.Equal(t, "4", item.Difference.String())

	again := f.record(t, c.ID, wire, nil, 6)
	assert.Equal(t, item.ID, again.ID)

	items, err := f.uc.ListItems(context.Background(), c.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "6", items[0].ActualQuantity.Decimal.String())

	_, err = f.uc.Finalize(context.Background(), &dto.FinalizeCountInput{CountID: c.ID, AdjustLedger: true})
	require.NoError(t, err)
	assert.Equal(t, "6", f.store.Ledger().Quantity(f.key(wire, nil)).String())
}

func TestRecordCountValidation(t *testing.T) {
	f := newFixture(t)
	c := f.start(t)

	_, err := f.uc.RecordCount(context.Background(), &dto.RecordCountInput{
		CountID:        c.ID,
		ItemType:       model.ItemTypeProductPart,
		ItemID:         "ghost",
		ColorID:        strPtr("blue"),
		ActualQuantity: d(-1),
	})
	require.Error(t, err)

	fields := apperror.Fields(err)
	assert.Contains(t, fields, "actual_quantity")
	assert.Contains(t, fields, "item_id")
	assert.Contains(t, fields, "color_id")
}

func TestRecordDropsColorOnRawMaterial(t *testing.T) {
	f := newFixture(t)
	f.store.Ledger().Seed(f.key(wire, nil), d(5))
	c := f.start(t)

	colored := f.record(t, c.ID, wire, &red, 4)
	assert.Nil(t, colored.ColorID)
	plain := f.record(t, c.ID, wire, nil, 7)
	assert.Equal(t, colored.ID, plain.ID)

	items, err := f.uc.ListItems(context.Background(), c.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "7", items[0].ActualQuantity.Decimal.String())

	_, err = f.uc.Finalize(context.Background(), &dto.FinalizeCountInput{CountID: c.ID, AdjustLedger: true})
	require.NoError(t, err)

	snapshot := f.store.LedgerSnapshot()
	assert.Len(t, snapshot, 1)
	assert.Equal(t, "7", f.store.Ledger().Quantity(f.key(wire, nil)).String())
}

func TestDeleteOnlyOpenCounts(t *testing.T) {
	f := newFixture(t)
	c := f.start(t)
	require.NoError(t, f.uc.Delete(context.Background(), c.ID, "u-keep"))

	status, err := f.store.Inventories().LockStatus(context.Background(), f.central.ID, "")
	require.NoError(t, err)
	assert.False(t, status.HasOpenCount)

	c = f.start(t)
	_, err = f.uc.Finalize(context.Background(), &dto.FinalizeCountInput{CountID: c.ID})
	require.NoError(t, err)
	assert.True(t, apperror.IsKind(f.uc.Delete(context.Background(), c.ID, "u-keep"), apperror.KindState))
}

func TestReconcileAppliesDeltas(t *testing.T) {
	f := newFixture(t)
	f.store.Ledger().Seed(f.key(wire, nil), d(20))

	c, err := f.uc.Reconcile(context.Background(), f.central, "u-mgr", "production p-1", []inventorycount.Adjustment{
		{Item: wire, Delta: d(-20)},
		{Item: petal, Delta: d(10)},
	})
	require.NoError(t, err)

	assert.True(t, c.IsLocked)
	require.Len(t, c.Items, 2)
	assert.Equal(t, "20", c.Items[0].SystemQuantity.String())
	assert.Equal(t, "0", f.store.Ledger().Quantity(f.key(wire, nil)).String())
	assert.Equal(t, "10", f.store.Ledger().Quantity(f.key(petal, nil)).String())

	status, err := f.store.Inventories().LockStatus(context.Background(), f.central.ID, "")
	require.NoError(t, err)
	assert.False(t, status.Locked())
}

func TestReconcileDropsColorOnRawMaterial(t *testing.T) {
	f := newFixture(t)
	f.store.Ledger().Seed(f.key(wire, nil), d(9))

	c, err := f.uc.Reconcile(context.Background(), f.central, "u-mgr", "", []inventorycount.Adjustment{
		{Item: wire, ColorID: &red, Delta: d(-4)},
		{Item: wire, Delta: d(1)},
	})
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	assert.Nil(t, c.Items[0].ColorID)
	assert.Equal(t, "6", f.store.Ledger().Quantity(f.key(wire, nil)).String())
	assert.Len(t, f.store.LedgerSnapshot(), 1)
}

func TestReconcileRefusesWhileCountOpen(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	_, err := f.uc.Reconcile(context.Background(), f.central, "u-mgr", "", []inventorycount.Adjustment{
		{Item: wire, Delta: d(1)},
	})
	assert.True(t, apperror.IsKind(err, apperror.KindLock))
}

func strPtr(s string) *string { return &s }
