package ledger_test

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-stock-service/internal/apperror"
	"github.com/fekuna/omnipos-stock-service/internal/ledger"
	"github.com/fekuna/omnipos-stock-service/internal/memstore"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	wire    = model.ItemRef{Type: model.ItemTypeRawMaterial, ID: "wire"}
	petal   = model.ItemRef{Type: model.ItemTypeProductPart, ID: "petal"}
	bouquet = model.ItemRef{Type: model.ItemTypeProduct, ID: "bouquet"}
	red     = "red"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

type fixture struct {
	store     *memstore.Store
	assembler *model.Inventory
	central   *model.Inventory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memstore.New()
	s.Catalog().PutColor(model.Color{ID: red, Name: "Red"})
	s.Catalog().PutItem(model.CatalogItem{Ref: wire, Name: "Wire"})
	s.Catalog().PutItem(model.CatalogItem{Ref: petal, Name: "Petal", CountPerBunch: d(1)})
	s.Catalog().PutItem(model.CatalogItem{Ref: bouquet, Name: "Bouquet", Requirements: []model.Requirement{
		{Item: petal, QuantityPerUnit: d(3)},
		{Item: wire, QuantityPerUnit: d(1)},
	}})

	owner := model.User{ID: "u-asm", FirstName: "Sara", LastName: "Lee"}
	s.Users().Put(owner)

	ctx := context.Background()
	asm, err := s.Inventories().GetOrCreatePersonal(ctx, &owner, model.InventoryTypeAssembler)
	require.NoError(t, err)
	central, err := s.Inventories().GetOrCreateShared(ctx, model.InventoryTypeCentralWarehouse)
	require.NoError(t, err)

	return &fixture{store: s, assembler: asm, central: central}
}

func (f *fixture) key(inv *model.Inventory, item model.ItemRef, color *string) model.StockKey {
	return model.StockKey{InventoryID: inv.ID, Item: item, ColorID: color}
}

func (f *fixture) env(inv *model.Inventory) ledger.Env {
	return ledger.Env{Rows: f.store.Ledger(), Catalog: f.store.Catalog(), Inventory: inv}
}

func (f *fixture) qty(inv *model.Inventory, item model.ItemRef, color *string) string {
	return f.store.Ledger().Quantity(f.key(inv, item, color)).String()
}

func TestStrategyFor(t *testing.T) {
	s, err := ledger.StrategyFor(model.ItemTypeProduct)
	require.NoError(t, err)
	assert.IsType(t, ledger.CompositeStrategy{}, s)

	s, err = ledger.StrategyFor(model.ItemTypeRawMaterial)
	require.NoError(t, err)
	assert.IsType(t, ledger.DefaultStrategy{}, s)

	_, err = ledger.StrategyFor("gadget")
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestDefaultStrategyRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.Ledger().Seed(f.key(f.central, wire, nil), d(100))

	row, err := f.store.Ledger().Acquire(ctx, f.key(f.central, wire, nil))
	require.NoError(t, err)

	s := ledger.DefaultStrategy{}
	exploded, err := s.HandleOutgoing(ctx, f.env(f.central), row, d(30))
	require.NoError(t, err)
	assert.True(t, exploded.IsZero())
	assert.Equal(t, "70", f.qty(f.central, wire, nil))

	require.NoError(t, s.ReverseOutgoing(ctx, f.env(f.central), row, d(30), exploded))
	assert.Equal(t, "100", f.qty(f.central, wire, nil))
}

func TestDefaultValidateOutgoingMissingRow(t *testing.T) {
	f := newFixture(t)

	err := ledger.DefaultStrategy{}.ValidateOutgoing(context.Background(), f.env(f.central), ledger.Line{Item: wire, Quantity: d(1)})

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindShortage, appErr.Kind)
	assert.Equal(t, "Wire", appErr.Shortage.ItemName)
	assert.True(t, appErr.Shortage.Available.IsZero())
}

func TestCompositeUsesDirectStockFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.Ledger().Seed(f.key(f.assembler, bouquet, &red), d(5))
	f.store.Ledger().Seed(f.key(f.assembler, petal, &red), d(30))

	row, err := f.store.Ledger().Acquire(ctx, f.key(f.assembler, bouquet, &red))
	require.NoError(t, err)

	exploded, err := ledger.CompositeStrategy{}.HandleOutgoing(ctx, f.env(f.assembler), row, d(4))
	require.NoError(t, err)

	assert.True(t, exploded.IsZero())
	assert.Equal(t, "1", f.qty(f.assembler, bouquet, &red))
	assert.Equal(t, "30", f.qty(f.assembler, petal, &red))
}

func TestCompositeExplodesShortfall(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.Ledger().Seed(f.key(f.assembler, bouquet, &red), d(1))
	f.store.Ledger().Seed(f.key(f.assembler, petal, &red), d(20))
	f.store.Ledger().Seed(f.key(f.assembler, wire, nil), d(10))

	row, err := f.store.Ledger().Acquire(ctx, f.key(f.assembler, bouquet, &red))
	require.NoError(t, err)

	s := ledger.CompositeStrategy{}
	exploded, err := s.HandleOutgoing(ctx, f.env(f.assembler), row, d(4))
	require.NoError(t, err)

	assert.Equal(t, "3", exploded.String())
	assert.Equal(t, "0", f.qty(f.assembler, bouquet, &red))
	assert.Equal(t, "11", f.qty(f.assembler, petal, &red))
	assert.Equal(t, "7", f.qty(f.assembler, wire, nil))

	require.NoError(t, s.ReverseOutgoing(ctx, f.env(f.assembler), row, d(4), exploded))
	assert.Equal(t, "1", f.qty(f.assembler, bouquet, &red))
	assert.Equal(t, "20", f.qty(f.assembler, petal, &red))
	assert.Equal(t, "10", f.qty(f.assembler, wire, nil))
}

func TestCompositeOutsideAssemblerIsDirect(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.Ledger().Seed(f.key(f.central, petal, &red), d(100))

	err := ledger.CompositeStrategy{}.ValidateOutgoing(ctx, f.env(f.central), ledger.Line{Item: bouquet, ColorID: &red, Quantity: d(1)})

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindShortage, appErr.Kind)
	assert.Equal(t, "bouquet", appErr.Shortage.ItemID)
	assert.False(t, appErr.Shortage.Component)
}

func TestCompositeShortageNamesComponent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.Ledger().Seed(f.key(f.assembler, petal, &red), d(10))
	f.store.Ledger().Seed(f.key(f.assembler, wire, nil), d(50))

	err := ledger.CompositeStrategy{}.ValidateOutgoing(ctx, f.env(f.assembler), ledger.Line{Item: bouquet, ColorID: &red, Quantity: d(4)})

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	require.Equal(t, apperror.KindShortage, appErr.Kind)
	assert.Equal(t, "petal", appErr.Shortage.ItemID)
	assert.Equal(t, "Red", appErr.Shortage.ColorName)
	assert.Equal(t, "12", appErr.Shortage.Requested.String())
	assert.Equal(t, "10", appErr.Shortage.Available.String())
	assert.True(t, appErr.Shortage.Component)
}

func TestCompositeValidateReverseIncomingIsDirect(t *testing.T) {
	f := newFixture(t)
	f.store.Ledger().Seed(f.key(f.assembler, bouquet, &red), d(2))

	err := ledger.CompositeStrategy{}.ValidateReverseIncoming(context.Background(), f.env(f.assembler), ledger.Line{Item: bouquet, ColorID: &red, Quantity: d(3)})
	assert.True(t, apperror.IsKind(err, apperror.KindShortage))
}
