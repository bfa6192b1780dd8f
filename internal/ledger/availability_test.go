package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-stock-service/internal/apperror"
	"github.com/fekuna/omnipos-stock-service/internal/ledger"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) validator() *ledger.Validator {
	return ledger.NewValidator(f.store.Ledger(), f.store.Catalog(), f.store.Inventories())
}

func TestGroupSumsMatchingLines(t *testing.T) {
	lines := ledger.Group([]ledger.Line{
		{Item: wire, Quantity: d(4)},
		{Item: petal, ColorID: &red, Quantity: d(1)},
		{Item: wire, Quantity: d(6)},
		{Item: petal, Quantity: d(2)},
	})

	require.Len(t, lines, 3)
	assert.Equal(t, wire, lines[0].Item)
	assert.Equal(t, "10", lines[0].Quantity.String())
	assert.Equal(t, &red, lines[1].ColorID)
	assert.Nil(t, lines[2].ColorID)
}

func TestCheckUsesGroupedTotal(t *testing.T) {
	f := newFixture(t)
	f.store.Ledger().Seed(f.key(f.central, wire, nil), d(10))

	err := f.validator().Check(context.Background(), f.central, nil, []ledger.Line{
		{Item: wire, Quantity: d(6)},
		{Item: wire, Quantity: d(6)},
	}, "")

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	require.Equal(t, apperror.KindShortage, appErr.Kind)
	assert.Equal(t, "12", appErr.Shortage.Requested.String())
	assert.Equal(t, "10", appErr.Shortage.Available.String())
}

func TestCheckReservesComponentsAcrossProducts(t *testing.T) {
	f := newFixture(t)
	f.store.Ledger().Seed(f.key(f.assembler, petal, &red), d(30))
	f.store.Ledger().Seed(f.key(f.assembler, wire, nil), d(10))

	// 8 bouquets need 24 petals, then 3 petals directly leave 3 spare.
	err := f.validator().CheckAvailability(context.Background(), f.assembler, []ledger.Line{
		{Item: bouquet, ColorID: &red, Quantity: d(8)},
		{Item: petal, ColorID: &red, Quantity: d(3)},
	})
	require.NoError(t, err)

	err = f.validator().CheckAvailability(context.Background(), f.assembler, []ledger.Line{
		{Item: bouquet, ColorID: &red, Quantity: d(8)},
		{Item: petal, ColorID: &red, Quantity: d(7)},
	})
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, "petal", appErr.Shortage.ItemID)
	assert.Equal(t, "6", appErr.Shortage.Available.String())
}

func TestCheckReportsLockBeforeShortage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Counts().Create(ctx, &model.InventoryCount{
		BaseModel:   model.BaseModel{ID: "count-1"},
		InventoryID: f.central.ID,
		CountDate:   time.Now(),
	}))

	err := f.validator().Check(ctx, f.central, nil, []ledger.Line{{Item: wire, Quantity: d(1000)}}, "")

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	require.Equal(t, apperror.KindLock, appErr.Kind)
	assert.Equal(t, apperror.LockOpenCount, appErr.Lock.Cause)
	assert.Equal(t, "from_inventory", appErr.Field)
}

func TestCheckIgnoresExcludedPendingTransfer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.Ledger().Seed(f.key(f.central, wire, nil), d(5))

	require.NoError(t, f.store.Transfers().Create(ctx, &model.Transfer{
		BaseModel:       model.BaseModel{ID: "tr-1"},
		FromInventoryID: &f.central.ID,
		Status:          model.TransferStatusPending,
	}))

	lines := []ledger.Line{{Item: wire, Quantity: d(5)}}

	err := f.validator().Check(ctx, f.central, nil, lines, "")
	assert.True(t, apperror.IsKind(err, apperror.KindLock))

	assert.NoError(t, f.validator().Check(ctx, f.central, nil, lines, "tr-1"))
}

func TestCheckReversal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.Ledger().Seed(f.key(f.assembler, wire, nil), d(4))

	items := []model.TransferItem{{ItemType: wire.Type, ItemID: wire.ID, Quantity: d(5)}}

	err := f.validator().CheckReversal(ctx, f.central, f.assembler, items)
	assert.True(t, apperror.IsKind(err, apperror.KindShortage))

	items[0].Quantity = d(4)
	assert.NoError(t, f.validator().CheckReversal(ctx, f.central, f.assembler, items))
}
