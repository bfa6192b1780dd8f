package ledger_test

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-stock-service/internal/ledger"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoverApplyThenReverseRestoresRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.Ledger().Seed(f.key(f.assembler, bouquet, &red), d(2))
	f.store.Ledger().Seed(f.key(f.assembler, petal, &red), d(15))
	f.store.Ledger().Seed(f.key(f.assembler, wire, nil), d(5))
	before := f.store.LedgerSnapshot()

	mover := ledger.NewMover(f.store.Ledger(), f.store.Catalog())
	items := []model.TransferItem{
		{ID: "i1", ItemType: bouquet.Type, ItemID: bouquet.ID, ColorID: &red, Quantity: d(5)},
		{ID: "i2", ItemType: wire.Type, ItemID: wire.ID, Quantity: d(1)},
	}

	require.NoError(t, mover.Apply(ctx, f.assembler, f.central, items))

	assert.Equal(t, "3", items[0].ExplodedQuantity.String())
	assert.True(t, items[1].ExplodedQuantity.IsZero())
	assert.Equal(t, "0", f.qty(f.assembler, bouquet, &red))
	assert.Equal(t, "6", f.qty(f.assembler, petal, &red))
	assert.Equal(t, "1", f.qty(f.assembler, wire, nil))
	assert.Equal(t, "5", f.qty(f.central, bouquet, &red))
	assert.Equal(t, "1", f.qty(f.central, wire, nil))

	require.NoError(t, mover.Reverse(ctx, f.assembler, f.central, items))

	after := f.store.LedgerSnapshot()
	for key, qty := range before {
		assert.Equal(t, qty, after[key], key)
	}
	assert.Equal(t, "0", f.qty(f.central, bouquet, &red))
	assert.Equal(t, "0", f.qty(f.central, wire, nil))
}

func TestMoverOutgoingOnly(t *testing.T) {
	f := newFixture(t)
	f.store.Ledger().Seed(f.key(f.central, wire, nil), d(9))

	mover := ledger.NewMover(f.store.Ledger(), f.store.Catalog())
	items := []model.TransferItem{{ItemType: wire.Type, ItemID: wire.ID, Quantity: d(4)}}

	require.NoError(t, mover.Apply(context.Background(), f.central, nil, items))
	assert.Equal(t, "5", f.qty(f.central, wire, nil))
}
