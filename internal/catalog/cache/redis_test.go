package cache

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/fekuna/omnipos-stock-service/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReader struct {
	items map[string]*model.CatalogItem
	calls int
}

func (c *countingReader) FindItem(_ context.Context, ref model.ItemRef) (*model.CatalogItem, error) {
	c.calls++
	return c.items[ref.String()], nil
}

func (c *countingReader) FindColor(_ context.Context, id string) (*model.Color, error) {
	c.calls++
	return &model.Color{ID: id, Name: id}, nil
}

func TestReaderFallsBackWhenRedisIsDown(t *testing.T) {
	wire := model.ItemRef{Type: model.ItemTypeRawMaterial, ID: "wire"}
	inner := &countingReader{items: map[string]*model.CatalogItem{
		wire.String(): {Ref: wire, Name: "Wire"},
	}}

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	r := NewReader(inner, client, time.Minute, logger.NewNop())

	item, err := r.FindItem(context.Background(), wire)
	require.NoError(t, err)
	assert.Equal(t, "Wire", item.Name)

	missing, err := r.FindItem(context.Background(), model.ItemRef{Type: model.ItemTypeProduct, ID: "rose"})
	require.NoError(t, err)
	assert.Nil(t, missing)

	color, err := r.FindColor(context.Background(), "red")
	require.NoError(t, err)
	assert.Equal(t, "red", color.ID)
	assert.Equal(t, 3, inner.calls)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "catalog:item:product_part:petal", itemKey(model.ItemRef{Type: model.ItemTypeProductPart, ID: "petal"}))
	assert.Equal(t, "catalog:color:red", colorKey("red"))
}
