package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-stock-service/internal/catalog"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/fekuna/omnipos-stock-service/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Reader is a read-through cache in front of another catalog.Reader. Redis
// failures degrade to the inner reader.
type Reader struct {
	inner  catalog.Reader
	client *redis.Client
	ttl    time.Duration
	logger logger.ZapLogger
}

var _ catalog.Reader = (*Reader)(nil)

func NewReader(inner catalog.Reader, client *redis.Client, ttl time.Duration, log logger.ZapLogger) *Reader {
	return &Reader{inner: inner, client: client, ttl: ttl, logger: log}
}

func itemKey(ref model.ItemRef) string {
	return fmt.Sprintf("catalog:item:%s:%s", ref.Type, ref.ID)
}

func colorKey(id string) string {
	return "catalog:color:" + id
}

func (r *Reader) FindItem(ctx context.Context, ref model.ItemRef) (*model.CatalogItem, error) {
	var item model.CatalogItem
	if r.get(ctx, itemKey(ref), &item) {
		return &item, nil
	}

	found, err := r.inner.FindItem(ctx, ref)
	if err != nil || found == nil {
		return found, err
	}

	r.set(ctx, itemKey(ref), found)
	return found, nil
}

func (r *Reader) FindColor(ctx context.Context, id string) (*model.Color, error) {
	var c model.Color
	if r.get(ctx, colorKey(id), &c) {
		return &c, nil
	}

	found, err := r.inner.FindColor(ctx, id)
	if err != nil || found == nil {
		return found, err
	}

	r.set(ctx, colorKey(id), found)
	return found, nil
}

// Invalidate drops a cached item, used after catalog edits.
func (r *Reader) Invalidate(ctx context.Context, ref model.ItemRef) error {
	return r.client.Del(ctx, itemKey(ref)).Err()
}

func (r *Reader) get(ctx context.Context, key string, dest any) bool {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(val, dest); err != nil {
		r.logger.Warn("catalog cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (r *Reader) set(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.logger.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
}
