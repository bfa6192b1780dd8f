package catalog

import (
	"context"

	"github.com/fekuna/omnipos-stock-service/internal/model"
)

// Reader resolves catalog items and their one-level bill of materials.
// Missing rows come back as nil, nil.
type Reader interface {
	FindItem(ctx context.Context, ref model.ItemRef) (*model.CatalogItem, error)
	FindColor(ctx context.Context, id string) (*model.Color, error)
}
