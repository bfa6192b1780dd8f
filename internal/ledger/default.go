package ledger

import (
	"context"

	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/shopspring/decimal"
)

// DefaultStrategy moves raw materials and product parts by plain arithmetic.
type DefaultStrategy struct{}

func (DefaultStrategy) HandleOutgoing(ctx context.Context, env Env, row *model.InventoryItem, qty decimal.Decimal) (decimal.Decimal, error) {
	return decimal.Zero, adjust(ctx, env, row, qty.Neg())
}

func (DefaultStrategy) HandleIncoming(ctx context.Context, env Env, row *model.InventoryItem, qty decimal.Decimal) error {
	return adjust(ctx, env, row, qty)
}

func (DefaultStrategy) ReverseOutgoing(ctx context.Context, env Env, row *model.InventoryItem, qty, _ decimal.Decimal) error {
	return adjust(ctx, env, row, qty)
}

func (DefaultStrategy) ReverseIncoming(ctx context.Context, env Env, row *model.InventoryItem, qty decimal.Decimal) error {
	return adjust(ctx, env, row, qty.Neg())
}

func (DefaultStrategy) ValidateOutgoing(ctx context.Context, env Env, line Line) error {
	return validateDirect(ctx, env, line)
}

func (DefaultStrategy) ValidateReverseIncoming(ctx context.Context, env Env, line Line) error {
	return validateDirect(ctx, env, line)
}
