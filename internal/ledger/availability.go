package ledger

import (
	"context"

	"github.com/fekuna/omnipos-stock-service/internal/apperror"
	"github.com/fekuna/omnipos-stock-service/internal/catalog"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/shopspring/decimal"
)

// LockChecker reports whether an inventory is frozen. excludeTransferID lets a
// pending transfer ignore itself.
type LockChecker interface {
	LockStatus(ctx context.Context, inventoryID, excludeTransferID string) (model.LockStatus, error)
}

// Validator runs the pre-flight checks for a ledger mutation: locks first,
// then grouped stock availability. Every check fails fast.
type Validator struct {
	rows    Repository
	catalog catalog.Reader
	locks   LockChecker
}

func NewValidator(rows Repository, catalog catalog.Reader, locks LockChecker) *Validator {
	return &Validator{rows: rows, catalog: catalog, locks: locks}
}

func (v *Validator) EnsureUnlocked(ctx context.Context, field string, inv *model.Inventory, excludeTransferID string) error {
	if inv == nil {
		return nil
	}
	status, err := v.locks.LockStatus(ctx, inv.ID, excludeTransferID)
	if err != nil {
		return err
	}
	if status.HasOpenCount {
		return apperror.Lock(field, inv.ID, inv.Name, apperror.LockOpenCount)
	}
	if status.HasPendingTransfers {
		return apperror.Lock(field, inv.ID, inv.Name, apperror.LockPendingTransfer)
	}
	return nil
}

// Check validates an outgoing movement of lines from one inventory to another.
func (v *Validator) Check(ctx context.Context, from, to *model.Inventory, lines []Line, excludeTransferID string) error {
	if err := v.EnsureUnlocked(ctx, "from_inventory", from, excludeTransferID); err != nil {
		return err
	}
	if err := v.EnsureUnlocked(ctx, "to_inventory", to, excludeTransferID); err != nil {
		return err
	}
	return v.CheckAvailability(ctx, from, lines)
}

// CheckAvailability groups lines by (item, type, color), sums them, and asks
// the item strategy whether from can give each total.
func (v *Validator) CheckAvailability(ctx context.Context, from *model.Inventory, lines []Line) error {
	if from == nil {
		return nil
	}
	env := Env{Rows: v.rows, Catalog: v.catalog, Inventory: from, Reserved: map[string]decimal.Decimal{}}
	for _, line := range Group(lines) {
		strategy, err := StrategyFor(line.Item.Type)
		if err != nil {
			return err
		}
		if err := strategy.ValidateOutgoing(ctx, env, line); err != nil {
			return err
		}
	}
	return nil
}

// CheckReversal validates that an approved transfer can be undone: neither
// inventory may be locked and the destination must still hold what it received.
func (v *Validator) CheckReversal(ctx context.Context, from, to *model.Inventory, items []model.TransferItem) error {
	if err := v.EnsureUnlocked(ctx, "from_inventory", from, ""); err != nil {
		return err
	}
	if err := v.EnsureUnlocked(ctx, "to_inventory", to, ""); err != nil {
		return err
	}
	if to == nil {
		return nil
	}
	env := Env{Rows: v.rows, Catalog: v.catalog, Inventory: to, Reserved: map[string]decimal.Decimal{}}
	for _, line := range Group(LinesOf(items)) {
		strategy, err := StrategyFor(line.Item.Type)
		if err != nil {
			return err
		}
		if err := strategy.ValidateReverseIncoming(ctx, env, line); err != nil {
			return err
		}
	}
	return nil
}

// Group sums lines sharing (item, type, color), keeping first-seen order.
func Group(lines []Line) []Line {
	index := map[string]int{}
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		if i, ok := index[l.Key()]; ok {
			out[i].Quantity = out[i].Quantity.Add(l.Quantity)
			continue
		}
		index[l.Key()] = len(out)
		out = append(out, l)
	}
	return out
}

func LinesOf(items []model.TransferItem) []Line {
	lines := make([]Line, len(items))
	for i, it := range items {
		lines[i] = Line{Item: it.Ref(), ColorID: it.ColorID, Quantity: it.Quantity}
	}
	return lines
}
