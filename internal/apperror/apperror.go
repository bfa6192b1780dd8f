package apperror

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindState
	KindAuthorization
	KindLock
	KindShortage
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindState:
		return "state"
	case KindAuthorization:
		return "authorization"
	case KindLock:
		return "lock"
	case KindShortage:
		return "shortage"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// LockCause names why an inventory refuses mutations.
type LockCause string

const (
	LockOpenCount       LockCause = "open_count"
	LockPendingTransfer LockCause = "pending_transfer"
)

type LockDetail struct {
	InventoryID   string    `json:"inventory_id"`
	InventoryName string    `json:"inventory_name"`
	Cause         LockCause `json:"cause"`
}

type ShortageDetail struct {
	ItemType  string          `json:"item_type"`
	ItemID    string          `json:"item_id"`
	ItemName  string          `json:"item_name"`
	ColorID   *string         `json:"color_id,omitempty"`
	ColorName string          `json:"color_name,omitempty"`
	Requested decimal.Decimal `json:"requested"`
	Available decimal.Decimal `json:"available"`
	// Component is set when the shortage is on a BOM component of the requested item.
	Component bool `json:"component,omitempty"`
}

// Error is the single error type surfaced by use cases. Code doubles as the
// i18n message id; Message is the English fallback.
type Error struct {
	Kind     Kind
	Field    string
	Code     string
	Message  string
	Params   map[string]any
	Lock     *LockDetail
	Shortage *ShortageDetail
	Cause    error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func Validation(field, code, message string, params map[string]any) *Error {
	return &Error{Kind: KindValidation, Field: field, Code: code, Message: message, Params: params}
}

func State(code, message string, params map[string]any) *Error {
	return &Error{Kind: KindState, Code: code, Message: message, Params: params}
}

func Authorization(code, message string) *Error {
	return &Error{Kind: KindAuthorization, Code: code, Message: message}
}

func NotFound(entity, id string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    "not_found",
		Message: fmt.Sprintf("%s %s not found", entity, id),
		Params:  map[string]any{"Entity": entity, "ID": id},
	}
}

// Lock builds the error raised when an inventory is frozen. field tells the
// caller which endpoint tripped (from_inventory, to_inventory, inventory).
func Lock(field, inventoryID, inventoryName string, cause LockCause) *Error {
	msg := fmt.Sprintf("inventory %q has an open physical count", inventoryName)
	code := "inventory_locked_count"
	if cause == LockPendingTransfer {
		msg = fmt.Sprintf("inventory %q has pending transfers", inventoryName)
		code = "inventory_locked_pending"
	}
	return &Error{
		Kind:    KindLock,
		Field:   field,
		Code:    code,
		Message: msg,
		Params:  map[string]any{"Inventory": inventoryName},
		Lock:    &LockDetail{InventoryID: inventoryID, InventoryName: inventoryName, Cause: cause},
	}
}

func Shortage(d ShortageDetail) *Error {
	name := d.ItemName
	if d.ColorName != "" {
		name = fmt.Sprintf("%s (%s)", d.ItemName, d.ColorName)
	}
	code := "insufficient_stock"
	if d.Component {
		code = "insufficient_component_stock"
	}
	return &Error{
		Kind:    KindShortage,
		Field:   "items",
		Code:    code,
		Message: fmt.Sprintf("insufficient stock for %s: requested %s, available %s", name, d.Requested, d.Available),
		Params: map[string]any{
			"Item":      name,
			"Requested": d.Requested.String(),
			"Available": d.Available.String(),
		},
		Shortage: &d,
	}
}

func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Code: "internal", Message: message, Cause: cause}
}

// Collect merges independent validation failures into one error. It returns
// nil when every input is nil.
func Collect(errs ...error) error {
	return multierr.Combine(errs...)
}

// As returns the first *Error in err, looking through combined errors.
func As(err error) (*Error, bool) {
	for _, e := range multierr.Errors(err) {
		var appErr *Error
		if errors.As(e, &appErr) {
			return appErr, true
		}
	}
	return nil, false
}

func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// All flattens err into its *Error parts, skipping foreign errors.
func All(err error) []*Error {
	var out []*Error
	for _, e := range multierr.Errors(err) {
		var appErr *Error
		if errors.As(e, &appErr) {
			out = append(out, appErr)
		}
	}
	return out
}

// Fields groups the messages of err by field.
func Fields(err error) map[string][]string {
	out := map[string][]string{}
	for _, e := range All(err) {
		field := e.Field
		if field == "" {
			field = e.Kind.String()
		}
		out[field] = append(out[field], e.Message)
	}
	return out
}
