package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type InventoryCount struct {
	BaseModel
	InventoryID   string    `db:"inventory_id" json:"inventory_id"`
	CountDate     time.Time `db:"count_date" json:"count_date"`
	CounterUserID *string   `db:"counter_user_id" json:"counter_user_id"`
	// IsLocked is true once the count is finalized.
	IsLocked bool                 `db:"is_locked" json:"is_locked"`
	Notes    *string              `db:"notes" json:"notes"`
	Items    []InventoryCountItem `db:"-" json:"items"`
}

type InventoryCountItem struct {
	BaseModel
	InventoryCountID string              `db:"inventory_count_id" json:"inventory_count_id"`
	ItemType         ItemType            `db:"item_type" json:"item_type"`
	ItemID           string              `db:"item_id" json:"item_id"`
	ColorID          *string             `db:"color_id" json:"color_id"`
	SystemQuantity   decimal.Decimal     `db:"system_quantity" json:"system_quantity"`
	ActualQuantity   decimal.NullDecimal `db:"actual_quantity" json:"actual_quantity"`
	Difference       decimal.Decimal     `db:"difference" json:"difference"`
	Notes            *string             `db:"notes" json:"notes"`
}

func (i *InventoryCountItem) Ref() ItemRef {
	return ItemRef{Type: i.ItemType, ID: i.ItemID}
}

// SetActual records a counted quantity and recomputes the difference.
func (i *InventoryCountItem) SetActual(actual decimal.Decimal) {
	i.ActualQuantity = decimal.NullDecimal{Decimal: actual, Valid: true}
	i.Difference = actual.Sub(i.SystemQuantity)
}
