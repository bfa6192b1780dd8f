package model

import (
	"fmt"
	"strings"
)

// ItemType tags the kind of stock a ledger row holds.
type ItemType string

const (
	ItemTypeRawMaterial ItemType = "raw_material"
	ItemTypeProductPart ItemType = "product_part"
	ItemTypeProduct     ItemType = "product"
)

var itemTypes = []ItemType{ItemTypeRawMaterial, ItemTypeProductPart, ItemTypeProduct}

func ItemTypes() []ItemType {
	out := make([]ItemType, len(itemTypes))
	copy(out, itemTypes)
	return out
}

func (t ItemType) Valid() bool {
	for _, v := range itemTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Color drops the color for raw materials, which are never colored.
func (t ItemType) Color(colorID *string) *string {
	if t == ItemTypeRawMaterial {
		return nil
	}
	return colorID
}

// ItemRef identifies a catalog item across the three item tables.
type ItemRef struct {
	Type ItemType `db:"item_type" json:"item_type"`
	ID   string   `db:"item_id" json:"item_id"`
}

func (r ItemRef) String() string {
	return string(r.Type) + ":" + r.ID
}

// StockKey is the identity of one ledger row.
type StockKey struct {
	InventoryID string
	Item        ItemRef
	ColorID     *string
}

// Key renders the row identity for map grouping; a nil color is distinct from any id.
func (k StockKey) Key() string {
	return strings.Join([]string{k.InventoryID, LineKey(k.Item, k.ColorID)}, "|")
}

func (k StockKey) String() string {
	return fmt.Sprintf("inventory=%s item=%s color=%s", k.InventoryID, k.Item, ColorString(k.ColorID))
}

// LineKey groups transfer or count lines by (item, type, color).
func LineKey(item ItemRef, colorID *string) string {
	return item.String() + "|" + ColorString(colorID)
}

func ColorString(colorID *string) string {
	if colorID == nil {
		return "-"
	}
	return *colorID
}

// SameID compares two nullable ids such as a color or an owning user.
func SameID(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
