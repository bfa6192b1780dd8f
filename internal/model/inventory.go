package model

import (
	"github.com/shopspring/decimal"
)

type InventoryType string

const (
	InventoryTypeFabricCutter     InventoryType = "fabric_cutter"
	InventoryTypeColoringWorker   InventoryType = "coloring_worker"
	InventoryTypeMoldingWorker    InventoryType = "molding_worker"
	InventoryTypeAssembler        InventoryType = "assembler"
	InventoryTypeCentralWarehouse InventoryType = "central_warehouse"
)

var inventoryLabels = map[InventoryType]string{
	InventoryTypeFabricCutter:     "Fabric Cutting Warehouse",
	InventoryTypeColoringWorker:   "Coloring Warehouse",
	InventoryTypeMoldingWorker:    "Molding Warehouse",
	InventoryTypeAssembler:        "Assembler Warehouse",
	InventoryTypeCentralWarehouse: "Central Warehouse",
}

func InventoryTypes() []InventoryType {
	return []InventoryType{
		InventoryTypeFabricCutter,
		InventoryTypeColoringWorker,
		InventoryTypeMoldingWorker,
		InventoryTypeAssembler,
		InventoryTypeCentralWarehouse,
	}
}

func (t InventoryType) Valid() bool {
	_, ok := inventoryLabels[t]
	return ok
}

func (t InventoryType) Label() string {
	if l, ok := inventoryLabels[t]; ok {
		return l
	}
	return string(t)
}

// Shared reports whether the type has one inventory system-wide rather than one per user.
func (t InventoryType) Shared() bool {
	return t.Valid() && t != InventoryTypeAssembler
}

type Inventory struct {
	BaseModel
	UserID      *string       `db:"user_id" json:"user_id"`
	Type        InventoryType `db:"type" json:"type"`
	Name        string        `db:"name" json:"name"`
	Description *string       `db:"description" json:"description"`
}

// InventoryItem is one ledger row. Quantity may be negative only through a physical count.
type InventoryItem struct {
	BaseModel
	InventoryID string          `db:"inventory_id" json:"inventory_id"`
	ItemType    ItemType        `db:"item_type" json:"item_type"`
	ItemID      string          `db:"item_id" json:"item_id"`
	ColorID     *string         `db:"color_id" json:"color_id"`
	Quantity    decimal.Decimal `db:"quantity" json:"quantity"`
	Notes       *string         `db:"notes" json:"notes"`
}

func (i *InventoryItem) Ref() ItemRef {
	return ItemRef{Type: i.ItemType, ID: i.ItemID}
}

func (i *InventoryItem) Key() StockKey {
	return StockKey{InventoryID: i.InventoryID, Item: i.Ref(), ColorID: i.ColorID}
}

// LockStatus is derived on every read, never stored.
type LockStatus struct {
	HasOpenCount        bool `db:"has_open_count" json:"has_open_count"`
	HasPendingTransfers bool `db:"has_pending_transfers" json:"has_pending_transfers"`
}

func (s LockStatus) Locked() bool {
	return s.HasOpenCount || s.HasPendingTransfers
}
