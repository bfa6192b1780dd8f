package model

import "github.com/shopspring/decimal"

// CatalogItem is the read-only view of a raw material, product part or product.
type CatalogItem struct {
	Ref  ItemRef `json:"ref"`
	Name string  `json:"name"`
	Unit string  `json:"unit,omitempty"`
	// CountPerBunch is only meaningful for product parts.
	CountPerBunch decimal.Decimal `json:"count_per_bunch"`
	Requirements  []Requirement   `json:"requirements"`
}

// Requirement is one BOM line: QuantityPerUnit of Item per unit of the owner.
type Requirement struct {
	Item            ItemRef         `json:"item"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit"`
	Unit            string          `json:"unit,omitempty"`
}

// RequirementRow is the flat shape of a bill-of-materials table row.
type RequirementRow struct {
	OwnerID          string          `db:"owner_id"`
	RequiredItemID   string          `db:"required_item_id"`
	RequiredItemType ItemType        `db:"required_item_type"`
	Quantity         decimal.Decimal `db:"quantity"`
	Unit             *string         `db:"unit"`
	Position         int             `db:"position"`
}

type Color struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
