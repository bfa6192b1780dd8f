package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransferStatus string

const (
	TransferStatusPending  TransferStatus = "pending"
	TransferStatusApproved TransferStatus = "approved"
	TransferStatusRejected TransferStatus = "rejected"
)

func (s TransferStatus) Valid() bool {
	switch s {
	case TransferStatusPending, TransferStatusApproved, TransferStatusRejected:
		return true
	}
	return false
}

type Transfer struct {
	BaseModel
	FromUserID      *string        `db:"from_user_id" json:"from_user_id"`
	ToUserID        *string        `db:"to_user_id" json:"to_user_id"`
	FromInventoryID *string        `db:"from_inventory_id" json:"from_inventory_id"`
	ToInventoryID   *string        `db:"to_inventory_id" json:"to_inventory_id"`
	CreatorUserID   *string        `db:"creator_user_id" json:"creator_user_id"`
	TransferDate    time.Time      `db:"transfer_date" json:"transfer_date"`
	Status          TransferStatus `db:"status" json:"status"`
	ApprovedBy      *string        `db:"approved_by" json:"approved_by"`
	ApprovedAt      *time.Time     `db:"approved_at" json:"approved_at"`
	RejectedBy      *string        `db:"rejected_by" json:"rejected_by"`
	RejectedAt      *time.Time     `db:"rejected_at" json:"rejected_at"`
	Description     *string        `db:"description" json:"description"`
	Items           []TransferItem `db:"-" json:"items"`
}

type TransferItem struct {
	ID         string          `db:"id" json:"id"`
	TransferID string          `db:"transfer_id" json:"transfer_id"`
	ItemType   ItemType        `db:"item_type" json:"item_type"`
	ItemID     string          `db:"item_id" json:"item_id"`
	ColorID    *string         `db:"color_id" json:"color_id"`
	Quantity   decimal.Decimal `db:"quantity" json:"quantity"`
	// ExplodedQuantity is the part of Quantity that was covered by BOM components at approval.
	ExplodedQuantity decimal.Decimal `db:"exploded_quantity" json:"exploded_quantity"`
	Notes            *string         `db:"notes" json:"notes"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}

func (i *TransferItem) Ref() ItemRef {
	return ItemRef{Type: i.ItemType, ID: i.ItemID}
}
