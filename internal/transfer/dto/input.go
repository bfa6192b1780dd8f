package dto

import (
	"time"

	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/shopspring/decimal"
)

type TransferItemInput struct {
	ItemType model.ItemType  `json:"item_type" binding:"required,itemtype"`
	ItemID   string          `json:"item_id" binding:"required"`
	ColorID  *string         `json:"color_id"`
	Quantity decimal.Decimal `json:"quantity"`
	Notes    *string         `json:"notes"`
}

type CreateTransferInput struct {
	ActorID           string               `json:"-"`
	FromInventoryType *model.InventoryType `json:"from_inventory_type" binding:"omitempty,invtype"`
	FromUserID        *string              `json:"from_user_id"`
	ToInventoryType   *model.InventoryType `json:"to_inventory_type" binding:"omitempty,invtype"`
	ToUserID          *string              `json:"to_user_id"`
	TransferDate      *time.Time           `json:"transfer_date"`
	Description       *string              `json:"description"`
	Items             []TransferItemInput  `json:"items" binding:"required,min=1,dive"`
}

type UpdateTransferInput struct {
	ID           string     `json:"-"`
	ActorID      string     `json:"-"`
	TransferDate *time.Time `json:"transfer_date"`
	Description  *string    `json:"description"`
	// Items replaces every line when non-empty.
	Items []TransferItemInput `json:"items" binding:"omitempty,dive"`
}

// SystemTransferInput describes a transfer the system applies directly,
// without the pending/approve handshake.
type SystemTransferInput struct {
	From         *model.Inventory
	To           *model.Inventory
	FromUserID   *string
	ToUserID     *string
	ApproverID   string
	TransferDate time.Time
	Description  *string
	Items        []model.TransferItem
}
