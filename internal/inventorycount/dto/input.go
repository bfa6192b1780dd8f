package dto

import (
	"time"

	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/shopspring/decimal"
)

type StartCountInput struct {
	ActorID     string     `json:"-"`
	InventoryID string     `json:"inventory_id" binding:"required"`
	CountDate   *time.Time `json:"count_date"`
	Notes       *string    `json:"notes"`
}

type RecordCountInput struct {
	CountID        string          `json:"-"`
	ActorID        string          `json:"-"`
	ItemType       model.ItemType  `json:"item_type" binding:"required,itemtype"`
	ItemID         string          `json:"item_id" binding:"required"`
	ColorID        *string         `json:"color_id"`
	ActualQuantity decimal.Decimal `json:"actual_quantity"`
	Notes          *string         `json:"notes"`
}

type FinalizeCountInput struct {
	CountID      string `json:"-"`
	ActorID      string `json:"-"`
	AdjustLedger bool   `json:"adjust_inventory"`
}
