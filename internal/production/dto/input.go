package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateProductionInput struct {
	ActorID        string          `json:"-"`
	UserID         string          `json:"user_id" binding:"required"`
	ProductID      *string         `json:"product_id"`
	ProductPartID  *string         `json:"product_part_id"`
	ColorID        *string         `json:"color_id"`
	FabricID       *string         `json:"fabric_id"`
	BunchCount     decimal.Decimal `json:"bunch_count"`
	ProductionDate *time.Time      `json:"production_date"`
	Description    *string         `json:"description"`
}

// ApprovalResult reports what approving a production generated.
type ApprovalResult struct {
	ProductionID string  `json:"production_id"`
	TransferID   *string `json:"transfer_id,omitempty"`
	CountID      *string `json:"count_id,omitempty"`
}
