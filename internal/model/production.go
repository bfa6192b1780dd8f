package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Production struct {
	BaseModel
	UserID         string          `db:"user_id" json:"user_id"`
	ProductID      *string         `db:"product_id" json:"product_id"`
	ProductPartID  *string         `db:"product_part_id" json:"product_part_id"`
	ColorID        *string         `db:"color_id" json:"color_id"`
	FabricID       *string         `db:"fabric_id" json:"fabric_id"`
	BunchCount     decimal.Decimal `db:"bunch_count" json:"bunch_count"`
	ProductionDate time.Time       `db:"production_date" json:"production_date"`
	ApprovedBy     *string         `db:"approved_by" json:"approved_by"`
	ApprovedAt     *time.Time      `db:"approved_at" json:"approved_at"`
	Description    *string         `db:"description" json:"description"`
}

func (p *Production) Approved() bool {
	return p.ApprovedAt != nil
}
