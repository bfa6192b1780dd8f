package dto

import "github.com/fekuna/omnipos-stock-service/internal/model"

type InventoryFilters struct {
	Type     *model.InventoryType
	UserID   *string
	Page     int
	PageSize int
}

// InventoryView is an inventory with its derived lock state.
type InventoryView struct {
	Inventory  model.Inventory  `json:"inventory"`
	LockStatus model.LockStatus `json:"lock_status"`
	IsLocked   bool             `json:"is_locked"`
}
