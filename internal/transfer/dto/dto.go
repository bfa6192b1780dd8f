package dto

import (
	"time"

	"github.com/fekuna/omnipos-stock-service/internal/model"
)

type TransferFilters struct {
	Status      *model.TransferStatus
	InventoryID *string
	UserID      *string
	DateFrom    *time.Time
	DateTo      *time.Time
	Page        int
	PageSize    int
}
