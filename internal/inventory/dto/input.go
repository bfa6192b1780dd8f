package dto

import "github.com/fekuna/omnipos-stock-service/internal/model"

type Side string

const (
	SideFrom Side = "from"
	SideTo   Side = "to"
)

// Endpoint is a symbolic transfer endpoint: an inventory type, a user, or both.
type Endpoint struct {
	Type   *model.InventoryType
	UserID *string
}

func (e Endpoint) Empty() bool {
	return e.Type == nil && e.UserID == nil
}

// TypeHint is the inventory type the endpoint will resolve to, without touching storage.
func (e Endpoint) TypeHint() (model.InventoryType, bool) {
	if e.Type != nil {
		return *e.Type, true
	}
	if e.UserID != nil {
		return model.InventoryTypeAssembler, true
	}
	return "", false
}
