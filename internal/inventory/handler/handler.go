package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-stock-service/internal/httpapi"
	"github.com/fekuna/omnipos-stock-service/internal/inventory"
	"github.com/fekuna/omnipos-stock-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/fekuna/omnipos-stock-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InventoryHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/inventories", httpapi.RequireUser())
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.GET("/:id/items", h.Items)
}

func (h *InventoryHandler) List(c *gin.Context) {
	page, size := httpapi.Page(c)
	filters := &dto.InventoryFilters{
		UserID:   httpapi.OptionalQuery(c, "user_id"),
		Page:     page,
		PageSize: size,
	}
	if t := c.Query("type"); t != "" {
		invType := model.InventoryType(t)
		filters.Type = &invType
	}

	inventories, total, err := h.uc.ListInventories(c.Request.Context(), filters)
	if err != nil {
		httpapi.WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, httpapi.Paged[model.Inventory]{Data: inventories, Total: total, Page: page, PageSize: size})
}

func (h *InventoryHandler) Get(c *gin.Context) {
	view, err := h.uc.GetInventory(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *InventoryHandler) Items(c *gin.Context) {
	items, err := h.uc.ListItems(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}
