package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-stock-service/internal/auth"
	"github.com/fekuna/omnipos-stock-service/internal/httpapi"
	"github.com/fekuna/omnipos-stock-service/internal/inventorycount"
	"github.com/fekuna/omnipos-stock-service/internal/inventorycount/dto"
	"github.com/fekuna/omnipos-stock-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type CountHandler struct {
	uc     inventorycount.UseCase
	logger logger.ZapLogger
}

func NewCountHandler(uc inventorycount.UseCase, log logger.ZapLogger) *CountHandler {
	return &CountHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CountHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/inventory-counts", httpapi.RequireUser())
	g.POST("", h.Start)
	g.GET("/:id", h.Get)
	g.DELETE("/:id", h.Delete)
	g.GET("/:id/items", h.Items)
	g.PUT("/:id/items", h.Record)
	g.POST("/:id/finalize", h.Finalize)
}

func (h *CountHandler) Start(c *gin.Context) {
	var input dto.StartCountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httpapi.WriteBindError(c, err)
		return
	}
	input.ActorID = auth.GetUserID(c.Request.Context())

	count, err := h.uc.Start(c.Request.Context(), &input)
	if err != nil {
		httpapi.WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, count)
}

func (h *CountHandler) Get(c *gin.Context) {
	count, err := h.uc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, count)
}

func (h *CountHandler) Items(c *gin.Context) {
	items, err := h.uc.ListItems(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (h *CountHandler) Record(c *gin.Context) {
	var input dto.RecordCountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httpapi.WriteBindError(c, err)
		return
	}
	input.CountID = c.Param("id")
	input.ActorID = auth.GetUserID(c.Request.Context())

	item, err := h.uc.RecordCount(c.Request.Context(), &input)
	if err != nil {
		httpapi.WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *CountHandler) Finalize(c *gin.Context) {
	var input dto.FinalizeCountInput
	// An empty body finalizes without touching the ledger.
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			httpapi.WriteBindError(c, err)
			return
		}
	}
	input.CountID = c.Param("id")
	input.ActorID = auth.GetUserID(c.Request.Context())

	count, err := h.uc.Finalize(c.Request.Context(), &input)
	if err != nil {
		httpapi.WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, count)
}

func (h *CountHandler) Delete(c *gin.Context) {
	if err := h.uc.Delete(c.Request.Context(), c.Param("id"), auth.GetUserID(c.Request.Context())); err != nil {
		httpapi.WriteError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
