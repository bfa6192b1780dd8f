package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-stock-service/internal/auth"
	"github.com/fekuna/omnipos-stock-service/internal/httpapi"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/fekuna/omnipos-stock-service/internal/transfer"
	"github.com/fekuna/omnipos-stock-service/internal/transfer/dto"
	"github.com/fekuna/omnipos-stock-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type TransferHandler struct {
	uc     transfer.UseCase
	logger logger.ZapLogger
}

func NewTransferHandler(uc transfer.UseCase, log logger.ZapLogger) *TransferHandler {
	return &TransferHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *TransferHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/transfers", httpapi.RequireUser())
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/approve", h.Approve)
	g.POST("/:id/reject", h.Reject)
}

func (h *TransferHandler) Create(c *gin.Context) {
	var input dto.CreateTransferInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httpapi.WriteBindError(c, err)
		return
	}
	input.ActorID = auth.GetUserID(c.Request.Context())

	t, err := h.uc.Create(c.Request.Context(), &input)
	if err != nil {
		httpapi.WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *TransferHandler) List(c *gin.Context) {
	page, size := httpapi.Page(c)
	filters := &dto.TransferFilters{
		InventoryID: httpapi.OptionalQuery(c, "inventory_id"),
		UserID:      httpapi.OptionalQuery(c, "user_id"),
		Page:        page,
		PageSize:    size,
	}
	if s := c.Query("status"); s != "" {
		status := model.TransferStatus(s)
		filters.Status = &status
	}

	var err error
	if filters.DateFrom, err = httpapi.OptionalDate(c, "date_from"); err != nil {
		httpapi.WriteError(c, h.logger, err)
		return
	}
	if filters.DateTo, err = httpapi.OptionalDate(c, "date_to"); err != nil {
		httpapi.WriteError(c, h.logger, err)
		return
	}

	transfers, total, err := h.uc.List(c.Request.Context(), filters)
	if err != nil {
		httpapi.WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, httpapi.Paged[model.Transfer]{Data: transfers, Total: total, Page: page, PageSize: size})
}

func (h *TransferHandler) Get(c *gin.Context) {
	t, err := h.uc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TransferHandler) Update(c *gin.Context) {
	var input dto.UpdateTransferInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httpapi.WriteBindError(c, err)
		return
	}
	input.ID = c.Param("id")
	input.ActorID = auth.GetUserID(c.Request.Context())

	t, err := h.uc.Update(c.Request.Context(), &input)
	if err != nil {
		httpapi.WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TransferHandler) Delete(c *gin.Context) {
	if err := h.uc.Delete(c.Request.Context(), c.Param("id"), auth.GetUserID(c.Request.Context())); err != nil {
		httpapi.WriteError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TransferHandler) Approve(c *gin.Context) {
	t, err := h.uc.Approve(c.Request.Context(), c.Param("id"), auth.GetUserID(c.Request.Context()))
	if err != nil {
		httpapi.WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TransferHandler) Reject(c *gin.Context) {
	t, err := h.uc.Reject(c.Request.Context(), c.Param("id"), auth.GetUserID(c.Request.Context()))
	if err != nil {
		httpapi.WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, t)
}
