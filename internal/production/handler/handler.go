package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-stock-service/internal/auth"
	"github.com/fekuna/omnipos-stock-service/internal/httpapi"
	"github.com/fekuna/omnipos-stock-service/internal/production"
	"github.com/fekuna/omnipos-stock-service/internal/production/dto"
	"github.com/fekuna/omnipos-stock-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type ProductionHandler struct {
	uc     production.UseCase
	logger logger.ZapLogger
}

func NewProductionHandler(uc production.UseCase, log logger.ZapLogger) *ProductionHandler {
	return &ProductionHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ProductionHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/productions", httpapi.RequireUser())
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.POST("/:id/approve", h.Approve)
}

func (h *ProductionHandler) Create(c *gin.Context) {
	var input dto.CreateProductionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		httpapi.WriteBindError(c, err)
		return
	}
	input.ActorID = auth.GetUserID(c.Request.Context())

	p, err := h.uc.Create(c.Request.Context(), &input)
	if err != nil {
		httpapi.WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *ProductionHandler) Get(c *gin.Context) {
	p, err := h.uc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductionHandler) Approve(c *gin.Context) {
	res, err := h.uc.Approve(c.Request.Context(), c.Param("id"), auth.GetUserID(c.Request.Context()))
	if err != nil {
		httpapi.WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
