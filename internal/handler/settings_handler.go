package handler

import (
	"net/http"

	"laundryops/internal/middleware"
	"laundryops/internal/service"
	"laundryops/pkg/response"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settingsService service.SettingsService
}

func NewSettingsHandler(settingsService service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

func (h *SettingsHandler) RegisterRoutes(router *gin.RouterGroup) {
	settings := router.Group("/api/settings", middleware.RequireScope())
	{
		settings.GET("", h.Get)
		settings.PUT("", h.Update)
		settings.GET("/price-lists", h.PriceLists)
	}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settingsService.Get(c.Request.Context(), middleware.GetScope(c).StoreID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, settings))
}

func (h *SettingsHandler) Update(c *gin.Context) {
	var req service.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	settings, err := h.settingsService.Update(c.Request.Context(), middleware.GetScope(c).StoreID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, settings))
}

func (h *SettingsHandler) PriceLists(c *gin.Context) {
	names, err := h.settingsService.PriceListNames(c.Request.Context(), middleware.GetScope(c).StoreID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, names))
}
