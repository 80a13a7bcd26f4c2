package handler

import (
	"net/http"

	"laundryops/internal/middleware"
	"laundryops/internal/service"
	"laundryops/pkg/pagination"
	"laundryops/pkg/response"

	"github.com/gin-gonic/gin"
)

type AlertHandler struct {
	alertService service.AlertService
}

func NewAlertHandler(alertService service.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

func (h *AlertHandler) RegisterRoutes(router *gin.RouterGroup) {
	alerts := router.Group("/api/alerts", middleware.RequireScope())
	{
		alerts.POST("", h.Report)
		alerts.GET("", h.List)
	}
}

// Report files a machine fault raised from the shop floor.
func (h *AlertHandler) Report(c *gin.Context) {
	var req service.CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	alert, err := h.alertService.Report(c.Request.Context(), middleware.GetScope(c), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, alert))
}

func (h *AlertHandler) List(c *gin.Context) {
	params := pagination.Parse(c)

	alerts, total, err := h.alertService.List(c.Request.Context(), middleware.GetScope(c), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.SuccessList(http.StatusOK, alerts, params.Page, params.Limit, total))
}
