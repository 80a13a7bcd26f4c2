package handler

import (
	"context"
	"net/http"

	"laundryops/internal/middleware"
	"laundryops/internal/repository"
	"laundryops/internal/service"
	"laundryops/pkg/pagination"
	"laundryops/pkg/response"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	notifications := router.Group("/api/notifications", middleware.RequireScope())
	{
		notifications.GET("", h.List)
		notifications.PUT("/:id/accept", h.Accept)
		notifications.PUT("/:id/decline", h.Decline)
	}
}

// List returns the store's review notifications, optionally filtered by
// status ("pending" drives the dashboard badge).
func (h *NotificationHandler) List(c *gin.Context) {
	params := pagination.Parse(c)

	notifications, total, err := h.notificationService.List(
		c.Request.Context(), middleware.GetScope(c), c.Query("status"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.SuccessList(http.StatusOK, notifications, params.Page, params.Limit, total))
}

func (h *NotificationHandler) Accept(c *gin.Context) {
	h.resolve(c, h.notificationService.Accept)
}

func (h *NotificationHandler) Decline(c *gin.Context) {
	h.resolve(c, h.notificationService.Decline)
}

func (h *NotificationHandler) resolve(c *gin.Context, fn func(ctx context.Context, scope repository.Scope, id, actor string) error) {
	var req service.ActionRequest
	_ = c.ShouldBindJSON(&req)

	err := fn(c.Request.Context(), middleware.GetScope(c), c.Param("id"), req.ActorID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"notification_id": c.Param("id")}))
}
