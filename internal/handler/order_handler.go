package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"laundryops/internal/filter"
	"laundryops/internal/middleware"
	"laundryops/internal/repository"
	"laundryops/internal/service"
	"laundryops/internal/workflow"
	"laundryops/pkg/response"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	views := router.Group("/api/views", middleware.RequireScope())
	{
		views.GET("/:status/orders", h.View)
	}

	orders := router.Group("/api/orders", middleware.RequireScope())
	{
		orders.GET("/lookup", h.LookupRFID)
		orders.POST("/:id/cleaned", h.MarkCleaned)
		orders.POST("/:id/rack-confirmed", h.ConfirmRack)
		orders.POST("/:id/ironed", h.MarkIroned)
		orders.POST("/:id/collected", h.MarkCollected)
		orders.POST("/:id/delivered", h.MarkDelivered)
		orders.POST("/:id/cancel", h.Cancel)
		orders.PUT("/:id", h.Update)
		orders.DELETE("/:id", h.Delete)
	}

	router.GET("/api/packing-report", middleware.RequireScope(), h.PackingReport)
}

// View returns one dashboard page: the status queue run through the query
// filters, plus the header metrics.
func (h *OrderHandler) View(c *gin.Context) {
	status, err := workflow.ParseStatus(c.Param("status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	result, err := h.orderService.View(c.Request.Context(), middleware.GetScope(c), status, parseFilters(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

func (h *OrderHandler) PackingReport(c *gin.Context) {
	result, err := h.orderService.PackingReport(c.Request.Context(), middleware.GetScope(c), parseFilters(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

func (h *OrderHandler) LookupRFID(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "code query parameter is required"))
		return
	}

	view, err := h.orderService.LookupRFID(c.Request.Context(), middleware.GetScope(c), code)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, view))
}

func (h *OrderHandler) MarkCleaned(c *gin.Context) {
	var req service.MarkCleanedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	err := h.orderService.MarkCleaned(c.Request.Context(), middleware.GetScope(c), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"order_id": c.Param("id")}))
}

func (h *OrderHandler) ConfirmRack(c *gin.Context) {
	var req service.ConfirmRackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	err := h.orderService.ConfirmRack(c.Request.Context(), middleware.GetScope(c), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"order_id": c.Param("id")}))
}

func (h *OrderHandler) MarkIroned(c *gin.Context) {
	h.simpleTransition(c, h.orderService.MarkIroned)
}

func (h *OrderHandler) MarkCollected(c *gin.Context) {
	h.simpleTransition(c, h.orderService.MarkCollected)
}

func (h *OrderHandler) MarkDelivered(c *gin.Context) {
	h.simpleTransition(c, h.orderService.MarkDelivered)
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	h.simpleTransition(c, h.orderService.Cancel)
}

func (h *OrderHandler) Update(c *gin.Context) {
	var req service.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	err := h.orderService.UpdateDetails(c.Request.Context(), middleware.GetScope(c), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"order_id": c.Param("id")}))
}

func (h *OrderHandler) Delete(c *gin.Context) {
	var req service.ActionRequest
	_ = c.ShouldBindJSON(&req)

	err := h.orderService.Delete(c.Request.Context(), middleware.GetScope(c), c.Param("id"), req.ActorID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"order_id": c.Param("id")}))
}

type transitionFunc func(ctx context.Context, scope repository.Scope, orderID, actorID string) error

// simpleTransition handles the transitions whose body carries at most the
// acting user.
func (h *OrderHandler) simpleTransition(c *gin.Context, fn transitionFunc) {
	var req service.ActionRequest
	_ = c.ShouldBindJSON(&req)

	err := fn(c.Request.Context(), middleware.GetScope(c), c.Param("id"), req.ActorID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"order_id": c.Param("id")}))
}

// writeServiceError maps service errors onto HTTP statuses: missing rows are
// 404, rejected transitions and bad input are 422, anything else 500.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrOrderNotFound), errors.Is(err, repository.ErrNotificationNotFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
	case errors.Is(err, workflow.ErrInvalidTransition),
		errors.Is(err, workflow.ErrRackRequired),
		errors.Is(err, workflow.ErrUnknownStatus):
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
	}
}

func parseFilters(c *gin.Context) filter.Filters {
	f := filter.Filters{
		Search:    c.Query("search"),
		Section:   c.Query("section"),
		PriceList: c.Query("price_list"),
	}
	if due := c.Query("due"); due != "" {
		f.Due = filter.DueBucket(due)
	}
	if v := c.Query("start_date"); v != "" {
		if t, err := time.ParseInLocation("2006-01-02", v, time.Local); err == nil {
			f.StartDate = &t
		}
	}
	if v := c.Query("end_date"); v != "" {
		if t, err := time.ParseInLocation("2006-01-02", v, time.Local); err == nil {
			f.EndDate = &t
		}
	}
	return f
}
