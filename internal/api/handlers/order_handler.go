// internal/api/handlers/order_handler.go
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/m2go-inventory/internal/domain"
	"github.com/andresuchdata/m2go-inventory/internal/service"
	"github.com/gin-gonic/gin"
)

type suggestionService interface {
	Suggest(ctx context.Context, cycle domain.OrderCycle) ([]domain.Suggestion, error)
	NextDelivery(cycle domain.OrderCycle) time.Time
}

type orderService interface {
	Create(ctx context.Context, order *domain.Order) error
	Get(ctx context.Context, id int64) (*domain.Order, error)
	Export(ctx context.Context, id int64, format string) (*service.ExportFile, error)
}

type OrderHandler struct {
	suggestions suggestionService
	orders      orderService
}

func NewOrderHandler(suggestions suggestionService, orders orderService) *OrderHandler {
	return &OrderHandler{suggestions: suggestions, orders: orders}
}

// GetSuggestion runs the engine for the cycle in ?order_type= (MONDAY when omitted)
func (h *OrderHandler) GetSuggestion(c *gin.Context) {
	cycle := domain.CycleMonday
	if label := c.Query("order_type"); strings.TrimSpace(label) != "" {
		parsed, err := domain.ParseOrderCycle(label)
		if err != nil {
			badRequest(c, "order_type must be MONDAY or FRIDAY", err)
			return
		}
		cycle = parsed
	}

	suggestions, err := h.suggestions.Suggest(c.Request.Context(), cycle)
	if err != nil {
		respondError(c, "failed to compute suggestions", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_type":    cycle,
		"next_delivery": h.suggestions.NextDelivery(cycle).Format(domain.DateLayout),
		"suggestions":   suggestions,
	})
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var order domain.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		badRequest(c, "invalid order payload", err)
		return
	}

	if cycle, err := domain.ParseOrderCycle(string(order.OrderType)); err == nil {
		order.OrderType = cycle
	}
	order.ID = 0

	if err := h.orders.Create(c.Request.Context(), &order); err != nil {
		respondError(c, "failed to create order", err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	order, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, "failed to fetch order", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// ExportOrder streams the order as a download; ?format= is csv (default) or xlsx
func (h *OrderHandler) ExportOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	file, err := h.orders.Export(c.Request.Context(), id, c.Query("format"))
	if err != nil {
		respondError(c, "failed to export order", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return 0, false
	}
	return id, true
}
