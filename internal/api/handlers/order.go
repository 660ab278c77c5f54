package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/shopfront-api/internal/services"
	"github.com/princeprakhar/shopfront-api/internal/utils"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateOrder checks out the caller's cart.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.CreateOrder(currentActor(c).UserID, req)
	if err != nil {
		respondError(c, "Failed to create order", err)
		return
	}
	utils.SendCreated(c, "Order created successfully", order)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.orderService.ListOrders(currentActor(c))
	if err != nil {
		respondError(c, "Failed to fetch orders", err)
		return
	}
	utils.SendList(c, "Orders retrieved successfully", orders, len(orders))
}

func (h *OrderHandler) ListOrdersByStatus(c *gin.Context) {
	orders, err := h.orderService.ListOrdersByStatus(currentActor(c), c.Param("status"))
	if err != nil {
		respondError(c, "Failed to fetch orders", err)
		return
	}
	utils.SendList(c, "Orders retrieved successfully", orders, len(orders))
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := parseID(c, "id", "order ID")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(currentActor(c), id)
	if err != nil {
		respondError(c, "Failed to fetch order", err)
		return
	}
	utils.SendSuccess(c, "Order retrieved successfully", order)
}

func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	id, ok := parseID(c, "id", "order ID")
	if !ok {
		return
	}

	var req services.UpdateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.UpdateOrder(currentActor(c), id, req)
	if err != nil {
		respondError(c, "Failed to update order", err)
		return
	}
	utils.SendSuccess(c, "Order updated successfully", order)
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseID(c, "id", "order ID")
	if !ok {
		return
	}

	var req services.UpdateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.UpdateOrderStatus(currentActor(c), id, req)
	if err != nil {
		respondError(c, "Failed to update order status", err)
		return
	}
	utils.SendSuccess(c, "Order status updated successfully", order)
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	id, ok := parseID(c, "id", "order ID")
	if !ok {
		return
	}

	result, err := h.orderService.CancelOrder(currentActor(c), id)
	if err != nil {
		respondError(c, "Failed to cancel order", err)
		return
	}
	utils.SendSuccess(c, "Order cancelled successfully", result)
}
