package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/shopfront-api/internal/models"
	"github.com/princeprakhar/shopfront-api/internal/services"
	"github.com/princeprakhar/shopfront-api/internal/utils"
)

type InventoryHandler struct {
	inventoryService *services.InventoryService
}

func NewInventoryHandler(inventoryService *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// GetLowStock accepts an optional ?threshold= override.
func (h *InventoryHandler) GetLowStock(c *gin.Context) {
	threshold := 0
	if raw := c.Query("threshold"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			utils.SendValidationError(c, "Invalid threshold")
			return
		}
		threshold = n
	}

	report, err := h.inventoryService.LowStock(threshold)
	if err != nil {
		respondError(c, "Failed to fetch low stock products", err)
		return
	}
	utils.SendSuccess(c, "Low stock products retrieved successfully", report)
}

func (h *InventoryHandler) UpdateStock(c *gin.Context) {
	var req services.UpdateStockRequest
	if !bindJSON(c, &req) {
		return
	}

	change, err := h.inventoryService.UpdateStock(req)
	if err != nil {
		respondError(c, "Failed to update stock", err)
		return
	}
	utils.SendSuccess(c, "Stock updated successfully", change)
}

func (h *InventoryHandler) BulkUpdate(c *gin.Context) {
	var req struct {
		Updates []models.BulkProductUpdate `json:"updates" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.inventoryService.BulkUpdate(req.Updates)
	if err != nil {
		respondError(c, "Failed to update products", err)
		return
	}
	utils.SendSuccess(c, "Products updated successfully", result)
}
