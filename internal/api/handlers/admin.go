package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/shopfront-api/internal/services"
	"github.com/princeprakhar/shopfront-api/internal/utils"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.adminService.GetStats()
	if err != nil {
		respondError(c, "Failed to fetch statistics", err)
		return
	}
	utils.SendSuccess(c, "Statistics retrieved successfully", stats)
}

// GetDashboard returns dashboard data
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.adminService.GetDashboard()
	if err != nil {
		respondError(c, "Failed to fetch dashboard data", err)
		return
	}
	utils.SendSuccess(c, "Dashboard data retrieved successfully", dashboard)
}

func (h *AdminHandler) GetSalesReport(c *gin.Context) {
	r, err := services.ParseDateRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		respondError(c, "Invalid date range", err)
		return
	}

	report, err := h.adminService.GetSalesReport(r)
	if err != nil {
		respondError(c, "Failed to generate sales report", err)
		return
	}
	utils.SendSuccess(c, "Sales report generated successfully", report)
}

// ExportProducts returns JSON by default; ?format=csv downloads a CSV file.
func (h *AdminHandler) ExportProducts(c *gin.Context) {
	export, err := h.adminService.ExportProducts()
	if err != nil {
		respondError(c, "Failed to export products", err)
		return
	}

	if c.Query("format") == "csv" {
		data, err := services.ProductsCSV(export.Records)
		if err != nil {
			respondError(c, "Failed to export products", err)
			return
		}
		sendCSV(c, "products", data)
		return
	}
	utils.SendSuccess(c, "Products exported successfully", export)
}

func (h *AdminHandler) ExportOrders(c *gin.Context) {
	r, err := services.ParseDateRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		respondError(c, "Invalid date range", err)
		return
	}

	export, err := h.adminService.ExportOrders(r)
	if err != nil {
		respondError(c, "Failed to export orders", err)
		return
	}

	if c.Query("format") == "csv" {
		data, err := services.OrdersCSV(export.Records)
		if err != nil {
			respondError(c, "Failed to export orders", err)
			return
		}
		sendCSV(c, "orders", data)
		return
	}
	utils.SendSuccess(c, "Orders exported successfully", export)
}

// SystemHealth answers 503 when any collection cannot be read.
func (h *AdminHandler) SystemHealth(c *gin.Context) {
	health := h.adminService.SystemHealth()
	if health.Status != "healthy" {
		c.JSON(http.StatusServiceUnavailable, utils.APIResponse{
			Success: false,
			Message: "System degraded",
			Data:    health,
		})
		return
	}
	utils.SendSuccess(c, "System healthy", health)
}

func sendCSV(c *gin.Context, name string, data []byte) {
	filename := fmt.Sprintf("%s_%s.csv", name, time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
