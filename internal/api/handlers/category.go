package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/shopfront-api/internal/services"
	"github.com/princeprakhar/shopfront-api/internal/utils"
)

type CategoryHandler struct {
	categoryService *services.CategoryService
}

func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.ListCategories()
	if err != nil {
		respondError(c, "Failed to fetch categories", err)
		return
	}
	utils.SendList(c, "Categories retrieved successfully", categories, len(categories))
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req services.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.CreateCategory(req)
	if err != nil {
		respondError(c, "Failed to create category", err)
		return
	}
	utils.SendCreated(c, "Category created successfully", category)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c, "id", "category ID")
	if !ok {
		return
	}

	if err := h.categoryService.DeleteCategory(id); err != nil {
		respondError(c, "Failed to delete category", err)
		return
	}
	utils.SendSuccess(c, "Category deleted successfully", nil)
}
