package handlers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/shopfront-api/internal/models"
	"github.com/princeprakhar/shopfront-api/internal/services"
	"github.com/princeprakhar/shopfront-api/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// GetAllProducts handles GET /products with optional filters and pagination.
func (h *ProductHandler) GetAllProducts(c *gin.Context) {
	var filter services.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.SendValidationError(c, "Invalid query parameters")
		return
	}

	page, err := h.productService.GetProducts(filter)
	if err != nil {
		respondError(c, "Failed to fetch products", err)
		return
	}

	utils.SendListWithMeta(c, "Products retrieved successfully", page.Products, len(page.Products), map[string]interface{}{
		"pagination": page.Pagination,
	})
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "id", "product ID")
	if !ok {
		return
	}

	product, err := h.productService.GetProductByID(id)
	if err != nil {
		respondError(c, "Failed to fetch product", err)
		return
	}
	utils.SendSuccess(c, "Product retrieved successfully", product)
}

func (h *ProductHandler) SearchProducts(c *gin.Context) {
	products, err := h.productService.SearchProducts(c.Query("q"))
	if err != nil {
		respondError(c, "Failed to search products", err)
		return
	}
	utils.SendList(c, "Products retrieved successfully", products, len(products))
}

func (h *ProductHandler) GetProductsByCategory(c *gin.Context) {
	products, err := h.productService.GetProductsByCategory(c.Param("category"))
	if err != nil {
		respondError(c, "Failed to fetch products", err)
		return
	}
	utils.SendList(c, "Products retrieved successfully", products, len(products))
}

func (h *ProductHandler) AdvancedSearch(c *gin.Context) {
	var filter services.AdvancedSearchFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.SendValidationError(c, "Invalid query parameters")
		return
	}

	products, err := h.productService.AdvancedSearch(filter)
	if err != nil {
		respondError(c, "Failed to search products", err)
		return
	}
	utils.SendList(c, "Search completed successfully", products, len(products))
}

func (h *ProductHandler) GetRecommendations(c *gin.Context) {
	id, ok := parseID(c, "product_id", "product ID")
	if !ok {
		return
	}

	products, err := h.productService.Recommendations(id)
	if err != nil {
		respondError(c, "Failed to fetch recommendations", err)
		return
	}
	utils.SendList(c, "Recommendations retrieved successfully", products, len(products))
}

func (h *ProductHandler) GetUserRecommendations(c *gin.Context) {
	id, ok := parseID(c, "user_id", "user ID")
	if !ok {
		return
	}

	products, err := h.productService.UserRecommendations(id)
	if err != nil {
		respondError(c, "Failed to fetch recommendations", err)
		return
	}
	utils.SendList(c, "Recommendations retrieved successfully", products, len(products))
}

// CreateProduct accepts JSON, or a multipart form with an optional "image"
// file that is uploaded once the product exists.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid request data", err)
		return
	}

	product, err := h.productService.CreateProduct(req)
	if err != nil {
		respondError(c, "Failed to create product", err)
		return
	}

	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		if header, ferr := c.FormFile("image"); ferr == nil {
			product, err = h.uploadFormImage(c, product.ID, header)
			if err != nil {
				respondError(c, "Product created but image upload failed", err)
				return
			}
		}
	}

	utils.SendCreated(c, "Product created successfully", product)
}

func (h *ProductHandler) uploadFormImage(c *gin.Context, id int, header *multipart.FileHeader) (*models.Product, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return h.productService.UploadImage(c.Request.Context(), id, file, header)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "id", "product ID")
	if !ok {
		return
	}

	var req models.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.UpdateProduct(id, req)
	if err != nil {
		respondError(c, "Failed to update product", err)
		return
	}
	utils.SendSuccess(c, "Product updated successfully", product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "id", "product ID")
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, "Failed to delete product", err)
		return
	}
	utils.SendSuccess(c, "Product deleted successfully", nil)
}

// UploadImage expects a multipart form with an "image" file field.
func (h *ProductHandler) UploadImage(c *gin.Context) {
	id, ok := parseID(c, "id", "product ID")
	if !ok {
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		utils.SendValidationError(c, "Image file is required")
		return
	}
	product, err := h.uploadFormImage(c, id, header)
	if err != nil {
		respondError(c, "Failed to upload image", err)
		return
	}
	utils.SendSuccess(c, "Image uploaded successfully", product)
}
