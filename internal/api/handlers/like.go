package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/shopfront-api/internal/services"
	"github.com/princeprakhar/shopfront-api/internal/utils"
)

type LikeHandler struct {
	likeService *services.LikeService
}

func NewLikeHandler(likeService *services.LikeService) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

func (h *LikeHandler) LikeProduct(c *gin.Context) {
	var req services.LikeRequest
	if !bindJSON(c, &req) {
		return
	}

	like, err := h.likeService.LikeProduct(currentActor(c).UserID, req)
	if err != nil {
		respondError(c, "Failed to like product", err)
		return
	}
	utils.SendCreated(c, "Product liked successfully", like)
}

func (h *LikeHandler) UnlikeProduct(c *gin.Context) {
	likeID, ok := parseID(c, "like_id", "like ID")
	if !ok {
		return
	}

	if err := h.likeService.UnlikeProduct(currentActor(c), likeID); err != nil {
		respondError(c, "Failed to unlike product", err)
		return
	}
	utils.SendSuccess(c, "Product unliked successfully", nil)
}

func (h *LikeHandler) GetProductLikes(c *gin.Context) {
	productID, ok := parseID(c, "id", "product ID")
	if !ok {
		return
	}

	likes, err := h.likeService.GetProductLikes(productID)
	if err != nil {
		respondError(c, "Failed to fetch likes", err)
		return
	}
	utils.SendSuccess(c, "Likes retrieved successfully", likes)
}

func (h *LikeHandler) CheckUserLike(c *gin.Context) {
	productID, ok := parseID(c, "id", "product ID")
	if !ok {
		return
	}

	check, err := h.likeService.CheckUserLike(currentActor(c).UserID, productID)
	if err != nil {
		respondError(c, "Failed to check like", err)
		return
	}
	utils.SendSuccess(c, "Like status retrieved successfully", check)
}

func (h *LikeHandler) CleanupDuplicates(c *gin.Context) {
	result, err := h.likeService.CleanupDuplicates()
	if err != nil {
		respondError(c, "Failed to clean up likes", err)
		return
	}
	utils.SendSuccess(c, "Duplicate likes removed", result)
}
