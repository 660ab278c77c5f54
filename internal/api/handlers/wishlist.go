package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/shopfront-api/internal/services"
	"github.com/princeprakhar/shopfront-api/internal/utils"
)

type WishlistHandler struct {
	wishlistService *services.WishlistService
}

func NewWishlistHandler(wishlistService *services.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService}
}

func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	entries, err := h.wishlistService.GetWishlist(currentActor(c).UserID)
	if err != nil {
		respondError(c, "Failed to fetch wishlist", err)
		return
	}
	utils.SendList(c, "Wishlist retrieved successfully", entries, len(entries))
}

func (h *WishlistHandler) AddToWishlist(c *gin.Context) {
	var req services.WishlistRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.wishlistService.AddToWishlist(currentActor(c).UserID, req)
	if err != nil {
		respondError(c, "Failed to add to wishlist", err)
		return
	}
	utils.SendCreated(c, "Product added to wishlist", item)
}

func (h *WishlistHandler) RemoveFromWishlist(c *gin.Context) {
	id, ok := parseID(c, "id", "wishlist item ID")
	if !ok {
		return
	}

	if err := h.wishlistService.RemoveFromWishlist(currentActor(c).UserID, id); err != nil {
		respondError(c, "Failed to remove from wishlist", err)
		return
	}
	utils.SendSuccess(c, "Product removed from wishlist", nil)
}
