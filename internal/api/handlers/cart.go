package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/shopfront-api/internal/services"
	"github.com/princeprakhar/shopfront-api/internal/utils"
)

type CartHandler struct {
	cartService *services.CartService
}

func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.cartService.GetCart(currentActor(c).UserID)
	if err != nil {
		respondError(c, "Failed to fetch cart", err)
		return
	}
	utils.SendSuccess(c, "Cart retrieved successfully", cart)
}

func (h *CartHandler) AddToCart(c *gin.Context) {
	var req services.AddToCartRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.cartService.AddToCart(currentActor(c).UserID, req)
	if err != nil {
		respondError(c, "Failed to add item to cart", err)
		return
	}
	utils.SendCreated(c, "Item added to cart successfully", item)
}

func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	id, ok := parseID(c, "id", "cart item ID")
	if !ok {
		return
	}

	var req services.UpdateCartItemRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.cartService.UpdateCartItem(currentActor(c).UserID, id, req)
	if err != nil {
		respondError(c, "Failed to update cart item", err)
		return
	}
	utils.SendSuccess(c, "Cart item updated successfully", item)
}

func (h *CartHandler) RemoveCartItem(c *gin.Context) {
	id, ok := parseID(c, "id", "cart item ID")
	if !ok {
		return
	}

	if err := h.cartService.RemoveCartItem(currentActor(c).UserID, id); err != nil {
		respondError(c, "Failed to remove cart item", err)
		return
	}
	utils.SendSuccess(c, "Item removed from cart successfully", nil)
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	removed, err := h.cartService.ClearCart(currentActor(c).UserID)
	if err != nil {
		respondError(c, "Failed to clear cart", err)
		return
	}
	utils.SendSuccess(c, "Cart cleared successfully", gin.H{"removed": removed})
}
