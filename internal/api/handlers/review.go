package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/shopfront-api/internal/services"
	"github.com/princeprakhar/shopfront-api/internal/utils"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req services.CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviewService.CreateReview(currentActor(c).UserID, req)
	if err != nil {
		respondError(c, "Failed to create review", err)
		return
	}
	utils.SendCreated(c, "Review created successfully", review)
}

func (h *ReviewHandler) GetProductReviews(c *gin.Context) {
	productID, ok := parseID(c, "id", "product ID")
	if !ok {
		return
	}

	reviews, err := h.reviewService.GetProductReviews(productID)
	if err != nil {
		respondError(c, "Failed to fetch reviews", err)
		return
	}
	utils.SendSuccess(c, "Reviews retrieved successfully", reviews)
}

func (h *ReviewHandler) CheckUserReview(c *gin.Context) {
	productID, ok := parseID(c, "id", "product ID")
	if !ok {
		return
	}

	check, err := h.reviewService.CheckUserReview(currentActor(c).UserID, productID)
	if err != nil {
		respondError(c, "Failed to check review", err)
		return
	}
	utils.SendSuccess(c, "Review status retrieved successfully", check)
}
