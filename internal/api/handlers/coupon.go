package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/shopfront-api/internal/services"
	"github.com/princeprakhar/shopfront-api/internal/utils"
)

type CouponHandler struct {
	couponService *services.CouponService
}

func NewCouponHandler(couponService *services.CouponService) *CouponHandler {
	return &CouponHandler{couponService: couponService}
}

func (h *CouponHandler) ValidateCoupon(c *gin.Context) {
	var req services.ValidateCouponRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.couponService.ValidateCoupon(req)
	if err != nil {
		respondError(c, "Coupon could not be applied", err)
		return
	}
	utils.SendSuccess(c, "Coupon applied successfully", result)
}

func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var req services.CreateCouponRequest
	if !bindJSON(c, &req) {
		return
	}

	coupon, err := h.couponService.CreateCoupon(req)
	if err != nil {
		respondError(c, "Failed to create coupon", err)
		return
	}
	utils.SendCreated(c, "Coupon created successfully", coupon)
}

func (h *CouponHandler) ListCoupons(c *gin.Context) {
	coupons, err := h.couponService.ListActiveCoupons()
	if err != nil {
		respondError(c, "Failed to fetch coupons", err)
		return
	}
	utils.SendList(c, "Coupons retrieved successfully", coupons, len(coupons))
}
