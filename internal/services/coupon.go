package services

import (
	"strings"
	"time"

	"github.com/princeprakhar/shopfront-api/internal/models"
	"github.com/princeprakhar/shopfront-api/internal/store"
	"github.com/princeprakhar/shopfront-api/internal/utils"
	"github.com/shopspring/decimal"
)

const (
	defaultCouponUsageLimit = 100
	defaultCouponLifetime   = 30 * 24 * time.Hour
)

type CouponService struct {
	store   *store.Store
	coupons *store.Collection[models.Coupon]
	now     func() time.Time
}

type ValidateCouponRequest struct {
	Code        string  `json:"code"`
	OrderAmount float64 `json:"order_amount"`
}

type CouponValidation struct {
	CouponID       int                 `json:"coupon_id"`
	Code           string              `json:"code"`
	Description    string              `json:"description"`
	DiscountType   models.DiscountType `json:"discount_type"`
	DiscountAmount float64             `json:"discount_amount"`
	OrderAmount    float64             `json:"order_amount"`
	FinalAmount    float64             `json:"final_amount"`
}

type CreateCouponRequest struct {
	Code           string     `json:"code"`
	Description    string     `json:"description"`
	DiscountType   string     `json:"discount_type"`
	DiscountValue  float64    `json:"discount_value"`
	MinOrderAmount *float64   `json:"min_order_amount"`
	MaxDiscount    *float64   `json:"max_discount"`
	UsageLimit     *int       `json:"usage_limit"`
	ExpiresAt      *time.Time `json:"expires_at"`
	IsActive       *bool      `json:"is_active"`
}

func NewCouponService(s *store.Store) *CouponService {
	return &CouponService{
		store:   s,
		coupons: store.NewCollection[models.Coupon](s, store.Coupons),
		now:     time.Now,
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateCoupon checks the coupon against the order amount and, when it
// applies, counts the use. A rejected coupon is never modified.
func (s *CouponService) ValidateCoupon(req ValidateCouponRequest) (*CouponValidation, error) {
	code := normalizeCode(req.Code)
	if code == "" {
		return nil, validationError("coupon code is required")
	}
	if req.OrderAmount <= 0 {
		return nil, validationError("order_amount must be greater than 0")
	}

	defer s.store.Lock(store.Coupons)()

	coupons, err := s.coupons.Load()
	if err != nil {
		return nil, err
	}

	var coupon *models.Coupon
	for i := range coupons {
		if normalizeCode(coupons[i].Code) == code {
			coupon = &coupons[i]
			break
		}
	}

	now := s.now()
	switch {
	case coupon == nil:
		return nil, notFoundError("invalid coupon code")
	case !coupon.IsActive:
		return nil, validationError("coupon is not active")
	case coupon.Expired(now):
		return nil, validationError("coupon has expired")
	case coupon.Exhausted():
		return nil, validationError("coupon usage limit reached")
	case req.OrderAmount < coupon.MinOrderAmount:
		return nil, validationError("minimum order amount of %.2f required", coupon.MinOrderAmount)
	}

	amount := decimal.NewFromFloat(req.OrderAmount)
	discount := coupon.Discount(amount)
	final := amount.Sub(discount)
	if final.IsNegative() {
		final = decimal.Zero
	}

	coupon.UsedCount++
	coupon.LastUsedAt = &now
	if err := s.coupons.Save(coupons); err != nil {
		return nil, err
	}

	return &CouponValidation{
		CouponID:       coupon.ID,
		Code:           coupon.Code,
		Description:    coupon.Description,
		DiscountType:   coupon.DiscountType,
		DiscountAmount: models.Amount(discount),
		OrderAmount:    models.Amount(amount),
		FinalAmount:    models.Amount(final),
	}, nil
}

func (s *CouponService) CreateCoupon(req CreateCouponRequest) (*models.Coupon, error) {
	code := normalizeCode(req.Code)
	discountType := models.DiscountType(strings.ToLower(strings.TrimSpace(req.DiscountType)))
	switch {
	case code == "" || utils.SanitizeString(req.Description) == "":
		return nil, validationError("code and description are required")
	case !discountType.Valid():
		return nil, validationError("discount_type must be percentage or fixed")
	case req.DiscountValue <= 0:
		return nil, validationError("discount_value must be greater than 0")
	case discountType == models.DiscountPercentage && req.DiscountValue > 100:
		return nil, validationError("percentage discount cannot exceed 100")
	}

	now := s.now()
	coupon := models.Coupon{
		Code:           code,
		Description:    utils.SanitizeString(req.Description),
		DiscountType:   discountType,
		DiscountValue:  req.DiscountValue,
		MinOrderAmount: 0,
		MaxDiscount:    req.DiscountValue,
		UsageLimit:     defaultCouponUsageLimit,
		ExpiresAt:      now.Add(defaultCouponLifetime),
		IsActive:       true,
		CreatedAt:      now,
	}
	if req.MinOrderAmount != nil {
		coupon.MinOrderAmount = *req.MinOrderAmount
	}
	if req.MaxDiscount != nil {
		coupon.MaxDiscount = *req.MaxDiscount
	}
	if req.UsageLimit != nil {
		coupon.UsageLimit = *req.UsageLimit
	}
	if req.ExpiresAt != nil {
		coupon.ExpiresAt = *req.ExpiresAt
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}
	if coupon.MinOrderAmount < 0 || coupon.MaxDiscount <= 0 || coupon.UsageLimit <= 0 {
		return nil, validationError("min_order_amount cannot be negative; max_discount and usage_limit must be greater than 0")
	}

	defer s.store.Lock(store.Coupons)()

	coupons, err := s.coupons.Load()
	if err != nil {
		return nil, err
	}
	for _, c := range coupons {
		if normalizeCode(c.Code) == code {
			return nil, conflictError("coupon code %s already exists", code)
		}
	}

	coupon.ID = store.NextID(coupons)
	if err := s.coupons.Save(append(coupons, coupon)); err != nil {
		return nil, err
	}
	return &coupon, nil
}

// ListActiveCoupons returns coupons that are active and not yet expired.
func (s *CouponService) ListActiveCoupons() ([]models.Coupon, error) {
	defer s.store.RLock(store.Coupons)()

	coupons, err := s.coupons.Load()
	if err != nil {
		return nil, err
	}
	now := s.now()
	return store.Filter(coupons, func(c models.Coupon) bool {
		return c.IsActive && !c.Expired(now)
	}), nil
}
