package services

import (
	"testing"
	"time"

	"github.com/princeprakhar/shopfront-api/internal/models"
	"github.com/princeprakhar/shopfront-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCouponFixture(t *testing.T, now time.Time) (*store.Store, *CouponService) {
	t.Helper()
	s := newTestStore(t)
	svc := NewCouponService(s)
	svc.now = func() time.Time { return now }
	return s, svc
}

func TestValidateCouponAppliesAndCounts(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s, svc := newCouponFixture(t, now)

	maxDiscount := 15.0
	_, err := svc.CreateCoupon(CreateCouponRequest{
		Code:          "summer20",
		Description:   "Summer sale",
		DiscountType:  "percentage",
		DiscountValue: 20,
		MaxDiscount:   &maxDiscount,
	})
	require.NoError(t, err)

	res, err := svc.ValidateCoupon(ValidateCouponRequest{Code: " Summer20 ", OrderAmount: 50})
	require.NoError(t, err)
	assert.Equal(t, "SUMMER20", res.Code)
	assert.Equal(t, 10.0, res.DiscountAmount)
	assert.Equal(t, 40.0, res.FinalAmount)

	res, err = svc.ValidateCoupon(ValidateCouponRequest{Code: "SUMMER20", OrderAmount: 200})
	require.NoError(t, err)
	assert.Equal(t, 15.0, res.DiscountAmount)
	assert.Equal(t, 185.0, res.FinalAmount)

	coupons, err := store.NewCollection[models.Coupon](s, store.Coupons).Load()
	require.NoError(t, err)
	require.Len(t, coupons, 1)
	assert.Equal(t, 2, coupons[0].UsedCount)
	require.NotNil(t, coupons[0].LastUsedAt)
	assert.True(t, coupons[0].LastUsedAt.Equal(now))
}

func TestValidateCouponRejections(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s, svc := newCouponFixture(t, now)

	require.NoError(t, store.NewCollection[models.Coupon](s, store.Coupons).Save([]models.Coupon{
		{ID: 1, Code: "OFF", DiscountType: models.DiscountFixed, DiscountValue: 5, MaxDiscount: 5, UsageLimit: 10, ExpiresAt: now.Add(time.Hour), IsActive: false},
		{ID: 2, Code: "OLD", DiscountType: models.DiscountFixed, DiscountValue: 5, MaxDiscount: 5, UsageLimit: 10, ExpiresAt: now.Add(-time.Hour), IsActive: true},
		{ID: 3, Code: "USED", DiscountType: models.DiscountFixed, DiscountValue: 5, MaxDiscount: 5, UsageLimit: 2, UsedCount: 2, ExpiresAt: now.Add(time.Hour), IsActive: true},
		{ID: 4, Code: "BIG", DiscountType: models.DiscountFixed, DiscountValue: 5, MaxDiscount: 5, MinOrderAmount: 100, UsageLimit: 10, ExpiresAt: now.Add(time.Hour), IsActive: true},
	}))

	tests := []struct {
		name   string
		req    ValidateCouponRequest
		kind   error
		expect string
	}{
		{"unknown", ValidateCouponRequest{Code: "NOPE", OrderAmount: 10}, ErrNotFound, "invalid coupon code"},
		{"inactive", ValidateCouponRequest{Code: "OFF", OrderAmount: 10}, ErrValidation, "not active"},
		{"expired", ValidateCouponRequest{Code: "OLD", OrderAmount: 10}, ErrValidation, "expired"},
		{"exhausted", ValidateCouponRequest{Code: "USED", OrderAmount: 10}, ErrValidation, "usage limit"},
		{"below minimum", ValidateCouponRequest{Code: "BIG", OrderAmount: 99.99}, ErrValidation, "minimum order amount of 100.00"},
		{"missing code", ValidateCouponRequest{OrderAmount: 10}, ErrValidation, "required"},
		{"non-positive amount", ValidateCouponRequest{Code: "BIG", OrderAmount: 0}, ErrValidation, "order_amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateCoupon(tt.req)
			assertKind(t, err, tt.kind)
			assert.Contains(t, err.Error(), tt.expect)
		})
	}

	coupons, err := store.NewCollection[models.Coupon](s, store.Coupons).Load()
	require.NoError(t, err)
	for _, c := range coupons {
		assert.Nil(t, c.LastUsedAt, c.Code)
	}
	assert.Equal(t, 2, coupons[2].UsedCount)
}

func TestCreateCouponDefaultsAndDuplicates(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	_, svc := newCouponFixture(t, now)

	c, err := svc.CreateCoupon(CreateCouponRequest{Code: "five", Description: "Five off", DiscountType: "FIXED", DiscountValue: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, c.ID)
	assert.Equal(t, "FIVE", c.Code)
	assert.Equal(t, models.DiscountFixed, c.DiscountType)
	assert.Equal(t, 5.0, c.MaxDiscount)
	assert.Equal(t, 100, c.UsageLimit)
	assert.True(t, c.IsActive)
	assert.True(t, c.ExpiresAt.Equal(now.Add(30*24*time.Hour)))

	_, err = svc.CreateCoupon(CreateCouponRequest{Code: "FIVE", Description: "Again", DiscountType: "fixed", DiscountValue: 5})
	assertKind(t, err, ErrConflict)

	_, err = svc.CreateCoupon(CreateCouponRequest{Code: "HALF", Description: "Too much", DiscountType: "percentage", DiscountValue: 150})
	assertKind(t, err, ErrValidation)

	_, err = svc.CreateCoupon(CreateCouponRequest{Code: "BOGUS", Description: "Bad type", DiscountType: "bogo", DiscountValue: 1})
	assertKind(t, err, ErrValidation)

	active, err := svc.ListActiveCoupons()
	require.NoError(t, err)
	assert.Len(t, active, 1)
}
