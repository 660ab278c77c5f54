package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

func (t DiscountType) Valid() bool {
	return t == DiscountPercentage || t == DiscountFixed
}

type Coupon struct {
	ID             int          `json:"id"`
	Code           string       `json:"code"`
	Description    string       `json:"description"`
	DiscountType   DiscountType `json:"discount_type"`
	DiscountValue  float64      `json:"discount_value"`
	MinOrderAmount float64      `json:"min_order_amount"`
	MaxDiscount    float64      `json:"max_discount"`
	UsageLimit     int          `json:"usage_limit"`
	UsedCount      int          `json:"used_count"`
	ExpiresAt      time.Time    `json:"expires_at"`
	IsActive       bool         `json:"is_active"`
	CreatedAt      time.Time    `json:"created_at"`
	LastUsedAt     *time.Time   `json:"last_used_at,omitempty"`
}

func (c Coupon) RecordID() int { return c.ID }

func (c Coupon) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

func (c Coupon) Exhausted() bool {
	return c.UsedCount >= c.UsageLimit
}

// Discount returns the discount for an order of the given amount, capped at
// MaxDiscount. A percentage coupon takes value% of the amount; a fixed coupon
// takes its value.
func (c Coupon) Discount(amount decimal.Decimal) decimal.Decimal {
	maxDiscount := decimal.NewFromFloat(c.MaxDiscount)
	var d decimal.Decimal
	switch c.DiscountType {
	case DiscountPercentage:
		d = amount.Mul(decimal.NewFromFloat(c.DiscountValue)).Div(decimal.NewFromInt(100))
	default:
		d = decimal.NewFromFloat(c.DiscountValue)
	}
	if d.GreaterThan(maxDiscount) {
		d = maxDiscount
	}
	return d.Round(2)
}
