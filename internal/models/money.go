package models

import "github.com/shopspring/decimal"

// LineTotal is price × quantity.
func LineTotal(price float64, quantity int) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity)))
}

// Amount rounds to cents for storage and responses.
func Amount(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
