package models

import "time"

type CartItem struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	ProductID int       `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c CartItem) RecordID() int { return c.ID }

// MergeCartItem adds quantity to the user's existing line for the product or
// appends a new line. It returns the updated slice and the affected line.
func MergeCartItem(items []CartItem, userID, productID, quantity int, now time.Time) ([]CartItem, CartItem) {
	for i := range items {
		if items[i].UserID == userID && items[i].ProductID == productID {
			items[i].Quantity += quantity
			items[i].UpdatedAt = now
			return items, items[i]
		}
	}

	next := 1
	for _, it := range items {
		if it.ID >= next {
			next = it.ID + 1
		}
	}
	item := CartItem{
		ID:        next,
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return append(items, item), item
}

// CartLine is a cart item joined with its live product.
type CartLine struct {
	CartItem
	Product   Product `json:"product"`
	ItemTotal float64 `json:"item_total"`
}

type CartView struct {
	Items      []CartLine `json:"items"`
	Total      float64    `json:"total"`
	TotalItems int        `json:"total_items"`
}
