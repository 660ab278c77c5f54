package models

import (
	"time"
)

type Product struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Stock       int       `json:"stock"`
	ImageURL    string    `json:"image_url"`
	ImageKey    string    `json:"image_key,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p Product) RecordID() int { return p.ID }

type Category struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (c Category) RecordID() int { return c.ID }

// DefaultCategories seed an empty catalog.
func DefaultCategories(now time.Time) []Category {
	names := []struct{ name, description string }{
		{"Electronics", "Electronic devices and accessories"},
		{"Clothing", "Apparel and fashion items"},
		{"Books", "Books and publications"},
		{"Home & Garden", "Home improvement and garden supplies"},
		{"Sports", "Sports equipment and accessories"},
	}
	out := make([]Category, 0, len(names))
	for i, n := range names {
		out = append(out, Category{ID: i + 1, Name: n.name, Description: n.description, CreatedAt: now})
	}
	return out
}

// Request structs for API
type CreateProductRequest struct {
	Name        string  `json:"name" form:"name"`
	Description string  `json:"description" form:"description"`
	Price       float64 `json:"price" form:"price"`
	Category    string  `json:"category" form:"category"`
	Stock       int     `json:"stock" form:"stock"`
	ImageURL    string  `json:"image_url" form:"image_url"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
}

// BulkProductUpdate is one entry of a bulk update; ID selects the product.
type BulkProductUpdate struct {
	ID int `json:"product_id"`
	UpdateProductRequest
}

// ProductWithRating is a product annotated for search results.
type ProductWithRating struct {
	Product
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}
