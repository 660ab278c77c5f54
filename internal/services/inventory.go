package services

import (
	"time"

	"github.com/princeprakhar/shopfront-api/internal/models"
	"github.com/princeprakhar/shopfront-api/internal/store"
)

type InventoryService struct {
	store            *store.Store
	products         *store.Collection[models.Product]
	defaultThreshold int
}

type UpdateStockRequest struct {
	ProductID int  `json:"product_id" binding:"required"`
	Stock     *int `json:"stock" binding:"required"`
}

type StockChange struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	OldStock  int    `json:"old_stock"`
	NewStock  int    `json:"new_stock"`
}

type LowStockReport struct {
	Threshold int              `json:"threshold"`
	Products  []models.Product `json:"products"`
}

type BulkUpdateResult struct {
	Updated   int   `json:"updated"`
	NotFound  []int `json:"not_found"`
	Requested int   `json:"requested"`
}

func NewInventoryService(s *store.Store, defaultThreshold int) *InventoryService {
	return &InventoryService{
		store:            s,
		products:         store.NewCollection[models.Product](s, store.Products),
		defaultThreshold: defaultThreshold,
	}
}

// LowStock lists products with stock at or below threshold. A threshold of
// zero or less selects the configured default.
func (s *InventoryService) LowStock(threshold int) (*LowStockReport, error) {
	if threshold <= 0 {
		threshold = s.defaultThreshold
	}

	defer s.store.RLock(store.Products)()

	products, err := s.products.Load()
	if err != nil {
		return nil, err
	}
	low := store.Filter(products, func(p models.Product) bool { return p.Stock <= threshold })
	return &LowStockReport{Threshold: threshold, Products: low}, nil
}

func (s *InventoryService) UpdateStock(req UpdateStockRequest) (*StockChange, error) {
	if req.Stock == nil {
		return nil, validationError("stock is required")
	}
	if *req.Stock < 0 {
		return nil, validationError("stock cannot be negative")
	}

	defer s.store.Lock(store.Products)()

	products, err := s.products.Load()
	if err != nil {
		return nil, err
	}
	product, _ := store.Find(products, req.ProductID)
	if product == nil {
		return nil, notFoundError("product not found")
	}

	change := &StockChange{ProductID: product.ID, Name: product.Name, OldStock: product.Stock, NewStock: *req.Stock}
	product.Stock = *req.Stock
	product.UpdatedAt = time.Now()

	if err := s.products.Save(products); err != nil {
		return nil, err
	}
	return change, nil
}

// BulkUpdate applies partial updates to many products in one write. Unknown
// ids are skipped and reported; any invalid entry rejects the whole batch.
func (s *InventoryService) BulkUpdate(updates []models.BulkProductUpdate) (*BulkUpdateResult, error) {
	if len(updates) == 0 {
		return nil, validationError("no updates provided")
	}
	for _, u := range updates {
		if err := validateProductFields(u.Name, u.Price, u.Category, u.Stock); err != nil {
			return nil, err
		}
	}

	defer s.store.Lock(store.Products)()

	products, err := s.products.Load()
	if err != nil {
		return nil, err
	}

	result := &BulkUpdateResult{Requested: len(updates), NotFound: []int{}}
	now := time.Now()
	for _, u := range updates {
		product, _ := store.Find(products, u.ID)
		if product == nil {
			result.NotFound = append(result.NotFound, u.ID)
			continue
		}
		applyProductUpdate(product, u.UpdateProductRequest, now)
		result.Updated++
	}

	if result.Updated > 0 {
		if err := s.products.Save(products); err != nil {
			return nil, err
		}
	}
	return result, nil
}
