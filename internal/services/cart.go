package services

import (
	"time"

	"github.com/princeprakhar/shopfront-api/internal/models"
	"github.com/princeprakhar/shopfront-api/internal/store"
	"github.com/shopspring/decimal"
)

type CartService struct {
	store    *store.Store
	cart     *store.Collection[models.CartItem]
	products *store.Collection[models.Product]
}

type AddToCartRequest struct {
	ProductID int  `json:"product_id" binding:"required"`
	Quantity  *int `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func NewCartService(s *store.Store) *CartService {
	return &CartService{
		store:    s,
		cart:     store.NewCollection[models.CartItem](s, store.Cart),
		products: store.NewCollection[models.Product](s, store.Products),
	}
}

// GetCart joins the user's lines with live products. Lines whose product no
// longer exists are left out.
func (s *CartService) GetCart(userID int) (*models.CartView, error) {
	defer s.store.RLock(store.Cart, store.Products)()

	items, err := s.cart.Load()
	if err != nil {
		return nil, err
	}
	products, err := s.products.Load()
	if err != nil {
		return nil, err
	}

	view := &models.CartView{Items: []models.CartLine{}}
	total := decimal.Zero
	for _, it := range items {
		if it.UserID != userID {
			continue
		}
		product, _ := store.Find(products, it.ProductID)
		if product == nil {
			continue
		}
		line := models.LineTotal(product.Price, it.Quantity)
		total = total.Add(line)
		view.TotalItems += it.Quantity
		view.Items = append(view.Items, models.CartLine{
			CartItem:  it,
			Product:   *product,
			ItemTotal: models.Amount(line),
		})
	}
	view.Total = models.Amount(total)
	return view, nil
}

// AddToCart merges the quantity into the user's line for the product. Stock
// is checked against the requested quantity only, as carts do not reserve.
func (s *CartService) AddToCart(userID int, req AddToCartRequest) (*models.CartItem, error) {
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity <= 0 {
		return nil, validationError("quantity must be a positive integer")
	}

	defer s.store.Lock(store.Cart, store.Products)()

	products, err := s.products.Load()
	if err != nil {
		return nil, err
	}
	product, _ := store.Find(products, req.ProductID)
	if product == nil {
		return nil, notFoundError("product not found")
	}
	if product.Stock < quantity {
		return nil, validationError("insufficient stock for %s: available %d, requested %d", product.Name, product.Stock, quantity)
	}

	items, err := s.cart.Load()
	if err != nil {
		return nil, err
	}
	items, line := models.MergeCartItem(items, userID, req.ProductID, quantity, time.Now())
	if err := s.cart.Save(items); err != nil {
		return nil, err
	}
	return &line, nil
}

func (s *CartService) UpdateCartItem(userID, itemID int, req UpdateCartItemRequest) (*models.CartItem, error) {
	if req.Quantity <= 0 {
		return nil, validationError("quantity must be a positive integer")
	}

	defer s.store.Lock(store.Cart, store.Products)()

	items, err := s.cart.Load()
	if err != nil {
		return nil, err
	}
	item, _ := store.Find(items, itemID)
	if item == nil || item.UserID != userID {
		return nil, notFoundError("cart item not found")
	}

	products, err := s.products.Load()
	if err != nil {
		return nil, err
	}
	if product, _ := store.Find(products, item.ProductID); product != nil && product.Stock < req.Quantity {
		return nil, validationError("insufficient stock for %s: available %d, requested %d", product.Name, product.Stock, req.Quantity)
	}

	item.Quantity = req.Quantity
	item.UpdatedAt = time.Now()
	if err := s.cart.Save(items); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CartService) RemoveCartItem(userID, itemID int) error {
	defer s.store.Lock(store.Cart)()

	items, err := s.cart.Load()
	if err != nil {
		return err
	}
	item, idx := store.Find(items, itemID)
	if item == nil || item.UserID != userID {
		return notFoundError("cart item not found")
	}
	return s.cart.Save(append(items[:idx], items[idx+1:]...))
}

// ClearCart removes every line of the user and returns how many were removed.
func (s *CartService) ClearCart(userID int) (int, error) {
	defer s.store.Lock(store.Cart)()

	items, err := s.cart.Load()
	if err != nil {
		return 0, err
	}
	kept := store.Filter(items, func(it models.CartItem) bool { return it.UserID != userID })
	removed := len(items) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	return removed, s.cart.Save(kept)
}
