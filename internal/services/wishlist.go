package services

import (
	"time"

	"github.com/princeprakhar/shopfront-api/internal/models"
	"github.com/princeprakhar/shopfront-api/internal/store"
)

type WishlistService struct {
	store    *store.Store
	wishlist *store.Collection[models.WishlistItem]
	products *store.Collection[models.Product]
}

type WishlistRequest struct {
	ProductID int `json:"product_id" binding:"required"`
}

type WishlistEntry struct {
	models.WishlistItem
	Product models.Product `json:"product"`
}

func NewWishlistService(s *store.Store) *WishlistService {
	return &WishlistService{
		store:    s,
		wishlist: store.NewCollection[models.WishlistItem](s, store.Wishlist),
		products: store.NewCollection[models.Product](s, store.Products),
	}
}

// GetWishlist returns the user's entries with product details; entries whose
// product was deleted are skipped.
func (s *WishlistService) GetWishlist(userID int) ([]WishlistEntry, error) {
	defer s.store.RLock(store.Wishlist, store.Products)()

	items, err := s.wishlist.Load()
	if err != nil {
		return nil, err
	}
	products, err := s.products.Load()
	if err != nil {
		return nil, err
	}

	out := make([]WishlistEntry, 0)
	for _, it := range items {
		if it.UserID != userID {
			continue
		}
		if p, _ := store.Find(products, it.ProductID); p != nil {
			out = append(out, WishlistEntry{WishlistItem: it, Product: *p})
		}
	}
	return out, nil
}

func (s *WishlistService) AddToWishlist(userID int, req WishlistRequest) (*models.WishlistItem, error) {
	defer s.store.Lock(store.Wishlist, store.Products)()

	products, err := s.products.Load()
	if err != nil {
		return nil, err
	}
	if p, _ := store.Find(products, req.ProductID); p == nil {
		return nil, notFoundError("product not found")
	}

	items, err := s.wishlist.Load()
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if it.UserID == userID && it.ProductID == req.ProductID {
			return nil, duplicateError("already_in_wishlist", "product already in wishlist")
		}
	}

	item := models.WishlistItem{
		ID:        store.NextID(items),
		UserID:    userID,
		ProductID: req.ProductID,
		CreatedAt: time.Now(),
	}
	if err := s.wishlist.Save(append(items, item)); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *WishlistService) RemoveFromWishlist(userID, id int) error {
	defer s.store.Lock(store.Wishlist)()

	items, err := s.wishlist.Load()
	if err != nil {
		return err
	}
	item, idx := store.Find(items, id)
	if item == nil || item.UserID != userID {
		return notFoundError("wishlist item not found")
	}
	return s.wishlist.Save(append(items[:idx], items[idx+1:]...))
}
