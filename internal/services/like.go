package services

import (
	"time"

	"github.com/princeprakhar/shopfront-api/internal/models"
	"github.com/princeprakhar/shopfront-api/internal/store"
)

type LikeService struct {
	store    *store.Store
	likes    *store.Collection[models.Like]
	products *store.Collection[models.Product]
}

type LikeRequest struct {
	ProductID int `json:"product_id" binding:"required"`
}

type ProductLikes struct {
	Likes []models.Like `json:"likes"`
	Count int           `json:"count"`
}

type LikeCheck struct {
	Liked  bool `json:"liked"`
	LikeID int  `json:"like_id,omitempty"`
}

type CleanupResult struct {
	Removed   int `json:"removed"`
	Remaining int `json:"remaining"`
}

func NewLikeService(s *store.Store) *LikeService {
	return &LikeService{
		store:    s,
		likes:    store.NewCollection[models.Like](s, store.Likes),
		products: store.NewCollection[models.Product](s, store.Products),
	}
}

func (s *LikeService) LikeProduct(userID int, req LikeRequest) (*models.Like, error) {
	defer s.store.Lock(store.Likes, store.Products)()

	products, err := s.products.Load()
	if err != nil {
		return nil, err
	}
	if p, _ := store.Find(products, req.ProductID); p == nil {
		return nil, notFoundError("product not found")
	}

	likes, err := s.likes.Load()
	if err != nil {
		return nil, err
	}
	for _, l := range likes {
		if l.UserID == userID && l.ProductID == req.ProductID {
			return nil, duplicateError("already_liked", "product already liked")
		}
	}

	like := models.Like{
		ID:        store.NextID(likes),
		UserID:    userID,
		ProductID: req.ProductID,
		CreatedAt: time.Now(),
	}
	if err := s.likes.Save(append(likes, like)); err != nil {
		return nil, err
	}
	return &like, nil
}

// UnlikeProduct removes a like owned by the actor.
func (s *LikeService) UnlikeProduct(actor Actor, likeID int) error {
	defer s.store.Lock(store.Likes)()

	likes, err := s.likes.Load()
	if err != nil {
		return err
	}
	like, idx := store.Find(likes, likeID)
	if like == nil {
		return notFoundError("like not found")
	}
	if !actor.CanAccess(like.UserID) {
		return forbiddenError("you can only remove your own likes")
	}
	return s.likes.Save(append(likes[:idx], likes[idx+1:]...))
}

func (s *LikeService) GetProductLikes(productID int) (*ProductLikes, error) {
	defer s.store.RLock(store.Likes)()

	likes, err := s.likes.Load()
	if err != nil {
		return nil, err
	}
	own := store.Filter(likes, func(l models.Like) bool { return l.ProductID == productID })
	return &ProductLikes{Likes: own, Count: len(own)}, nil
}

func (s *LikeService) CheckUserLike(userID, productID int) (*LikeCheck, error) {
	defer s.store.RLock(store.Likes)()

	likes, err := s.likes.Load()
	if err != nil {
		return nil, err
	}
	for _, l := range likes {
		if l.UserID == userID && l.ProductID == productID {
			return &LikeCheck{Liked: true, LikeID: l.ID}, nil
		}
	}
	return &LikeCheck{}, nil
}

// CleanupDuplicates keeps the first like of each (user, product) pair.
func (s *LikeService) CleanupDuplicates() (*CleanupResult, error) {
	defer s.store.Lock(store.Likes)()

	likes, err := s.likes.Load()
	if err != nil {
		return nil, err
	}

	type pair struct{ user, product int }
	seen := make(map[pair]bool, len(likes))
	kept := store.Filter(likes, func(l models.Like) bool {
		key := pair{l.UserID, l.ProductID}
		if seen[key] {
			return false
		}
		seen[key] = true
		return true
	})

	result := &CleanupResult{Removed: len(likes) - len(kept), Remaining: len(kept)}
	if result.Removed > 0 {
		if err := s.likes.Save(kept); err != nil {
			return nil, err
		}
	}
	return result, nil
}
