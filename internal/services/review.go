package services

import (
	"time"

	"github.com/princeprakhar/shopfront-api/internal/models"
	"github.com/princeprakhar/shopfront-api/internal/store"
	"github.com/princeprakhar/shopfront-api/internal/utils"
)

type ReviewService struct {
	store    *store.Store
	reviews  *store.Collection[models.Review]
	products *store.Collection[models.Product]
}

type CreateReviewRequest struct {
	ProductID int    `json:"product_id" binding:"required"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

type ProductReviews struct {
	Reviews       []models.Review `json:"reviews"`
	Count         int             `json:"count"`
	AverageRating float64         `json:"average_rating"`
}

type ReviewCheck struct {
	HasReviewed bool           `json:"has_reviewed"`
	Review      *models.Review `json:"review,omitempty"`
}

func NewReviewService(s *store.Store) *ReviewService {
	return &ReviewService{
		store:    s,
		reviews:  store.NewCollection[models.Review](s, store.Reviews),
		products: store.NewCollection[models.Product](s, store.Products),
	}
}

// CreateReview allows one review per user and product.
func (s *ReviewService) CreateReview(userID int, req CreateReviewRequest) (*models.Review, error) {
	if !utils.IsValidRating(req.Rating) {
		return nil, validationError("rating must be an integer between 1 and 5")
	}

	defer s.store.Lock(store.Reviews, store.Products)()

	products, err := s.products.Load()
	if err != nil {
		return nil, err
	}
	if p, _ := store.Find(products, req.ProductID); p == nil {
		return nil, notFoundError("product not found")
	}

	reviews, err := s.reviews.Load()
	if err != nil {
		return nil, err
	}
	for _, r := range reviews {
		if r.UserID == userID && r.ProductID == req.ProductID {
			return nil, duplicateError("already_reviewed", "you have already reviewed this product")
		}
	}

	review := models.Review{
		ID:        store.NextID(reviews),
		UserID:    userID,
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Comment:   utils.SanitizeString(req.Comment),
		CreatedAt: time.Now(),
	}
	if err := s.reviews.Save(append(reviews, review)); err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *ReviewService) GetProductReviews(productID int) (*ProductReviews, error) {
	defer s.store.RLock(store.Reviews)()

	reviews, err := s.reviews.Load()
	if err != nil {
		return nil, err
	}
	own := store.Filter(reviews, func(r models.Review) bool { return r.ProductID == productID })
	stat := ratingsByProduct(own)[productID]

	return &ProductReviews{
		Reviews:       own,
		Count:         len(own),
		AverageRating: stat.average(),
	}, nil
}

func (s *ReviewService) CheckUserReview(userID, productID int) (*ReviewCheck, error) {
	defer s.store.RLock(store.Reviews)()

	reviews, err := s.reviews.Load()
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		if reviews[i].UserID == userID && reviews[i].ProductID == productID {
			return &ReviewCheck{HasReviewed: true, Review: &reviews[i]}, nil
		}
	}
	return &ReviewCheck{}, nil
}
