package services

import (
	"testing"

	"github.com/princeprakhar/shopfront-api/internal/models"
	"github.com/princeprakhar/shopfront-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeOncePerProduct(t *testing.T) {
	s := newTestStore(t)
	seedProducts(t, s, models.Product{ID: 1, Name: "Mug", Price: 8, Category: "Home", Stock: 5})
	svc := NewLikeService(s)

	like, err := svc.LikeProduct(customer.UserID, LikeRequest{ProductID: 1})
	require.NoError(t, err)

	_, err = svc.LikeProduct(customer.UserID, LikeRequest{ProductID: 1})
	assertKind(t, err, ErrConflict)
	assert.Equal(t, map[string]interface{}{"already_liked": true}, ErrorMeta(err))
	assert.Equal(t, 1, countRecords[models.Like](t, s, store.Likes))

	_, err = svc.LikeProduct(customer.UserID, LikeRequest{ProductID: 2})
	assertKind(t, err, ErrNotFound)

	check, err := svc.CheckUserLike(customer.UserID, 1)
	require.NoError(t, err)
	assert.True(t, check.Liked)
	assert.Equal(t, like.ID, check.LikeID)

	assertKind(t, svc.UnlikeProduct(stranger, like.ID), ErrForbidden)
	require.NoError(t, svc.UnlikeProduct(customer, like.ID))

	likes, err := svc.GetProductLikes(1)
	require.NoError(t, err)
	assert.Zero(t, likes.Count)
}

func TestCleanupDuplicateLikes(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, store.NewCollection[models.Like](s, store.Likes).Save([]models.Like{
		{ID: 1, UserID: 1, ProductID: 1},
		{ID: 2, UserID: 1, ProductID: 1},
		{ID: 3, UserID: 2, ProductID: 1},
		{ID: 4, UserID: 1, ProductID: 1},
	}))

	result, err := NewLikeService(s).CleanupDuplicates()
	require.NoError(t, err)
	assert.Equal(t, 2, result.Removed)
	assert.Equal(t, 2, result.Remaining)
}

func TestReviewOncePerProduct(t *testing.T) {
	s := newTestStore(t)
	seedProducts(t, s, models.Product{ID: 1, Name: "Mug", Price: 8, Category: "Home", Stock: 5})
	svc := NewReviewService(s)

	_, err := svc.CreateReview(customer.UserID, CreateReviewRequest{ProductID: 1, Rating: 6})
	assertKind(t, err, ErrValidation)

	_, err = svc.CreateReview(customer.UserID, CreateReviewRequest{ProductID: 1, Rating: 4, Comment: "Solid"})
	require.NoError(t, err)
	_, err = svc.CreateReview(stranger.UserID, CreateReviewRequest{ProductID: 1, Rating: 5})
	require.NoError(t, err)

	_, err = svc.CreateReview(customer.UserID, CreateReviewRequest{ProductID: 1, Rating: 1})
	assertKind(t, err, ErrConflict)
	assert.Equal(t, true, ErrorMeta(err)["already_reviewed"])
	assert.Equal(t, 2, countRecords[models.Review](t, s, store.Reviews))

	reviews, err := svc.GetProductReviews(1)
	require.NoError(t, err)
	assert.Equal(t, 2, reviews.Count)
	assert.Equal(t, 4.5, reviews.AverageRating)
}

func TestWishlistOncePerProduct(t *testing.T) {
	s := newTestStore(t)
	seedProducts(t, s, models.Product{ID: 1, Name: "Mug", Price: 8, Category: "Home", Stock: 5})
	svc := NewWishlistService(s)

	item, err := svc.AddToWishlist(customer.UserID, WishlistRequest{ProductID: 1})
	require.NoError(t, err)

	_, err = svc.AddToWishlist(customer.UserID, WishlistRequest{ProductID: 1})
	assertKind(t, err, ErrConflict)
	assert.Equal(t, true, ErrorMeta(err)["already_in_wishlist"])
	assert.Equal(t, 1, countRecords[models.WishlistItem](t, s, store.Wishlist))

	entries, err := svc.GetWishlist(customer.UserID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Mug", entries[0].Product.Name)

	assertKind(t, svc.RemoveFromWishlist(stranger.UserID, item.ID), ErrNotFound)
	require.NoError(t, svc.RemoveFromWishlist(customer.UserID, item.ID))
}

func TestMarkHelpfulOncePerIdentity(t *testing.T) {
	s := newTestStore(t)
	svc := NewHelpService(s)

	article, err := svc.CreateArticle(HelpArticleRequest{Question: "How do I return an item?", Answer: "Contact support."})
	require.NoError(t, err)
	assert.Equal(t, "General", article.Category)

	updated, err := svc.MarkHelpful(models.UserIdentifier(customer.UserID), article.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.HelpfulCount)

	_, err = svc.MarkHelpful(models.UserIdentifier(customer.UserID), article.ID)
	assertKind(t, err, ErrConflict)
	assert.Equal(t, true, ErrorMeta(err)["already_helpful"])
	assert.Equal(t, 1, countRecords[models.HelpfulVote](t, s, store.HelpfulVotes))

	updated, err = svc.MarkHelpful("203.0.113.7", article.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.HelpfulCount)

	_, err = svc.MarkHelpful("203.0.113.7", 42)
	assertKind(t, err, ErrNotFound)
}
