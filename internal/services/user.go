package services

import (
	"time"

	"github.com/princeprakhar/shopfront-api/internal/models"
	"github.com/princeprakhar/shopfront-api/internal/store"
	"github.com/princeprakhar/shopfront-api/internal/utils"
	"github.com/princeprakhar/shopfront-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type UserService struct {
	store         *store.Store
	users         *store.Collection[models.User]
	cart          *store.Collection[models.CartItem]
	orders        *store.Collection[models.Order]
	wishlist      *store.Collection[models.WishlistItem]
	reviews       *store.Collection[models.Review]
	likes         *store.Collection[models.Like]
	notifications *store.Collection[models.Notification]
	helpfulVotes  *store.Collection[models.HelpfulVote]
}

type UpdateUserRequest struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

type UserActivity struct {
	User        models.UserResponse `json:"user"`
	OrderCount  int                 `json:"order_count"`
	ReviewCount int                 `json:"review_count"`
	CartItems   int                 `json:"cart_items"`
	TotalSpent  float64             `json:"total_spent"`
	Orders      []models.Order      `json:"orders"`
	Reviews     []models.Review     `json:"reviews"`
}

// DeleteUserResult reports how many dependent records the sweep removed per
// collection.
type DeleteUserResult struct {
	UserID  int            `json:"user_id"`
	Removed map[string]int `json:"removed"`
}

func NewUserService(s *store.Store) *UserService {
	return &UserService{
		store:         s,
		users:         store.NewCollection[models.User](s, store.Users),
		cart:          store.NewCollection[models.CartItem](s, store.Cart),
		orders:        store.NewCollection[models.Order](s, store.Orders),
		wishlist:      store.NewCollection[models.WishlistItem](s, store.Wishlist),
		reviews:       store.NewCollection[models.Review](s, store.Reviews),
		likes:         store.NewCollection[models.Like](s, store.Likes),
		notifications: store.NewCollection[models.Notification](s, store.Notifications),
		helpfulVotes:  store.NewCollection[models.HelpfulVote](s, store.HelpfulVotes),
	}
}

func (s *UserService) ListUsers() ([]models.UserResponse, error) {
	defer s.store.RLock(store.Users)()

	users, err := s.users.Load()
	if err != nil {
		return nil, err
	}
	out := make([]models.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, u.ToResponse())
	}
	return out, nil
}

func (s *UserService) GetUser(actor Actor, id int) (*models.UserResponse, error) {
	if !actor.CanAccess(id) {
		return nil, forbiddenError("access denied")
	}

	defer s.store.RLock(store.Users)()

	users, err := s.users.Load()
	if err != nil {
		return nil, err
	}
	user, _ := store.Find(users, id)
	if user == nil {
		return nil, notFoundError("user not found")
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *UserService) UpdateUser(actor Actor, id int, req UpdateUserRequest) (*models.UserResponse, error) {
	if !actor.CanAccess(id) {
		return nil, forbiddenError("access denied")
	}
	if req.Name != nil && !utils.IsValidName(utils.SanitizeString(*req.Name)) {
		return nil, validationError("name must be at least 3 characters and contain only letters and spaces")
	}
	if req.Phone != nil && !utils.IsValidPhone(utils.SanitizeString(*req.Phone)) {
		return nil, validationError("phone must be 8-20 characters of digits and +")
	}
	if req.Address != nil && utils.SanitizeString(*req.Address) == "" {
		return nil, validationError("address cannot be empty")
	}

	defer s.store.Lock(store.Users)()

	users, err := s.users.Load()
	if err != nil {
		return nil, err
	}
	user, _ := store.Find(users, id)
	if user == nil {
		return nil, notFoundError("user not found")
	}

	if req.Name != nil {
		user.Name = utils.SanitizeString(*req.Name)
	}
	if req.Phone != nil {
		user.Phone = utils.SanitizeString(*req.Phone)
	}
	if req.Address != nil {
		user.Address = utils.SanitizeString(*req.Address)
	}
	user.UpdatedAt = time.Now()

	if err := s.users.Save(users); err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

// DeleteUser removes the user and then sweeps every dependent collection.
// Each sweep runs on its own; a failing collection is logged and skipped.
func (s *UserService) DeleteUser(id int) (*DeleteUserResult, error) {
	if err := s.removeUser(id); err != nil {
		return nil, err
	}

	result := &DeleteUserResult{UserID: id, Removed: make(map[string]int)}
	identifier := models.UserIdentifier(id)

	record := func(name string, n int, err error) {
		if err != nil {
			logger.WithFields(logrus.Fields{
				"user_id":    id,
				"collection": name,
				"error":      err.Error(),
			}).Warn("User cleanup failed")
			return
		}
		result.Removed[name] = n
	}

	n, err := sweep(s.store, s.cart, func(r models.CartItem) bool { return r.UserID == id })
	record(store.Cart, n, err)
	n, err = sweep(s.store, s.orders, func(r models.Order) bool { return r.UserID == id })
	record(store.Orders, n, err)
	n, err = sweep(s.store, s.wishlist, func(r models.WishlistItem) bool { return r.UserID == id })
	record(store.Wishlist, n, err)
	n, err = sweep(s.store, s.reviews, func(r models.Review) bool { return r.UserID == id })
	record(store.Reviews, n, err)
	n, err = sweep(s.store, s.likes, func(r models.Like) bool { return r.UserID == id })
	record(store.Likes, n, err)
	n, err = sweep(s.store, s.notifications, func(r models.Notification) bool { return r.UserID == id })
	record(store.Notifications, n, err)
	n, err = sweep(s.store, s.helpfulVotes, func(r models.HelpfulVote) bool { return r.UserIdentifier == identifier })
	record(store.HelpfulVotes, n, err)

	return result, nil
}

func (s *UserService) removeUser(id int) error {
	defer s.store.Lock(store.Users)()

	users, err := s.users.Load()
	if err != nil {
		return err
	}
	_, idx := store.Find(users, id)
	if idx < 0 {
		return notFoundError("user not found")
	}
	return s.users.Save(append(users[:idx], users[idx+1:]...))
}

// sweep deletes the records matching owned from one collection.
func sweep[T store.Record](s *store.Store, c *store.Collection[T], owned func(T) bool) (int, error) {
	defer s.Lock(c.Name())()

	items, err := c.Load()
	if err != nil {
		return 0, err
	}
	kept := store.Filter(items, func(r T) bool { return !owned(r) })
	removed := len(items) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	return removed, c.Save(kept)
}

// Activity summarises a user's orders, reviews and cart.
func (s *UserService) Activity(id int) (*UserActivity, error) {
	defer s.store.RLock(store.Users, store.Orders, store.Reviews, store.Cart)()

	users, err := s.users.Load()
	if err != nil {
		return nil, err
	}
	user, _ := store.Find(users, id)
	if user == nil {
		return nil, notFoundError("user not found")
	}

	orders, err := s.orders.Load()
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.Load()
	if err != nil {
		return nil, err
	}
	cart, err := s.cart.Load()
	if err != nil {
		return nil, err
	}

	userOrders := store.Filter(orders, func(o models.Order) bool { return o.UserID == id })
	userReviews := store.Filter(reviews, func(r models.Review) bool { return r.UserID == id })
	userCart := store.Filter(cart, func(c models.CartItem) bool { return c.UserID == id })

	spent := decimal.Zero
	for _, o := range userOrders {
		if o.CountsTowardRevenue() {
			spent = spent.Add(decimal.NewFromFloat(o.TotalAmount))
		}
	}

	return &UserActivity{
		User:        user.ToResponse(),
		OrderCount:  len(userOrders),
		ReviewCount: len(userReviews),
		CartItems:   len(userCart),
		TotalSpent:  models.Amount(spent),
		Orders:      userOrders,
		Reviews:     userReviews,
	}, nil
}
