package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/princeprakhar/shopfront-api/internal/models"
	"github.com/princeprakhar/shopfront-api/internal/store"
	"github.com/princeprakhar/shopfront-api/internal/utils"
	"github.com/princeprakhar/shopfront-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type OrderService struct {
	store         *store.Store
	orders        *store.Collection[models.Order]
	products      *store.Collection[models.Product]
	cart          *store.Collection[models.CartItem]
	users         *store.Collection[models.User]
	notifications *store.Collection[models.Notification]
	analytics     *store.Document[models.Analytics]
	mailer        Mailer
}

type CreateOrderRequest struct {
	ShippingAddress string `json:"shipping_address"`
}

type UpdateOrderRequest struct {
	ShippingAddress string `json:"shipping_address"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CancelOrderResult reports the cancelled order; ItemsRestored counts order
// lines, not units.
type CancelOrderResult struct {
	Order         models.Order `json:"order"`
	ItemsRestored int          `json:"items_restored"`
}

func NewOrderService(s *store.Store, mailer Mailer) *OrderService {
	return &OrderService{
		store:         s,
		orders:        store.NewCollection[models.Order](s, store.Orders),
		products:      store.NewCollection[models.Product](s, store.Products),
		cart:          store.NewCollection[models.CartItem](s, store.Cart),
		users:         store.NewCollection[models.User](s, store.Users),
		notifications: store.NewCollection[models.Notification](s, store.Notifications),
		analytics:     store.NewDocument[models.Analytics](s, store.Analytics),
		mailer:        mailer,
	}
}

// CreateOrder turns the user's cart into a pending order. Every line is
// checked against live stock before anything is written; then the order is
// saved, stock decremented and the cart cleared, in that order.
func (s *OrderService) CreateOrder(userID int, req CreateOrderRequest) (*models.Order, error) {
	address := utils.SanitizeString(req.ShippingAddress)
	if address == "" {
		return nil, validationError("shipping address is required")
	}

	defer s.store.Lock(store.Orders, store.Products, store.Cart, store.Notifications, store.Analytics)()

	cart, err := s.cart.Load()
	if err != nil {
		return nil, err
	}
	lines := store.Filter(cart, func(it models.CartItem) bool { return it.UserID == userID })
	if len(lines) == 0 {
		return nil, validationError("cart is empty")
	}

	products, err := s.products.Load()
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		product, _ := store.Find(products, line.ProductID)
		if product == nil {
			return nil, validationError("product %d is no longer available", line.ProductID)
		}
		if product.Stock < line.Quantity {
			return nil, validationError("insufficient stock for %s: available %d, requested %d",
				product.Name, product.Stock, line.Quantity)
		}
		subtotal := models.LineTotal(product.Price, line.Quantity)
		total = total.Add(subtotal)
		items = append(items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			Price:       product.Price,
			Subtotal:    models.Amount(subtotal),
		})
	}

	orders, err := s.orders.Load()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := models.Order{
		ID:              store.NextID(orders),
		UserID:          userID,
		Items:           items,
		TotalAmount:     models.Amount(total),
		Status:          models.StatusPending,
		ShippingAddress: address,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.orders.Save(append(orders, order)); err != nil {
		return nil, err
	}

	for _, it := range items {
		product, _ := store.Find(products, it.ProductID)
		product.Stock -= it.Quantity
		product.UpdatedAt = now
	}
	if err := s.products.Save(products); err != nil {
		return nil, err
	}

	remaining := store.Filter(cart, func(it models.CartItem) bool { return it.UserID != userID })
	if err := s.cart.Save(remaining); err != nil {
		return nil, err
	}

	s.notify(userID, fmt.Sprintf("Order #%d placed", order.ID),
		fmt.Sprintf("We received your order of %d items totalling %.2f.", order.Units(), order.TotalAmount), now)
	s.recordOrder(items, now)

	return &order, nil
}

// notify and recordOrder expect the caller to hold the notifications and
// analytics locks respectively. Failures are logged only.
func (s *OrderService) notify(userID int, title, message string, now time.Time) {
	items, err := s.notifications.Load()
	if err == nil {
		err = s.notifications.Save(appendNotification(items, userID, NotificationOrder, title, message, now))
	}
	if err != nil {
		logger.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Warn("Failed to create notification")
	}
}

func (s *OrderService) recordOrder(items []models.OrderItem, now time.Time) {
	doc, err := s.analytics.Load()
	if err == nil {
		for _, it := range items {
			doc.RecordOrder(it.ProductID, it.Quantity, now)
		}
		err = s.analytics.Save(doc)
	}
	if err != nil {
		logger.WithFields(logrus.Fields{"error": err.Error()}).Warn("Failed to record order analytics")
	}
}

// ListOrders returns every order for admins and the actor's own otherwise.
func (s *OrderService) ListOrders(actor Actor) ([]models.Order, error) {
	defer s.store.RLock(store.Orders)()

	orders, err := s.orders.Load()
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin {
		return orders, nil
	}
	return store.Filter(orders, func(o models.Order) bool { return o.UserID == actor.UserID }), nil
}

func (s *OrderService) ListOrdersByStatus(actor Actor, status string) ([]models.Order, error) {
	st := models.OrderStatus(strings.ToLower(status))
	if !st.Valid() {
		return nil, validationError("invalid status %q", status)
	}

	orders, err := s.ListOrders(actor)
	if err != nil {
		return nil, err
	}
	return store.Filter(orders, func(o models.Order) bool { return o.Status == st }), nil
}

func (s *OrderService) GetOrder(actor Actor, id int) (*models.Order, error) {
	defer s.store.RLock(store.Orders)()

	orders, err := s.orders.Load()
	if err != nil {
		return nil, err
	}
	order, _ := store.Find(orders, id)
	if order == nil {
		return nil, notFoundError("order not found")
	}
	if !actor.CanAccess(order.UserID) {
		return nil, forbiddenError("access denied")
	}
	return order, nil
}

// UpdateOrder changes the shipping address while the order is pending or
// processing.
func (s *OrderService) UpdateOrder(actor Actor, id int, req UpdateOrderRequest) (*models.Order, error) {
	address := utils.SanitizeString(req.ShippingAddress)
	if address == "" {
		return nil, validationError("shipping address is required")
	}

	defer s.store.Lock(store.Orders)()

	orders, err := s.orders.Load()
	if err != nil {
		return nil, err
	}
	order, _ := store.Find(orders, id)
	if order == nil {
		return nil, notFoundError("order not found")
	}
	if !actor.CanAccess(order.UserID) {
		return nil, forbiddenError("access denied")
	}
	if !order.Status.Editable() {
		return nil, conflictError("cannot update order with status %s", order.Status)
	}

	order.ShippingAddress = address
	order.UpdatedAt = time.Now()
	if err := s.orders.Save(orders); err != nil {
		return nil, err
	}
	return order, nil
}

func joinStatuses(statuses []models.OrderStatus) string {
	if len(statuses) == 0 {
		return "none"
	}
	parts := make([]string, len(statuses))
	for i, st := range statuses {
		parts[i] = string(st)
	}
	return strings.Join(parts, ", ")
}

// UpdateOrderStatus moves an order along the transition table. Asking for
// the current status succeeds without changes. Moving into cancelled here
// restocks the items but leaves the cart alone.
func (s *OrderService) UpdateOrderStatus(actor Actor, id int, req UpdateOrderStatusRequest) (*models.Order, error) {
	if !actor.IsAdmin {
		return nil, forbiddenError("admin access required")
	}
	next := models.OrderStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if !next.Valid() {
		return nil, validationError("invalid status %q", req.Status)
	}

	defer s.store.Lock(store.Orders, store.Products, store.Users, store.Notifications)()

	orders, err := s.orders.Load()
	if err != nil {
		return nil, err
	}
	order, _ := store.Find(orders, id)
	if order == nil {
		return nil, notFoundError("order not found")
	}
	if order.Status == next {
		return order, nil
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, conflictError("Cannot transition from %s to %s. Allowed: %s",
			order.Status, next, joinStatuses(order.Status.AllowedTransitions()))
	}

	now := time.Now()
	if next == models.StatusCancelled {
		products, err := s.products.Load()
		if err != nil {
			return nil, err
		}
		restock(products, order.Items, now)
		if err := s.products.Save(products); err != nil {
			return nil, err
		}
		order.CancelledAt = &now
	}

	order.Status = next
	order.UpdatedAt = now
	if err := s.orders.Save(orders); err != nil {
		return nil, err
	}

	s.notify(order.UserID, fmt.Sprintf("Order #%d %s", order.ID, order.Status),
		fmt.Sprintf("Your order status changed to %s.", order.Status), now)
	s.mailOwner(*order)

	return order, nil
}

// mailOwner expects the caller to hold the users lock.
func (s *OrderService) mailOwner(order models.Order) {
	if s.mailer == nil {
		return
	}
	users, err := s.users.Load()
	if err != nil {
		logger.WithFields(logrus.Fields{"order_id": order.ID, "error": err.Error()}).Warn("Failed to load order owner")
		return
	}
	owner, _ := store.Find(users, order.UserID)
	if owner == nil {
		return
	}
	subject, body := orderStatusEmail(order)
	sendAsync(s.mailer, owner.Email, subject, body)
}

// restock returns every line's quantity to its product and reports how many
// units were restored. Lines whose product is gone are skipped.
func restock(products []models.Product, items []models.OrderItem, now time.Time) int {
	restored := 0
	for _, it := range items {
		product, _ := store.Find(products, it.ProductID)
		if product == nil {
			continue
		}
		product.Stock += it.Quantity
		product.UpdatedAt = now
		restored += it.Quantity
	}
	return restored
}

// CancelOrder reverses an order: stock is returned, the items go back into
// the owner's cart and the order is marked cancelled. Admins may cancel
// pending or processing orders, owners only pending ones.
func (s *OrderService) CancelOrder(actor Actor, id int) (*CancelOrderResult, error) {
	defer s.store.Lock(store.Orders, store.Products, store.Cart, store.Notifications)()

	orders, err := s.orders.Load()
	if err != nil {
		return nil, err
	}
	order, _ := store.Find(orders, id)
	if order == nil {
		return nil, notFoundError("order not found")
	}
	if !actor.CanAccess(order.UserID) {
		return nil, forbiddenError("access denied")
	}
	if !order.Status.CanCancel(actor.IsAdmin) {
		return nil, conflictError("Cannot cancel order with status %s. Cancellable statuses: %s",
			order.Status, joinStatuses(models.CancellableFrom(actor.IsAdmin)))
	}

	products, err := s.products.Load()
	if err != nil {
		return nil, err
	}
	cart, err := s.cart.Load()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	restored := restock(products, order.Items, now)
	for _, it := range order.Items {
		if p, _ := store.Find(products, it.ProductID); p == nil {
			continue
		}
		cart, _ = models.MergeCartItem(cart, order.UserID, it.ProductID, it.Quantity, now)
	}

	if err := s.products.Save(products); err != nil {
		return nil, err
	}
	if err := s.cart.Save(cart); err != nil {
		return nil, err
	}

	order.Status = models.StatusCancelled
	order.CancelledAt = &now
	order.CartRestored = true
	order.UpdatedAt = now
	if err := s.orders.Save(orders); err != nil {
		return nil, err
	}

	s.notify(order.UserID, fmt.Sprintf("Order #%d cancelled", order.ID),
		fmt.Sprintf("%d items were returned to your cart.", restored), now)

	return &CancelOrderResult{Order: *order, ItemsRestored: len(order.Items)}, nil
}
