package services

import (
	"testing"

	"github.com/princeprakhar/shopfront-api/internal/models"
	"github.com/princeprakhar/shopfront-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderFixture(t *testing.T, products ...models.Product) (*store.Store, *CartService, *OrderService) {
	t.Helper()
	s := newTestStore(t)
	seedProducts(t, s, products...)
	return s, NewCartService(s), NewOrderService(s, nil)
}

func addToCart(t *testing.T, cart *CartService, userID, productID, qty int) {
	t.Helper()
	_, err := cart.AddToCart(userID, AddToCartRequest{ProductID: productID, Quantity: &qty})
	require.NoError(t, err)
}

func TestOrderLifecycle(t *testing.T) {
	s, cart, orders := newOrderFixture(t, models.Product{ID: 1, Name: "Lamp", Price: 19.99, Category: "Home", Stock: 5})

	addToCart(t, cart, customer.UserID, 1, 3)

	order, err := orders.CreateOrder(customer.UserID, CreateOrderRequest{ShippingAddress: "1 Main St"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, 59.97, order.TotalAmount)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 19.99, order.Items[0].Price)
	assert.Equal(t, 2, loadProduct(t, s, 1).Stock)

	view, err := cart.GetCart(customer.UserID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	_, err = orders.UpdateOrderStatus(admin, order.ID, UpdateOrderStatusRequest{Status: "processing"})
	require.NoError(t, err)
	shipped, err := orders.UpdateOrderStatus(admin, order.ID, UpdateOrderStatusRequest{Status: "shipped"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, shipped.Status)

	_, err = orders.UpdateOrderStatus(admin, order.ID, UpdateOrderStatusRequest{Status: "pending"})
	assertKind(t, err, ErrConflict)

	_, err = orders.CancelOrder(customer, order.ID)
	assertKind(t, err, ErrConflict)

	stored, err := orders.GetOrder(customer, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, stored.Status)
	assert.Equal(t, 2, loadProduct(t, s, 1).Stock)
}

func TestCreateOrderInsufficientStockChangesNothing(t *testing.T) {
	s, cart, orders := newOrderFixture(t,
		models.Product{ID: 1, Name: "Pen", Price: 1.5, Category: "Office", Stock: 10},
		models.Product{ID: 2, Name: "Desk", Price: 120, Category: "Office", Stock: 4},
	)
	addToCart(t, cart, customer.UserID, 1, 2)
	addToCart(t, cart, customer.UserID, 2, 4)

	// Someone else buys a desk after the cart was filled.
	require.NoError(t, store.NewCollection[models.Product](s, store.Products).Save([]models.Product{
		loadProduct(t, s, 1),
		func() models.Product { p := loadProduct(t, s, 2); p.Stock = 3; return p }(),
	}))

	_, err := orders.CreateOrder(customer.UserID, CreateOrderRequest{ShippingAddress: "1 Main St"})
	assertKind(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "Desk")

	assert.Equal(t, 10, loadProduct(t, s, 1).Stock)
	assert.Equal(t, 3, loadProduct(t, s, 2).Stock)
	list, err := orders.ListOrders(customer)
	require.NoError(t, err)
	assert.Empty(t, list)
	view, err := cart.GetCart(customer.UserID)
	require.NoError(t, err)
	assert.Len(t, view.Items, 2)
}

func TestCreateOrderPreconditions(t *testing.T) {
	_, _, orders := newOrderFixture(t, models.Product{ID: 1, Name: "Pen", Price: 1, Category: "Office", Stock: 1})

	_, err := orders.CreateOrder(customer.UserID, CreateOrderRequest{ShippingAddress: "  "})
	assertKind(t, err, ErrValidation)

	_, err = orders.CreateOrder(customer.UserID, CreateOrderRequest{ShippingAddress: "1 Main St"})
	assertKind(t, err, ErrValidation)
}

func TestCancelOrderRestocksAndRestoresCart(t *testing.T) {
	s, cart, orders := newOrderFixture(t,
		models.Product{ID: 1, Name: "Mug", Price: 8, Category: "Home", Stock: 10},
		models.Product{ID: 2, Name: "Tea", Price: 4.25, Category: "Food", Stock: 10},
	)
	addToCart(t, cart, customer.UserID, 1, 2)
	addToCart(t, cart, customer.UserID, 2, 1)
	order, err := orders.CreateOrder(customer.UserID, CreateOrderRequest{ShippingAddress: "1 Main St"})
	require.NoError(t, err)

	// A new line for the same product merges with the restored one.
	addToCart(t, cart, customer.UserID, 1, 1)

	_, err = orders.CancelOrder(stranger, order.ID)
	assertKind(t, err, ErrForbidden)

	result, err := orders.CancelOrder(customer, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.ItemsRestored)
	assert.Equal(t, models.StatusCancelled, result.Order.Status)
	assert.True(t, result.Order.CartRestored)
	assert.NotNil(t, result.Order.CancelledAt)

	assert.Equal(t, 10, loadProduct(t, s, 1).Stock)
	assert.Equal(t, 10, loadProduct(t, s, 2).Stock)

	view, err := cart.GetCart(customer.UserID)
	require.NoError(t, err)
	quantities := map[int]int{}
	for _, line := range view.Items {
		quantities[line.ProductID] = line.Quantity
	}
	assert.Equal(t, map[int]int{1: 3, 2: 1}, quantities)

	_, err = orders.CancelOrder(customer, order.ID)
	assertKind(t, err, ErrConflict)
}

func TestAdminCancelViaStatusRestocksOnly(t *testing.T) {
	s, cart, orders := newOrderFixture(t, models.Product{ID: 1, Name: "Mug", Price: 8, Category: "Home", Stock: 5})
	addToCart(t, cart, customer.UserID, 1, 2)
	order, err := orders.CreateOrder(customer.UserID, CreateOrderRequest{ShippingAddress: "1 Main St"})
	require.NoError(t, err)

	_, err = orders.UpdateOrderStatus(customer, order.ID, UpdateOrderStatusRequest{Status: "cancelled"})
	assertKind(t, err, ErrForbidden)

	updated, err := orders.UpdateOrderStatus(admin, order.ID, UpdateOrderStatusRequest{Status: "cancelled"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, updated.Status)
	assert.False(t, updated.CartRestored)
	assert.Equal(t, 5, loadProduct(t, s, 1).Stock)

	view, err := cart.GetCart(customer.UserID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestUpdateOrderStatusRejections(t *testing.T) {
	_, cart, orders := newOrderFixture(t, models.Product{ID: 1, Name: "Mug", Price: 8, Category: "Home", Stock: 5})
	addToCart(t, cart, customer.UserID, 1, 1)
	order, err := orders.CreateOrder(customer.UserID, CreateOrderRequest{ShippingAddress: "1 Main St"})
	require.NoError(t, err)

	_, err = orders.UpdateOrderStatus(admin, order.ID, UpdateOrderStatusRequest{Status: "lost"})
	assertKind(t, err, ErrValidation)

	_, err = orders.UpdateOrderStatus(admin, order.ID, UpdateOrderStatusRequest{Status: "delivered"})
	assertKind(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "Allowed")

	same, err := orders.UpdateOrderStatus(admin, order.ID, UpdateOrderStatusRequest{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, same.Status)

	_, err = orders.UpdateOrderStatus(admin, 404, UpdateOrderStatusRequest{Status: "processing"})
	assertKind(t, err, ErrNotFound)
}

func TestOrderVisibility(t *testing.T) {
	_, cart, orders := newOrderFixture(t, models.Product{ID: 1, Name: "Mug", Price: 8, Category: "Home", Stock: 5})
	addToCart(t, cart, customer.UserID, 1, 1)
	order, err := orders.CreateOrder(customer.UserID, CreateOrderRequest{ShippingAddress: "1 Main St"})
	require.NoError(t, err)

	_, err = orders.GetOrder(stranger, order.ID)
	assertKind(t, err, ErrForbidden)

	mine, err := orders.ListOrders(stranger)
	require.NoError(t, err)
	assert.Empty(t, mine)

	all, err := orders.ListOrders(admin)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	updated, err := orders.UpdateOrder(customer, order.ID, UpdateOrderRequest{ShippingAddress: "2 Side St"})
	require.NoError(t, err)
	assert.Equal(t, "2 Side St", updated.ShippingAddress)
}
