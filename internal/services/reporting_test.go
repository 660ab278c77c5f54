package services

import (
	"strings"
	"testing"
	"time"

	"github.com/princeprakhar/shopfront-api/internal/models"
	"github.com/princeprakhar/shopfront-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func seedOrders(t *testing.T, s *store.Store, orders ...models.Order) {
	t.Helper()
	require.NoError(t, store.NewCollection[models.Order](s, store.Orders).Save(orders))
}

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 12, 0, 0, 0, time.UTC)
}

func TestInventoryUpdateStock(t *testing.T) {
	s := newTestStore(t)
	seedProducts(t, s, models.Product{ID: 1, Name: "Mug", Price: 9.99, Category: "Kitchen", Stock: 4})
	svc := NewInventoryService(s, 10)

	change, err := svc.UpdateStock(UpdateStockRequest{ProductID: 1, Stock: intPtr(25)})
	require.NoError(t, err)
	assert.Equal(t, 4, change.OldStock)
	assert.Equal(t, 25, change.NewStock)
	assert.Equal(t, 25, loadProduct(t, s, 1).Stock)

	_, err = svc.UpdateStock(UpdateStockRequest{ProductID: 1, Stock: intPtr(-1)})
	assertKind(t, err, ErrValidation)

	_, err = svc.UpdateStock(UpdateStockRequest{ProductID: 1})
	assertKind(t, err, ErrValidation)

	_, err = svc.UpdateStock(UpdateStockRequest{ProductID: 42, Stock: intPtr(1)})
	assertKind(t, err, ErrNotFound)
}

func TestInventoryLowStockAndBulkUpdate(t *testing.T) {
	s := newTestStore(t)
	seedProducts(t, s,
		models.Product{ID: 1, Name: "Mug", Price: 9.99, Category: "Kitchen", Stock: 10},
		models.Product{ID: 2, Name: "Pan", Price: 29.99, Category: "Kitchen", Stock: 11},
		models.Product{ID: 3, Name: "Cup", Price: 4.99, Category: "Kitchen", Stock: 0},
	)
	svc := NewInventoryService(s, 10)

	report, err := svc.LowStock(0)
	require.NoError(t, err)
	assert.Equal(t, 10, report.Threshold)
	assert.Len(t, report.Products, 2)

	report, err = svc.LowStock(5)
	require.NoError(t, err)
	require.Len(t, report.Products, 1)
	assert.Equal(t, 3, report.Products[0].ID)

	price := 12.5
	result, err := svc.BulkUpdate([]models.BulkProductUpdate{
		{ID: 1, UpdateProductRequest: models.UpdateProductRequest{Price: &price}},
		{ID: 3, UpdateProductRequest: models.UpdateProductRequest{Stock: intPtr(50)}},
		{ID: 9, UpdateProductRequest: models.UpdateProductRequest{Stock: intPtr(1)}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, []int{9}, result.NotFound)
	assert.Equal(t, 12.5, loadProduct(t, s, 1).Price)
	assert.Equal(t, 50, loadProduct(t, s, 3).Stock)

	bad := -3.0
	_, err = svc.BulkUpdate([]models.BulkProductUpdate{
		{ID: 2, UpdateProductRequest: models.UpdateProductRequest{Stock: intPtr(1)}},
		{ID: 1, UpdateProductRequest: models.UpdateProductRequest{Price: &bad}},
	})
	assertKind(t, err, ErrValidation)
	assert.Equal(t, 11, loadProduct(t, s, 2).Stock)

	_, err = svc.BulkUpdate(nil)
	assertKind(t, err, ErrValidation)
}

func TestGetStats(t *testing.T) {
	s := newTestStore(t)
	seedProducts(t, s,
		models.Product{ID: 1, Name: "Mug", Price: 10, Category: "Kitchen", Stock: 9},
		models.Product{ID: 2, Name: "Pan", Price: 30, Category: "Kitchen", Stock: 10},
	)
	seedOrders(t, s,
		models.Order{ID: 1, UserID: 1, TotalAmount: 20, Status: models.StatusPending, CreatedAt: day(1)},
		models.Order{ID: 2, UserID: 1, TotalAmount: 30.1, Status: models.StatusDelivered, CreatedAt: day(2)},
		models.Order{ID: 3, UserID: 2, TotalAmount: 100, Status: models.StatusCancelled, CreatedAt: day(3)},
	)

	stats, err := NewAdminService(s, 10).GetStats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalOrders)
	assert.Equal(t, 50.1, stats.TotalRevenue)
	assert.Equal(t, 1, stats.PendingOrders)
	assert.Equal(t, 1, stats.LowStockProducts)
	assert.Equal(t, 2, stats.TotalProducts)
}

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange("2024-03-02", "2024-03-03")
	require.NoError(t, err)
	assert.False(t, r.contains(day(1)))
	assert.True(t, r.contains(day(2)))
	assert.True(t, r.contains(time.Date(2024, time.March, 3, 23, 59, 59, 0, time.UTC)))
	assert.False(t, r.contains(time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)))

	open, err := ParseDateRange("", "")
	require.NoError(t, err)
	assert.True(t, open.contains(day(1)))

	_, err = ParseDateRange("03/02/2024", "")
	assertKind(t, err, ErrValidation)

	_, err = ParseDateRange("2024-03-05", "2024-03-01")
	assertKind(t, err, ErrValidation)
}

func TestSalesReport(t *testing.T) {
	s := newTestStore(t)
	seedOrders(t, s,
		models.Order{ID: 1, UserID: 1, TotalAmount: 20, Status: models.StatusPending, CreatedAt: day(1)},
		models.Order{ID: 2, UserID: 1, TotalAmount: 40, Status: models.StatusShipped, CreatedAt: day(2)},
		models.Order{ID: 3, UserID: 2, TotalAmount: 15, Status: models.StatusCancelled, CreatedAt: day(2)},
		models.Order{ID: 4, UserID: 2, TotalAmount: 60, Status: models.StatusShipped, CreatedAt: day(3)},
		models.Order{ID: 5, UserID: 2, TotalAmount: 99, Status: models.StatusDelivered, CreatedAt: day(9)},
	)
	svc := NewAdminService(s, 10)

	r, err := ParseDateRange("2024-03-02", "2024-03-03")
	require.NoError(t, err)
	report, err := svc.GetSalesReport(r)
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalOrders)
	assert.Equal(t, 1, report.CancelledOrders)
	assert.Equal(t, 100.0, report.TotalRevenue)
	assert.Equal(t, 50.0, report.AverageOrderValue)
	assert.Equal(t, StatusSales{Count: 2, Revenue: 100}, report.SalesByStatus[models.StatusShipped])
	assert.Equal(t, 1, report.SalesByStatus[models.StatusCancelled].Count)
	assert.Equal(t, "2024-03-02", report.Period.From)

	export, err := svc.ExportOrders(r)
	require.NoError(t, err)
	assert.Equal(t, 3, export.Count)

	data, err := OrdersCSV(export.Records)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "id,user_id,status,items,total_amount,created_at", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2,1,shipped,0,40.00,"))
}

func TestProductsCSVAndHealth(t *testing.T) {
	s := newTestStore(t)
	seedProducts(t, s, models.Product{ID: 1, Name: "Mug, large", Price: 9.5, Category: "Kitchen", Stock: 3})
	svc := NewAdminService(s, 10)

	export, err := svc.ExportProducts()
	require.NoError(t, err)
	data, err := ProductsCSV(export.Records)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "id,name,category,price,stock,created_at\n1,\"Mug, large\",Kitchen,9.50,3,"))

	health := svc.SystemHealth()
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "memory", health.Backend)
	assert.Equal(t, 1, health.Collections[store.Products].Records)
}
