package services

import (
	"bytes"
	"encoding/csv"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/princeprakhar/shopfront-api/internal/models"
	"github.com/princeprakhar/shopfront-api/internal/store"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// AdminService computes reports and exports. Nothing is cached; every call
// reads the collections it needs.
type AdminService struct {
	store             *store.Store
	users             *store.Collection[models.User]
	products          *store.Collection[models.Product]
	orders            *store.Collection[models.Order]
	reviews           *store.Collection[models.Review]
	analytics         *store.Document[models.Analytics]
	lowStockThreshold int
	now               func() time.Time
}

func NewAdminService(s *store.Store, lowStockThreshold int) *AdminService {
	return &AdminService{
		store:             s,
		users:             store.NewCollection[models.User](s, store.Users),
		products:          store.NewCollection[models.Product](s, store.Products),
		orders:            store.NewCollection[models.Order](s, store.Orders),
		reviews:           store.NewCollection[models.Review](s, store.Reviews),
		analytics:         store.NewDocument[models.Analytics](s, store.Analytics),
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
	}
}

type Stats struct {
	TotalUsers        int     `json:"total_users"`
	TotalProducts     int     `json:"total_products"`
	TotalOrders       int     `json:"total_orders"`
	TotalRevenue      float64 `json:"total_revenue"`
	PendingOrders     int     `json:"pending_orders"`
	LowStockProducts  int     `json:"low_stock_products"`
	TotalReviews      int     `json:"total_reviews"`
	LowStockThreshold int     `json:"low_stock_threshold"`
}

// DateRange is a half-open interval [Start, End); nil bounds are open.
type DateRange struct {
	Start *time.Time `json:"-"`
	End   *time.Time `json:"-"`
	From  string     `json:"start_date,omitempty"`
	To    string     `json:"end_date,omitempty"`
}

func (r DateRange) contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && !t.Before(*r.End) {
		return false
	}
	return true
}

// ParseDateRange accepts YYYY-MM-DD or RFC 3339 bounds, both inclusive. A
// date-only end covers the whole day.
func ParseDateRange(start, end string) (DateRange, error) {
	var r DateRange
	if start = strings.TrimSpace(start); start != "" {
		t, _, err := parseDate(start)
		if err != nil {
			return r, validationError("invalid start_date %q: use YYYY-MM-DD", start)
		}
		r.Start = &t
		r.From = start
	}
	if end = strings.TrimSpace(end); end != "" {
		t, dateOnly, err := parseDate(end)
		if err != nil {
			return r, validationError("invalid end_date %q: use YYYY-MM-DD", end)
		}
		if dateOnly {
			t = t.AddDate(0, 0, 1)
		} else {
			t = t.Add(time.Nanosecond)
		}
		r.End = &t
		r.To = end
	}
	if r.Start != nil && r.End != nil && !r.Start.Before(*r.End) {
		return r, validationError("start_date must not be after end_date")
	}
	return r, nil
}

func parseDate(v string) (time.Time, bool, error) {
	if t, err := time.Parse(dateLayout, v); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	return t, false, err
}

func revenueOf(orders []models.Order) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		if o.CountsTowardRevenue() {
			total = total.Add(decimal.NewFromFloat(o.TotalAmount))
		}
	}
	return total
}

func (s *AdminService) GetStats() (*Stats, error) {
	defer s.store.RLock(store.Users, store.Products, store.Orders, store.Reviews)()

	users, err := s.users.Load()
	if err != nil {
		return nil, err
	}
	products, err := s.products.Load()
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.Load()
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.Load()
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalUsers:        len(users),
		TotalProducts:     len(products),
		TotalOrders:       len(orders),
		TotalRevenue:      models.Amount(revenueOf(orders)),
		TotalReviews:      len(reviews),
		LowStockThreshold: s.lowStockThreshold,
	}
	for _, o := range orders {
		if o.Status == models.StatusPending {
			stats.PendingOrders++
		}
	}
	for _, p := range products {
		if p.Stock < s.lowStockThreshold {
			stats.LowStockProducts++
		}
	}
	return stats, nil
}

type PopularProduct struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	Views     int    `json:"views"`
	Orders    int    `json:"orders"`
}

type DailySales struct {
	Date    string  `json:"date"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type Dashboard struct {
	TotalUsers      int              `json:"total_users"`
	TotalProducts   int              `json:"total_products"`
	TotalOrders     int              `json:"total_orders"`
	TotalRevenue    float64          `json:"total_revenue"`
	MonthlyRevenue  float64          `json:"monthly_revenue"`
	PopularProducts []PopularProduct `json:"popular_products"`
	SalesLast7Days  []DailySales     `json:"sales_last_7_days"`
	Registrations   []DailyCount     `json:"registrations_last_7_days"`
}

func (s *AdminService) GetDashboard() (*Dashboard, error) {
	defer s.store.RLock(store.Users, store.Products, store.Orders, store.Analytics)()

	users, err := s.users.Load()
	if err != nil {
		return nil, err
	}
	products, err := s.products.Load()
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.Load()
	if err != nil {
		return nil, err
	}
	doc, err := s.analytics.Load()
	if err != nil {
		return nil, err
	}

	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthly := store.Filter(orders, func(o models.Order) bool { return !o.CreatedAt.Before(monthStart) })

	dash := &Dashboard{
		TotalUsers:      len(users),
		TotalProducts:   len(products),
		TotalOrders:     len(orders),
		TotalRevenue:    models.Amount(revenueOf(orders)),
		MonthlyRevenue:  models.Amount(revenueOf(monthly)),
		PopularProducts: popularProducts(doc, products, 5),
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		r := DateRange{Start: &day}
		next := day.AddDate(0, 0, 1)
		r.End = &next

		dayOrders := store.Filter(orders, func(o models.Order) bool { return r.contains(o.CreatedAt) })
		dash.SalesLast7Days = append(dash.SalesLast7Days, DailySales{
			Date:    day.Format(dateLayout),
			Orders:  len(dayOrders),
			Revenue: models.Amount(revenueOf(dayOrders)),
		})

		registered := 0
		for _, u := range users {
			if r.contains(u.CreatedAt) {
				registered++
			}
		}
		dash.Registrations = append(dash.Registrations, DailyCount{Date: day.Format(dateLayout), Count: registered})
	}
	return dash, nil
}

// popularProducts ranks by units ordered, then views. Deleted products are
// left out.
func popularProducts(doc models.Analytics, products []models.Product, limit int) []PopularProduct {
	counters := append([]models.ProductCounter(nil), doc.PopularProducts...)
	sort.SliceStable(counters, func(i, j int) bool {
		if counters[i].Orders != counters[j].Orders {
			return counters[i].Orders > counters[j].Orders
		}
		return counters[i].Views > counters[j].Views
	})

	out := make([]PopularProduct, 0, limit)
	for _, c := range counters {
		if len(out) == limit {
			break
		}
		p, _ := store.Find(products, c.ProductID)
		if p == nil {
			continue
		}
		out = append(out, PopularProduct{ProductID: p.ID, Name: p.Name, Views: c.Views, Orders: c.Orders})
	}
	return out
}

type StatusSales struct {
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

type SalesReport struct {
	Period            DateRange                          `json:"period"`
	TotalOrders       int                                `json:"total_orders"`
	TotalRevenue      float64                            `json:"total_revenue"`
	CancelledOrders   int                                `json:"cancelled_orders"`
	AverageOrderValue float64                            `json:"average_order_value"`
	SalesByStatus     map[models.OrderStatus]StatusSales `json:"sales_by_status"`
}

func (s *AdminService) GetSalesReport(r DateRange) (*SalesReport, error) {
	unlock := s.store.RLock(store.Orders)
	orders, err := s.orders.Load()
	unlock()
	if err != nil {
		return nil, err
	}

	inRange := store.Filter(orders, func(o models.Order) bool { return r.contains(o.CreatedAt) })
	report := &SalesReport{
		Period:        r,
		TotalOrders:   len(inRange),
		SalesByStatus: make(map[models.OrderStatus]StatusSales),
	}

	byStatus := make(map[models.OrderStatus]decimal.Decimal)
	counted := 0
	for _, o := range inRange {
		st := report.SalesByStatus[o.Status]
		st.Count++
		report.SalesByStatus[o.Status] = st
		byStatus[o.Status] = byStatus[o.Status].Add(decimal.NewFromFloat(o.TotalAmount))

		if o.Status == models.StatusCancelled {
			report.CancelledOrders++
		} else {
			counted++
		}
	}
	for status, total := range byStatus {
		st := report.SalesByStatus[status]
		st.Revenue = models.Amount(total)
		report.SalesByStatus[status] = st
	}

	revenue := revenueOf(inRange)
	report.TotalRevenue = models.Amount(revenue)
	if counted > 0 {
		report.AverageOrderValue = models.Amount(revenue.Div(decimal.NewFromInt(int64(counted))))
	}
	return report, nil
}

type Export[T any] struct {
	ExportedAt time.Time `json:"exported_at"`
	Count      int       `json:"count"`
	Records    []T       `json:"records"`
}

func (s *AdminService) ExportProducts() (*Export[models.Product], error) {
	defer s.store.RLock(store.Products)()

	products, err := s.products.Load()
	if err != nil {
		return nil, err
	}
	return &Export[models.Product]{ExportedAt: s.now(), Count: len(products), Records: products}, nil
}

func (s *AdminService) ExportOrders(r DateRange) (*Export[models.Order], error) {
	defer s.store.RLock(store.Orders)()

	orders, err := s.orders.Load()
	if err != nil {
		return nil, err
	}
	inRange := store.Filter(orders, func(o models.Order) bool { return r.contains(o.CreatedAt) })
	return &Export[models.Order]{ExportedAt: s.now(), Count: len(inRange), Records: inRange}, nil
}

func writeCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ProductsCSV renders a product export as CSV.
func ProductsCSV(products []models.Product) ([]byte, error) {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			strconv.Itoa(p.ID),
			p.Name,
			p.Category,
			strconv.FormatFloat(p.Price, 'f', 2, 64),
			strconv.Itoa(p.Stock),
			p.CreatedAt.Format(time.RFC3339),
		})
	}
	return writeCSV([]string{"id", "name", "category", "price", "stock", "created_at"}, rows)
}

// OrdersCSV renders an order export as CSV, one row per order.
func OrdersCSV(orders []models.Order) ([]byte, error) {
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []string{
			strconv.Itoa(o.ID),
			strconv.Itoa(o.UserID),
			string(o.Status),
			strconv.Itoa(o.Units()),
			strconv.FormatFloat(o.TotalAmount, 'f', 2, 64),
			o.CreatedAt.Format(time.RFC3339),
		})
	}
	return writeCSV([]string{"id", "user_id", "status", "items", "total_amount", "created_at"}, rows)
}

type CollectionHealth struct {
	Status  string `json:"status"`
	Records int    `json:"records"`
	Error   string `json:"error,omitempty"`
}

type SystemHealth struct {
	Status      string                      `json:"status"`
	Backend     string                      `json:"backend"`
	Collections map[string]CollectionHealth `json:"collections"`
	CheckedAt   time.Time                   `json:"checked_at"`
}

// SystemHealth reads every list collection and reports its record count.
func (s *AdminService) SystemHealth() *SystemHealth {
	health := &SystemHealth{
		Status:      "healthy",
		Backend:     s.store.Backend().Name(),
		Collections: make(map[string]CollectionHealth, len(store.ListCollections)),
		CheckedAt:   s.now(),
	}
	for _, name := range store.ListCollections {
		unlock := s.store.RLock(name)
		n, err := s.store.Count(name)
		unlock()
		if err != nil {
			health.Status = "degraded"
			health.Collections[name] = CollectionHealth{Status: "error", Error: err.Error()}
			continue
		}
		health.Collections[name] = CollectionHealth{Status: "ok", Records: n}
	}
	return health
}
