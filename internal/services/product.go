package services

import (
	"context"
	"mime/multipart"
	"sort"
	"strings"
	"time"

	"github.com/princeprakhar/shopfront-api/internal/models"
	"github.com/princeprakhar/shopfront-api/internal/store"
	"github.com/princeprakhar/shopfront-api/internal/utils"
	"github.com/princeprakhar/shopfront-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	DefaultPageSize     = 10
	MaxPageSize         = 100
	recommendationLimit = 5
)

type ProductService struct {
	store     *store.Store
	products  *store.Collection[models.Product]
	reviews   *store.Collection[models.Review]
	orders    *store.Collection[models.Order]
	analytics *store.Document[models.Analytics]
	images    ImageStore
}

func NewProductService(s *store.Store, images ImageStore) *ProductService {
	return &ProductService{
		store:     s,
		products:  store.NewCollection[models.Product](s, store.Products),
		reviews:   store.NewCollection[models.Review](s, store.Reviews),
		orders:    store.NewCollection[models.Order](s, store.Orders),
		analytics: store.NewDocument[models.Analytics](s, store.Analytics),
		images:    images,
	}
}

type ProductFilter struct {
	Category string  `form:"category"`
	MinPrice float64 `form:"min_price"`
	MaxPrice float64 `form:"max_price"`
	Search   string  `form:"search"`
	Page     int     `form:"page"`
	PerPage  int     `form:"per_page"`
}

type Pagination struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
	Pages   int `json:"pages"`
}

type ProductPage struct {
	Products   []models.Product `json:"products"`
	Pagination Pagination       `json:"pagination"`
}

// ValidateAndNormalize validates and normalizes filter parameters
func (f *ProductFilter) ValidateAndNormalize() error {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PerPage <= 0 {
		f.PerPage = DefaultPageSize
	}
	if f.PerPage > MaxPageSize {
		f.PerPage = MaxPageSize
	}

	if f.MinPrice < 0 || f.MaxPrice < 0 {
		return validationError("prices cannot be negative")
	}
	if f.MinPrice > 0 && f.MaxPrice > 0 && f.MinPrice > f.MaxPrice {
		return validationError("min_price cannot be greater than max_price")
	}

	f.Search = strings.TrimSpace(f.Search)
	f.Category = strings.TrimSpace(f.Category)
	return nil
}

func (f ProductFilter) matches(p models.Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.MinPrice > 0 && p.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return false
	}
	if f.Search != "" && !matchesText(p, f.Search) {
		return false
	}
	return true
}

func matchesText(p models.Product, q string) bool {
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q)
}

// GetProducts filters and paginates the catalog.
func (s *ProductService) GetProducts(filter ProductFilter) (*ProductPage, error) {
	if err := filter.ValidateAndNormalize(); err != nil {
		return nil, err
	}

	unlock := s.store.RLock(store.Products)
	products, err := s.products.Load()
	unlock()
	if err != nil {
		return nil, err
	}

	matched := store.Filter(products, filter.matches)
	total := len(matched)
	pages := (total + filter.PerPage - 1) / filter.PerPage

	// Compare page numbers before multiplying so a huge page cannot overflow.
	start := total
	if filter.Page-1 < pages {
		start = (filter.Page - 1) * filter.PerPage
	}
	end := start + filter.PerPage
	if end > total {
		end = total
	}

	return &ProductPage{
		Products: matched[start:end],
		Pagination: Pagination{
			Page:    filter.Page,
			PerPage: filter.PerPage,
			Total:   total,
			Pages:   pages,
		},
	}, nil
}

// GetProductByID returns one product and counts the view.
func (s *ProductService) GetProductByID(id int) (*models.Product, error) {
	unlock := s.store.RLock(store.Products)
	products, err := s.products.Load()
	unlock()
	if err != nil {
		return nil, err
	}

	product, _ := store.Find(products, id)
	if product == nil {
		return nil, notFoundError("product not found")
	}

	s.recordView(id)
	return product, nil
}

func (s *ProductService) recordView(id int) {
	defer s.store.Lock(store.Analytics)()

	doc, err := s.analytics.Load()
	if err == nil {
		doc.RecordView(id, time.Now())
		err = s.analytics.Save(doc)
	}
	if err != nil {
		logger.WithFields(logrus.Fields{"product_id": id, "error": err.Error()}).Warn("Failed to record product view")
	}
}

func validateProductFields(name *string, price *float64, category *string, stock *int) error {
	if name != nil && strings.TrimSpace(*name) == "" {
		return validationError("name is required")
	}
	if price != nil && *price <= 0 {
		return validationError("price must be greater than 0")
	}
	if category != nil && strings.TrimSpace(*category) == "" {
		return validationError("category is required")
	}
	if stock != nil && *stock < 0 {
		return validationError("stock cannot be negative")
	}
	return nil
}

func (s *ProductService) CreateProduct(req models.CreateProductRequest) (*models.Product, error) {
	if err := validateProductFields(&req.Name, &req.Price, &req.Category, &req.Stock); err != nil {
		return nil, err
	}

	defer s.store.Lock(store.Products)()

	products, err := s.products.Load()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	product := models.Product{
		ID:          store.NextID(products),
		Name:        utils.SanitizeString(req.Name),
		Description: utils.SanitizeString(req.Description),
		Price:       req.Price,
		Category:    utils.SanitizeString(req.Category),
		Stock:       req.Stock,
		ImageURL:    utils.SanitizeString(req.ImageURL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.products.Save(append(products, product)); err != nil {
		return nil, err
	}
	return &product, nil
}

func applyProductUpdate(p *models.Product, req models.UpdateProductRequest, now time.Time) {
	if req.Name != nil {
		p.Name = utils.SanitizeString(*req.Name)
	}
	if req.Description != nil {
		p.Description = utils.SanitizeString(*req.Description)
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Category != nil {
		p.Category = utils.SanitizeString(*req.Category)
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.ImageURL != nil {
		p.ImageURL = utils.SanitizeString(*req.ImageURL)
	}
	p.UpdatedAt = now
}

func (s *ProductService) UpdateProduct(id int, req models.UpdateProductRequest) (*models.Product, error) {
	if err := validateProductFields(req.Name, req.Price, req.Category, req.Stock); err != nil {
		return nil, err
	}

	defer s.store.Lock(store.Products)()

	products, err := s.products.Load()
	if err != nil {
		return nil, err
	}
	product, _ := store.Find(products, id)
	if product == nil {
		return nil, notFoundError("product not found")
	}

	applyProductUpdate(product, req, time.Now())
	if err := s.products.Save(products); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id int) error {
	unlock := s.store.Lock(store.Products)
	products, err := s.products.Load()
	if err != nil {
		unlock()
		return err
	}
	product, idx := store.Find(products, id)
	if product == nil {
		unlock()
		return notFoundError("product not found")
	}
	imageKey := product.ImageKey
	err = s.products.Save(append(products[:idx], products[idx+1:]...))
	unlock()
	if err != nil {
		return err
	}

	s.deleteImage(ctx, imageKey)
	return nil
}

func (s *ProductService) deleteImage(ctx context.Context, key string) {
	if key == "" || s.images == nil {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		logger.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Failed to delete product image")
	}
}

// UploadImage stores a new product image and replaces the old one.
func (s *ProductService) UploadImage(ctx context.Context, id int, file multipart.File, header *multipart.FileHeader) (*models.Product, error) {
	if s.images == nil {
		return nil, ErrImagesDisabled
	}

	unlock := s.store.RLock(store.Products)
	products, err := s.products.Load()
	unlock()
	if err != nil {
		return nil, err
	}
	if p, _ := store.Find(products, id); p == nil {
		return nil, notFoundError("product not found")
	}

	// Upload outside the lock; the product is re-read before the update.
	result, err := s.images.Upload(ctx, file, header)
	if err != nil {
		return nil, err
	}

	unlock = s.store.Lock(store.Products)
	products, err = s.products.Load()
	if err != nil {
		unlock()
		s.deleteImage(ctx, result.Key)
		return nil, err
	}
	product, _ := store.Find(products, id)
	if product == nil {
		unlock()
		s.deleteImage(ctx, result.Key)
		return nil, notFoundError("product not found")
	}
	oldKey := product.ImageKey
	product.ImageURL = result.URL
	product.ImageKey = result.Key
	product.UpdatedAt = time.Now()
	updated := *product
	err = s.products.Save(products)
	unlock()
	if err != nil {
		s.deleteImage(ctx, result.Key)
		return nil, err
	}

	s.deleteImage(ctx, oldKey)
	return &updated, nil
}

func (s *ProductService) SearchProducts(q string) ([]models.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, validationError("search query is required")
	}

	defer s.store.RLock(store.Products)()

	products, err := s.products.Load()
	if err != nil {
		return nil, err
	}
	return store.Filter(products, func(p models.Product) bool { return matchesText(p, q) }), nil
}

func (s *ProductService) GetProductsByCategory(category string) ([]models.Product, error) {
	defer s.store.RLock(store.Products)()

	products, err := s.products.Load()
	if err != nil {
		return nil, err
	}
	return store.Filter(products, func(p models.Product) bool {
		return strings.EqualFold(p.Category, category)
	}), nil
}

type AdvancedSearchFilter struct {
	Query     string  `form:"q"`
	Category  string  `form:"category"`
	MinPrice  float64 `form:"min_price"`
	MaxPrice  float64 `form:"max_price"`
	MinRating float64 `form:"min_rating"`
	SortBy    string  `form:"sort_by"`
	SortOrder string  `form:"sort_order"`
}

type ratingStat struct {
	sum   int
	count int
}

func (r ratingStat) average() float64 {
	if r.count == 0 {
		return 0
	}
	return decimal.NewFromInt(int64(r.sum)).Div(decimal.NewFromInt(int64(r.count))).Round(2).InexactFloat64()
}

func ratingsByProduct(reviews []models.Review) map[int]ratingStat {
	stats := make(map[int]ratingStat)
	for _, r := range reviews {
		st := stats[r.ProductID]
		st.sum += r.Rating
		st.count++
		stats[r.ProductID] = st
	}
	return stats
}

// AdvancedSearch filters on text, category, price and rating and sorts the
// result. Every product is annotated with its average rating.
func (s *ProductService) AdvancedSearch(f AdvancedSearchFilter) ([]models.ProductWithRating, error) {
	f.SortBy = strings.ToLower(strings.TrimSpace(f.SortBy))
	if f.SortBy == "" {
		f.SortBy = "name"
	}
	switch f.SortBy {
	case "name", "price", "rating", "newest":
	default:
		return nil, validationError("sort_by must be one of name, price, rating, newest")
	}
	// newest defaults to newest-first
	desc := strings.EqualFold(f.SortOrder, "desc") || (f.SortBy == "newest" && f.SortOrder == "")
	if f.MinRating < 0 || f.MinRating > 5 {
		return nil, validationError("min_rating must be between 0 and 5")
	}

	unlock := s.store.RLock(store.Products, store.Reviews)
	products, err := s.products.Load()
	if err != nil {
		unlock()
		return nil, err
	}
	reviews, err := s.reviews.Load()
	unlock()
	if err != nil {
		return nil, err
	}

	stats := ratingsByProduct(reviews)
	category := strings.TrimSpace(f.Category)
	base := ProductFilter{MinPrice: f.MinPrice, MaxPrice: f.MaxPrice, Search: strings.TrimSpace(f.Query)}

	out := make([]models.ProductWithRating, 0)
	for _, p := range products {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		if !base.matches(p) {
			continue
		}
		st := stats[p.ID]
		avg := st.average()
		if f.MinRating > 0 && avg < f.MinRating {
			continue
		}
		out = append(out, models.ProductWithRating{Product: p, AverageRating: avg, ReviewCount: st.count})
	}

	less := func(a, b models.ProductWithRating) bool {
		switch f.SortBy {
		case "price":
			return a.Price < b.Price
		case "rating":
			return a.AverageRating < b.AverageRating
		case "newest":
			return a.CreatedAt.Before(b.CreatedAt)
		default:
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out, nil
}

// Recommendations returns up to five products from the same category,
// closest in price first.
func (s *ProductService) Recommendations(productID int) ([]models.Product, error) {
	defer s.store.RLock(store.Products)()

	products, err := s.products.Load()
	if err != nil {
		return nil, err
	}
	target, _ := store.Find(products, productID)
	if target == nil {
		return nil, notFoundError("product not found")
	}

	candidates := store.Filter(products, func(p models.Product) bool {
		return p.ID != target.ID && strings.EqualFold(p.Category, target.Category)
	})
	sort.SliceStable(candidates, func(i, j int) bool {
		return priceDistance(candidates[i], target) < priceDistance(candidates[j], target)
	})
	return limitProducts(candidates, recommendationLimit), nil
}

func priceDistance(p models.Product, target *models.Product) float64 {
	d := p.Price - target.Price
	if d < 0 {
		return -d
	}
	return d
}

func limitProducts(products []models.Product, n int) []models.Product {
	if len(products) > n {
		return products[:n]
	}
	return products
}

// UserRecommendations suggests products from categories the user has bought
// from that they have not ordered yet. Users without usable history get the
// most popular products.
func (s *ProductService) UserRecommendations(userID int) ([]models.Product, error) {
	defer s.store.RLock(store.Products, store.Orders, store.Analytics)()

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

	score := make(map[int]int)
	for _, c := range doc.PopularProducts {
		score[c.ProductID] = c.Orders*10 + c.Views
	}
	byPopularity := func(list []models.Product) {
		sort.SliceStable(list, func(i, j int) bool {
			return score[list[i].ID] > score[list[j].ID]
		})
	}

	productsByID := make(map[int]models.Product, len(products))
	for _, p := range products {
		productsByID[p.ID] = p
	}

	ordered := make(map[int]bool)
	categories := make(map[string]bool)
	for _, o := range orders {
		if o.UserID != userID || !o.CountsTowardRevenue() {
			continue
		}
		for _, it := range o.Items {
			ordered[it.ProductID] = true
			if p, ok := productsByID[it.ProductID]; ok {
				categories[strings.ToLower(p.Category)] = true
			}
		}
	}

	candidates := store.Filter(products, func(p models.Product) bool {
		return categories[strings.ToLower(p.Category)] && !ordered[p.ID]
	})
	if len(candidates) == 0 {
		candidates = append([]models.Product(nil), products...)
	}
	byPopularity(candidates)
	return limitProducts(candidates, recommendationLimit), nil
}
