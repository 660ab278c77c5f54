package services

import (
	"strings"
	"time"

	"github.com/princeprakhar/shopfront-api/internal/models"
	"github.com/princeprakhar/shopfront-api/internal/store"
	"github.com/princeprakhar/shopfront-api/internal/utils"
)

type CategoryService struct {
	store      *store.Store
	categories *store.Collection[models.Category]
	products   *store.Collection[models.Product]
}

type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func NewCategoryService(s *store.Store) *CategoryService {
	return &CategoryService{
		store:      s,
		categories: store.NewCollection[models.Category](s, store.Categories),
		products:   store.NewCollection[models.Product](s, store.Products),
	}
}

func (s *CategoryService) ListCategories() ([]models.Category, error) {
	defer s.store.RLock(store.Categories)()
	return s.categories.Load()
}

func (s *CategoryService) CreateCategory(req CategoryRequest) (*models.Category, error) {
	name := utils.SanitizeString(req.Name)
	if name == "" {
		return nil, validationError("category name is required")
	}

	defer s.store.Lock(store.Categories)()

	categories, err := s.categories.Load()
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		if strings.EqualFold(c.Name, name) {
			return nil, conflictError("category %q already exists", name)
		}
	}

	category := models.Category{
		ID:          store.NextID(categories),
		Name:        name,
		Description: utils.SanitizeString(req.Description),
		CreatedAt:   time.Now(),
	}
	if err := s.categories.Save(append(categories, category)); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory refuses while any product still uses the category name.
func (s *CategoryService) DeleteCategory(id int) error {
	defer s.store.Lock(store.Categories, store.Products)()

	categories, err := s.categories.Load()
	if err != nil {
		return err
	}
	category, idx := store.Find(categories, id)
	if category == nil {
		return notFoundError("category not found")
	}

	products, err := s.products.Load()
	if err != nil {
		return err
	}
	inUse := 0
	for _, p := range products {
		if strings.EqualFold(p.Category, category.Name) {
			inUse++
		}
	}
	if inUse > 0 {
		return conflictError("cannot delete category %q: %d products use it", category.Name, inUse)
	}

	return s.categories.Save(append(categories[:idx], categories[idx+1:]...))
}
