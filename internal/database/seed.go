package database

import (
	"time"

	"github.com/princeprakhar/shopfront-api/internal/models"
	"github.com/princeprakhar/shopfront-api/internal/store"
	"github.com/princeprakhar/shopfront-api/pkg/logger"
)

// Seed creates every collection that does not exist yet. Existing
// collections are left untouched.
func Seed(s *store.Store) error {
	now := time.Now()

	for _, name := range store.ListCollections {
		exists, err := s.Exists(name)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		switch name {
		case store.Categories:
			err = store.NewCollection[models.Category](s, name).Save(models.DefaultCategories(now))
		default:
			err = s.Backend().Write(name, []byte("[]"))
		}
		if err != nil {
			return err
		}
		logger.Infof("Initialised collection %s", name)
	}

	exists, err := s.Exists(store.Analytics)
	if err != nil {
		return err
	}
	if !exists {
		doc := models.Analytics{PopularProducts: []models.ProductCounter{}, UpdatedAt: now}
		if err := store.NewDocument[models.Analytics](s, store.Analytics).Save(doc); err != nil {
			return err
		}
	}
	return nil
}
