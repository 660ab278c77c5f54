package services

import (
	"errors"
	"testing"
	"time"

	"github.com/princeprakhar/shopfront-api/internal/models"
	"github.com/princeprakhar/shopfront-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(store.NewMemoryBackend())
}

func seedProducts(t *testing.T, s *store.Store, products ...models.Product) {
	t.Helper()
	now := time.Now()
	for i := range products {
		products[i].CreatedAt = now
		products[i].UpdatedAt = now
	}
	require.NoError(t, store.NewCollection[models.Product](s, store.Products).Save(products))
}

func loadProduct(t *testing.T, s *store.Store, id int) models.Product {
	t.Helper()
	products, err := store.NewCollection[models.Product](s, store.Products).Load()
	require.NoError(t, err)
	p, _ := store.Find(products, id)
	require.NotNil(t, p, "product %d", id)
	return *p
}

func assertKind(t *testing.T, err error, kind error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, kind), "expected %v, got %v", kind, err)
}

var (
	customer = Actor{UserID: 1, Email: "user@example.com"}
	stranger = Actor{UserID: 2, Email: "other@example.com"}
	admin    = Actor{UserID: 99, Email: "admin@example.com", IsAdmin: true}
)

func countRecords[T store.Record](t *testing.T, s *store.Store, name string) int {
	t.Helper()
	items, err := store.NewCollection[T](s, name).Load()
	require.NoError(t, err)
	return len(items)
}

// failingBackend rejects writes to the named collections.
type failingBackend struct {
	*store.MemoryBackend
	failWrites map[string]bool
}

func (b *failingBackend) Write(name string, data []byte) error {
	if b.failWrites[name] {
		return errors.New("disk full")
	}
	return b.MemoryBackend.Write(name, data)
}
