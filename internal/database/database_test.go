package database

import (
	"testing"

	"github.com/princeprakhar/shopfront-api/internal/config"
	"github.com/princeprakhar/shopfront-api/internal/models"
	"github.com/princeprakhar/shopfront-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitSelectsBackend(t *testing.T) {
	b, err := Init(&config.Config{StoreDriver: "file", DataDir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "file", b.Name())

	b, err = Init(&config.Config{StoreDriver: "memory"})
	require.NoError(t, err)
	assert.Equal(t, "memory", b.Name())

	_, err = Init(&config.Config{StoreDriver: "postgres"})
	assert.Error(t, err, "a SQL driver without DATABASE_URL must fail")

	_, err = Init(&config.Config{StoreDriver: "redis"})
	assert.Error(t, err)
}

func TestSeedIsIdempotent(t *testing.T) {
	s := store.New(store.NewFileBackend(t.TempDir()))
	require.NoError(t, Seed(s))

	categories := store.NewCollection[models.Category](s, store.Categories)
	cats, err := categories.Load()
	require.NoError(t, err)
	require.Len(t, cats, 5)
	assert.Equal(t, "Electronics", cats[0].Name)

	require.NoError(t, categories.Save(cats[:2]))
	require.NoError(t, Seed(s))

	cats, err = categories.Load()
	require.NoError(t, err)
	assert.Len(t, cats, 2, "seeding must not overwrite existing collections")

	for _, name := range append(store.ListCollections, store.Analytics) {
		exists, err := s.Exists(name)
		require.NoError(t, err)
		assert.True(t, exists, name)
	}
}
