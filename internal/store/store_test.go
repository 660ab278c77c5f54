package store

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (i item) RecordID() int { return i.ID }

type counters struct {
	Hits int `json:"hits"`
}

func TestCollectionLoadDegradesToEmpty(t *testing.T) {
	dir := t.TempDir()
	s := New(NewFileBackend(dir))
	c := NewCollection[item](s, "items")

	items, err := c.Load()
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "items.json"), []byte("{not json"), 0o644))
	items, err = c.Load()
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "items.json"), []byte("   "), 0o644))
	items, err = c.Load()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCollectionRoundTripOnDisk(t *testing.T) {
	dir := t.TempDir()
	s := New(NewFileBackend(dir))
	c := NewCollection[item](s, "items")

	require.NoError(t, c.Save([]item{{ID: 1, Name: "a"}, {ID: 4, Name: "b"}}))

	_, err := os.Stat(filepath.Join(dir, "items.json"))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")

	items, err := c.Load()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[1].Name)

	exists, err := s.Exists("items")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.Exists("other")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestNextID(t *testing.T) {
	tests := []struct {
		name  string
		items []item
		want  int
	}{
		{"empty", nil, 1},
		{"sequential", []item{{ID: 1}, {ID: 2}}, 3},
		{"gaps", []item{{ID: 7}, {ID: 2}}, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextID(tt.items))
		})
	}
}

func TestFind(t *testing.T) {
	items := []item{{ID: 3, Name: "x"}, {ID: 5, Name: "y"}}

	found, idx := Find(items, 5)
	require.NotNil(t, found)
	assert.Equal(t, 1, idx)
	found.Name = "changed"
	assert.Equal(t, "changed", items[1].Name)

	found, idx = Find(items, 9)
	assert.Nil(t, found)
	assert.Equal(t, -1, idx)
}

func TestDocument(t *testing.T) {
	s := New(NewMemoryBackend())
	d := NewDocument[counters](s, "counters")

	v, err := d.Load()
	require.NoError(t, err)
	assert.Zero(t, v.Hits)

	require.NoError(t, d.Save(counters{Hits: 3}))
	v, err = d.Load()
	require.NoError(t, err)
	assert.Equal(t, 3, v.Hits)
}

func TestLockSerialisesReadModifyWrite(t *testing.T) {
	s := New(NewMemoryBackend())
	c := NewCollection[item](s, "items")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// mixed orderings must not deadlock
			unlock := s.Lock("items", "aux", "items")
			defer unlock()

			items, err := c.Load()
			if err != nil {
				t.Error(err)
				return
			}
			items = append(items, item{ID: NextID(items)})
			if err := c.Save(items); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	items, err := c.Load()
	require.NoError(t, err)
	assert.Len(t, items, 50)
	assert.Equal(t, 51, NextID(items))
}

func TestUnlockIsIdempotent(t *testing.T) {
	s := New(NewMemoryBackend())
	unlock := s.RLock("a", "b")
	unlock()
	assert.NotPanics(t, unlock)

	unlock = s.Lock("a")
	unlock()
}
