package store

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/princeprakhar/shopfront-api/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Record is implemented by every type stored in a list collection.
type Record interface {
	RecordID() int
}

// Collection is a typed view over a list collection.
type Collection[T Record] struct {
	store *Store
	name  string
}

func NewCollection[T Record](s *Store, name string) *Collection[T] {
	return &Collection[T]{store: s, name: name}
}

func (c *Collection[T]) Name() string {
	return c.name
}

// Load returns every record. A missing or undecodable collection loads as
// empty; only backend I/O failures are returned as errors.
func (c *Collection[T]) Load() ([]T, error) {
	data, err := c.store.backend.Read(c.name)
	if errors.Is(err, ErrMissing) {
		return []T{}, nil
	}
	if err != nil {
		return nil, wrapError(err, "load", c.name)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		logger.WithFields(logrus.Fields{
			"collection": c.name,
			"error":      err.Error(),
		}).Warn("Malformed collection, treating as empty")
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Save replaces the whole collection.
func (c *Collection[T]) Save(items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return wrapError(err, "encode", c.name)
	}
	return wrapError(c.store.backend.Write(c.name, data), "save", c.name)
}

// Count decodes a list collection only far enough to count its records.
// Unlike Load it reports malformed data.
func (s *Store) Count(name string) (int, error) {
	data, err := s.backend.Read(name)
	if errors.Is(err, ErrMissing) {
		return 0, nil
	}
	if err != nil {
		return 0, wrapError(err, "count", name)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return 0, nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, wrapError(err, "count", name)
	}
	return len(raw), nil
}

// Find returns a pointer into items for the record with the given id.
func Find[T Record](items []T, id int) (*T, int) {
	for i := range items {
		if items[i].RecordID() == id {
			return &items[i], i
		}
	}
	return nil, -1
}

// NextID is one greater than the largest id in items, or 1 when empty.
func NextID[T Record](items []T) int {
	max := 0
	for _, item := range items {
		if id := item.RecordID(); id > max {
			max = id
		}
	}
	return max + 1
}

// Filter returns the records for which keep is true.
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// Document is a typed view over a collection holding a single JSON object.
type Document[T any] struct {
	store *Store
	name  string
}

func NewDocument[T any](s *Store, name string) *Document[T] {
	return &Document[T]{store: s, name: name}
}

// Load returns the zero value when the document is missing or malformed.
func (d *Document[T]) Load() (T, error) {
	var value T
	data, err := d.store.backend.Read(d.name)
	if errors.Is(err, ErrMissing) {
		return value, nil
	}
	if err != nil {
		return value, wrapError(err, "load", d.name)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return value, nil
	}
	if err := json.Unmarshal(data, &value); err != nil {
		logger.WithFields(logrus.Fields{
			"collection": d.name,
			"error":      err.Error(),
		}).Warn("Malformed document, treating as empty")
		var zero T
		return zero, nil
	}
	return value, nil
}

func (d *Document[T]) Save(value T) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return wrapError(err, "encode", d.name)
	}
	return wrapError(d.store.backend.Write(d.name, data), "save", d.name)
}
